package display_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/config"
	"codeberg.org/mutker/powerplanctl/internal/display"
	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/journal"
	"codeberg.org/mutker/powerplanctl/internal/power"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishWritesEntryLine(t *testing.T) {
	var buf bytes.Buffer
	d := display.New(&buf)

	log := eventlog.New(
		eventlog.WithClock(func() time.Time { return time.Date(2024, 5, 1, 14, 30, 5, 0, time.Local) }),
		eventlog.WithSink(d),
	)
	log.Append("CPU Usage: 42%", eventlog.Info)
	log.Append("Threshold exceeded. Switched to High Performance plan.", eventlog.Warning)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[14:30:05] CPU Usage: 42%")
	assert.Contains(t, lines[1], "[14:30:05] Threshold exceeded. Switched to High Performance plan.")
}

func TestEntryWithoutTerminalHasNoEscapes(t *testing.T) {
	d := display.New(&bytes.Buffer{})

	out := d.Entry(eventlog.Entry{
		Timestamp: "09:00:00",
		Message:   "CPU usage low. Switched to Balanced plan.",
		Severity:  eventlog.Success,
	})

	assert.Equal(t, "[09:00:00] CPU usage low. Switched to Balanced plan.", out)
}

func TestStatus(t *testing.T) {
	d := display.New(&bytes.Buffer{})

	out := d.Status(display.Status{
		Platform:   power.Platform{Name: "linux", Supported: false},
		ActivePlan: power.UnsupportedPlatform,
		Settings:   config.DefaultSettings(),
		Simulate:   true,
	})

	assert.Contains(t, out, "linux (power plans unsupported)")
	assert.Contains(t, out, "Unsupported Platform")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "35%")
	assert.Contains(t, out, "5s")
	assert.Contains(t, out, "8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c")
	assert.Contains(t, out, "381b4222-f694-41f0-9685-ff5bb260df2e")
}

func TestPlans(t *testing.T) {
	d := display.New(&bytes.Buffer{})

	out := d.Plans([]power.Plan{
		{ID: "381b4222-f694-41f0-9685-ff5bb260df2e", Name: "Balanced", Active: true},
		{ID: "8c5e7fda-e8bf-4a96-9a85-a6e23a8c635c", Name: "High performance"},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "Balanced *"))
	assert.Contains(t, lines[1], "High performance")
	assert.NotContains(t, lines[1], "*")

	assert.Contains(t, d.Plans(nil), "No power plans available.")
}

func TestHistoryOldestFirst(t *testing.T) {
	d := display.New(&bytes.Buffer{})
	at := time.Date(2024, 5, 1, 14, 30, 0, 0, time.Local)

	out := d.History([]journal.Record{
		{Seq: 2, RecordedAt: at.Add(time.Second), Severity: eventlog.Info, Message: "second"},
		{Seq: 1, RecordedAt: at, Severity: eventlog.Info, Message: "first"},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-05-01 [14:30:00] first", lines[0])
	assert.Equal(t, "2024-05-01 [14:30:01] second", lines[1])

	assert.Contains(t, d.History(nil), "No journal records.")
}
