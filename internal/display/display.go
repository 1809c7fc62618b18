// Package display renders events, plans and status for a terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"codeberg.org/mutker/powerplanctl/internal/config"
	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"codeberg.org/mutker/powerplanctl/internal/journal"
	"codeberg.org/mutker/powerplanctl/internal/power"
	"github.com/charmbracelet/lipgloss"
)

const (
	colorSuccess = lipgloss.Color("10")
	colorWarning = lipgloss.Color("11")
	colorMuted   = lipgloss.Color("8")
	colorAccent  = lipgloss.Color("12")

	labelWidth = 16
)

type styles struct {
	info    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	header  lipgloss.Style
	active  lipgloss.Style
}

// Display writes rendered output to a terminal. Colour is used only when
// the writer is a terminal that supports it.
type Display struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
}

func New(out io.Writer) *Display {
	r := lipgloss.NewRenderer(out)

	return &Display{
		out: out,
		styles: styles{
			info:    r.NewStyle(),
			success: r.NewStyle().Foreground(colorSuccess),
			warning: r.NewStyle().Foreground(colorWarning),
			muted:   r.NewStyle().Foreground(colorMuted),
			label:   r.NewStyle().Width(labelWidth).Foreground(colorMuted),
			header:  r.NewStyle().Bold(true).Foreground(colorAccent),
			active:  r.NewStyle().Bold(true).Foreground(colorSuccess),
		},
	}
}

// Publish implements eventlog.Sink.
func (d *Display) Publish(entry eventlog.Entry) {
	d.println(d.Entry(entry))
}

// Entry renders a single event as "[timestamp] message".
func (d *Display) Entry(entry eventlog.Entry) string {
	line := fmt.Sprintf("[%s] %s", entry.Timestamp, entry.Message)
	return d.severityStyle(entry.Severity).Render(line)
}

// Status describes what the status command shows.
type Status struct {
	Platform   power.Platform
	ActivePlan string
	Settings   config.Settings
	Simulate   bool
	DryRun     bool
	Journal    bool
}

func (d *Display) Status(s Status) string {
	var b strings.Builder

	b.WriteString(d.styles.header.Render("powerplanctl"))
	b.WriteByte('\n')

	platform := s.Platform.Name
	if !s.Platform.Supported {
		platform += " " + d.styles.warning.Render("(power plans unsupported)")
	}

	d.row(&b, "Platform", platform)
	d.row(&b, "Active plan", s.ActivePlan)
	d.row(&b, "High threshold", strconv.Itoa(s.Settings.HighThreshold)+"%")
	d.row(&b, "Low threshold", strconv.Itoa(s.Settings.LowThreshold)+"%")
	d.row(&b, "Interval", s.Settings.IntervalDuration().String())
	d.row(&b, "High plan", s.Settings.HighPerformancePlan)
	d.row(&b, "Balanced plan", s.Settings.BalancedPlan)
	d.row(&b, "Simulate", strconv.FormatBool(s.Simulate))
	d.row(&b, "Dry run", strconv.FormatBool(s.DryRun))
	d.row(&b, "Journal", strconv.FormatBool(s.Journal))

	return b.String()
}

// Plans renders the plan list, marking the active plan.
func (d *Display) Plans(plans []power.Plan) string {
	if len(plans) == 0 {
		return d.styles.muted.Render("No power plans available.") + "\n"
	}

	var b strings.Builder
	for _, p := range plans {
		line := fmt.Sprintf("%s  %s", p.ID, p.Name)
		if p.Active {
			b.WriteString(d.styles.active.Render(line + " *"))
		} else {
			b.WriteString(d.styles.info.Render(line))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

// History renders journal records oldest first, the way they happened.
func (d *Display) History(records []journal.Record) string {
	if len(records) == 0 {
		return d.styles.muted.Render("No journal records.") + "\n"
	}

	var b strings.Builder
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		line := fmt.Sprintf("%s [%s] %s",
			r.RecordedAt.Format("2006-01-02"),
			r.RecordedAt.Format(eventlog.TimestampFormat),
			r.Message)
		b.WriteString(d.severityStyle(r.Severity).Render(line))
		b.WriteByte('\n')
	}

	return b.String()
}

// Print writes already rendered output.
func (d *Display) Print(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprint(d.out, s)
}

func (d *Display) println(s string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintln(d.out, s)
}

func (d *Display) row(b *strings.Builder, label, value string) {
	b.WriteString(d.styles.label.Render(label))
	b.WriteString(value)
	b.WriteByte('\n')
}

func (d *Display) severityStyle(s eventlog.Severity) lipgloss.Style {
	switch s {
	case eventlog.Success:
		return d.styles.success
	case eventlog.Warning:
		return d.styles.warning
	default:
		return d.styles.info
	}
}
