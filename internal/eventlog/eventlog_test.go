package eventlog_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/powerplanctl/internal/eventlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t := time.Date(2024, 5, 1, 14, 30, 0, 0, time.Local)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestAppendNewestFirst(t *testing.T) {
	log := eventlog.New(eventlog.WithClock(fixedClock()))

	log.Append("first", eventlog.Info)
	log.Append("second", eventlog.Success)
	log.Append("third", eventlog.Warning)

	entries := log.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, eventlog.Warning, entries[0].Severity)
	assert.Equal(t, "14:30:03", entries[0].Timestamp)
	assert.Equal(t, "first", entries[2].Message)
	assert.Equal(t, "14:30:01", entries[2].Timestamp)
	assert.Greater(t, entries[0].ID, entries[1].ID)
	assert.Greater(t, entries[1].ID, entries[2].ID)
}

func TestAppendEvictsOldest(t *testing.T) {
	log := eventlog.New()

	for i := 1; i <= 250; i++ {
		log.Append(fmt.Sprintf("entry %d", i), eventlog.Info)
		assert.LessOrEqual(t, log.Len(), eventlog.DefaultCapacity)
	}

	entries := log.Entries()
	require.Len(t, entries, eventlog.DefaultCapacity)
	assert.Equal(t, "entry 250", entries[0].Message)
	assert.Equal(t, "entry 151", entries[len(entries)-1].Message)
}

func TestWithCapacity(t *testing.T) {
	log := eventlog.New(eventlog.WithCapacity(2))

	log.Append("a", eventlog.Info)
	log.Append("b", eventlog.Info)
	log.Append("c", eventlog.Info)

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].Message)
	assert.Equal(t, "b", entries[1].Message)
}

func TestClear(t *testing.T) {
	log := eventlog.New()
	first := log.Append("a", eventlog.Info)
	log.Clear()

	assert.Empty(t, log.Entries())

	next := log.Append("b", eventlog.Info)
	assert.Greater(t, next.ID, first.ID, "ids stay unique across clear")
}

func TestEntriesIsCopy(t *testing.T) {
	log := eventlog.New()
	log.Append("a", eventlog.Info)

	entries := log.Entries()
	entries[0].Message = "changed"

	assert.Equal(t, "a", log.Entries()[0].Message)
}

func TestSinksReceiveEntriesInOrder(t *testing.T) {
	var got []string
	log := eventlog.New(eventlog.WithSink(eventlog.SinkFunc(func(e eventlog.Entry) {
		got = append(got, e.Message)
	})))

	log.Append("a", eventlog.Info)
	log.Append("b", eventlog.Success)

	var late []uint64
	log.Subscribe(eventlog.SinkFunc(func(e eventlog.Entry) { late = append(late, e.ID) }))
	c := log.Append("c", eventlog.Warning)

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []uint64{c.ID}, late)
}

func TestConcurrentAppend(t *testing.T) {
	log := eventlog.New()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				log.Append("x", eventlog.Info)
			}
		}()
	}
	wg.Wait()

	entries := log.Entries()
	require.Len(t, entries, eventlog.DefaultCapacity)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i-1].ID, entries[i].ID)
	}
	assert.Equal(t, uint64(400), entries[0].ID)
}
