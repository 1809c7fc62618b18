package eventlog

import (
	"sync"
	"time"
)

const (
	DefaultCapacity = 100
	TimestampFormat = "15:04:05"
)

// Severity classifies an entry for display.
type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Warning Severity = "warning"
)

// Entry is a single human readable event.
type Entry struct {
	ID        uint64
	Time      time.Time
	Timestamp string
	Message   string
	Severity  Severity
}

// Sink receives every appended entry, in append order.
type Sink interface {
	Publish(entry Entry)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Entry)

func (f SinkFunc) Publish(e Entry) { f(e) }

// Log is an in-memory, newest-first event log capped at a fixed number of
// entries. The oldest entries are dropped on overflow. It is safe for
// concurrent use.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	nextID   uint64
	capacity int
	now      func() time.Time
	sinks    []Sink
}

type Option func(*Log)

// WithCapacity overrides the default cap of 100 entries.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// WithSink registers a sink at construction time.
func WithSink(s Sink) Option {
	return func(l *Log) {
		l.sinks = append(l.sinks, s)
	}
}

func New(opts ...Option) *Log {
	l := &Log{
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.entries = make([]Entry, 0, l.capacity)

	return l
}

// Subscribe registers s for all future entries.
func (l *Log) Subscribe(s Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sinks = append(l.sinks, s)
}

// Append prepends a new entry and returns it.
func (l *Log) Append(message string, severity Severity) Entry {
	l.mu.Lock()

	l.nextID++
	now := l.now()
	e := Entry{
		ID:        l.nextID,
		Time:      now,
		Timestamp: now.Format(TimestampFormat),
		Message:   message,
		Severity:  severity,
	}

	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, Entry{})
	}
	copy(l.entries[1:], l.entries[:len(l.entries)-1])
	l.entries[0] = e

	// Sinks are called under the lock so they observe entries in id order.
	for _, s := range l.sinks {
		s.Publish(e)
	}
	l.mu.Unlock()

	return e
}

// Clear drops all entries. Ids keep increasing afterwards.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Len returns the number of entries held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
