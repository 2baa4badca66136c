package diag

import "sync"

// Context is a passive, append-only data structure that accumulates
// diagnostic entries as an ISA string is resolved or an instruction trie
// is built. It is thread-safe for concurrent writes and is passed through
// by reference — every stage records entries into the same context.
//
// Create a Context exclusively through NewContext().
type Context struct {
	source  string
	phase   string
	entries []*Entry
	mu      sync.Mutex
}

// NewContext returns a *Context for the given source name (an ISA string
// or a JSON file path), with no phase and no entries.
func NewContext(source string) *Context {
	return &Context{source: source, entries: make([]*Entry, 0)}
}

// SetPhase sets the current phase; subsequent entries are tagged with it
// until changed again.
func (c *Context) SetPhase(name string) {
	c.mu.Lock()
	c.phase = name
	c.mu.Unlock()
}

// Phase returns the current phase name.
func (c *Context) Phase() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Loc creates a Location using this context's source name.
func (c *Context) Loc(line, column int) Location {
	return Loc(c.source, line, column)
}

// LocIn creates a Location with an explicit source name, for diagnostics
// that originate from a different file than the context's primary one
// (e.g. a JSON file pulled in by an extension's "json" list).
func (c *Context) LocIn(source string, line, column int) Location {
	return Loc(source, line, column)
}

func (c *Context) record(severity string, location Location, message string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry{severity: severity, phase: c.phase, message: message, location: location}
	c.entries = append(c.entries, entry)
	return entry
}

func (c *Context) Error(location Location, message string) *Entry {
	return c.record(SeverityError, location, message)
}

func (c *Context) Warning(location Location, message string) *Entry {
	return c.record(SeverityWarning, location, message)
}

func (c *Context) Info(location Location, message string) *Entry {
	return c.record(SeverityInfo, location, message)
}

func (c *Context) Trace(location Location, message string) *Entry {
	return c.record(SeverityTrace, location, message)
}

// Entries returns a copy of all recorded entries in insertion order.
func (c *Context) Entries() []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]*Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

func (c *Context) Errors() []*Entry   { return c.filter(SeverityError) }
func (c *Context) Warnings() []*Entry { return c.filter(SeverityWarning) }

// HasErrors reports whether at least one error entry was recorded.
func (c *Context) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.severity == SeverityError {
			return true
		}
	}
	return false
}

// Count returns the total number of entries.
func (c *Context) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Source returns the context's primary source name.
func (c *Context) Source() string { return c.source }

func (c *Context) filter(severity string) []*Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []*Entry
	for _, e := range c.entries {
		if e.severity == severity {
			result = append(result, e)
		}
	}
	return result
}
