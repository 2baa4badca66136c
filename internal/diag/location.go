package diag

import "fmt"

// Location identifies a position a diagnostic entry refers to: a source
// name (an ISA string, a JSON file path) plus a line/column within it. For
// single-line sources such as an ISA string, line is 0 and column is a
// token index.
type Location struct {
	source string
	line   int
	column int
}

// Loc creates a Location for the given source.
func Loc(source string, line, column int) Location {
	return Location{source: source, line: line, column: column}
}

// Source returns the location's source name.
func (l Location) Source() string { return l.source }

// Line returns the 0-based line number, or 0 for single-line sources.
func (l Location) Line() int { return l.line }

// Column returns the 0-based column or token index.
func (l Location) Column() int { return l.column }

// String renders "source:line:column", or "source:column" when line is 0.
func (l Location) String() string {
	if l.line == 0 {
		return fmt.Sprintf("%s:%d", l.source, l.column)
	}
	return fmt.Sprintf("%s:%d:%d", l.source, l.line, l.column)
}
