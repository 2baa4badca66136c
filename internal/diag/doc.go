// Package diag provides a passive, append-only data structure that
// accumulates diagnostic entries (errors, warnings, info, traces) as an ISA
// string is resolved or an instruction trie is built. It performs no I/O;
// beyond the String forms of entries and locations, a caller reads the
// entries to produce output.
package diag
