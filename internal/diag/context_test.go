package diag

import (
	"sync"
	"testing"
)

func TestNewContext(t *testing.T) {
	t.Run("creates context with source and empty state", func(t *testing.T) {
		ctx := NewContext("rv64gc_zicsr")

		if ctx == nil {
			t.Fatal("expected non-nil Context")
		}
		if ctx.Source() != "rv64gc_zicsr" {
			t.Errorf("expected source 'rv64gc_zicsr', got '%s'", ctx.Source())
		}
		if ctx.Phase() != "" {
			t.Errorf("expected empty phase, got '%s'", ctx.Phase())
		}
		if ctx.Count() != 0 {
			t.Errorf("expected 0 entries, got %d", ctx.Count())
		}
	})
}

func TestContext_Phases(t *testing.T) {
	t.Run("SetPhase and Phase", func(t *testing.T) {
		ctx := NewContext("rv64gc_zicsr")

		ctx.SetPhase("parse-isa-string")
		if ctx.Phase() != "parse-isa-string" {
			t.Errorf("expected phase 'parse-isa-string', got '%s'", ctx.Phase())
		}

		ctx.SetPhase("resolve-extensions")
		if ctx.Phase() != "resolve-extensions" {
			t.Errorf("expected phase 'resolve-extensions', got '%s'", ctx.Phase())
		}
	})

	t.Run("entries inherit the current phase", func(t *testing.T) {
		ctx := NewContext("rv64gc_zicsr")

		ctx.SetPhase("parse-isa-string")
		ctx.Error(ctx.Loc(0, 0), "malformed token")

		ctx.SetPhase("resolve-extensions")
		ctx.Warning(ctx.Loc(0, 5), "extension not force-enabled")

		entries := ctx.Entries()
		if entries[0].Phase() != "parse-isa-string" {
			t.Errorf("expected first entry phase 'parse-isa-string', got '%s'", entries[0].Phase())
		}
		if entries[1].Phase() != "resolve-extensions" {
			t.Errorf("expected second entry phase 'resolve-extensions', got '%s'", entries[1].Phase())
		}
	})
}

func TestContext_Location(t *testing.T) {
	t.Run("Loc uses primary source", func(t *testing.T) {
		ctx := NewContext("rv64gc_zicsr")
		loc := ctx.Loc(0, 5)

		if loc.Source() != "rv64gc_zicsr" {
			t.Errorf("expected source 'rv64gc_zicsr', got '%s'", loc.Source())
		}
		if loc.Column() != 5 {
			t.Errorf("expected column 5, got %d", loc.Column())
		}
	})

	t.Run("LocIn uses explicit source", func(t *testing.T) {
		ctx := NewContext("rv64gc_zicsr")
		loc := ctx.LocIn("rv_zicsr.json", 3, 0)

		if loc.Source() != "rv_zicsr.json" {
			t.Errorf("expected source 'rv_zicsr.json', got '%s'", loc.Source())
		}
		if loc.Line() != 3 {
			t.Errorf("expected line 3, got %d", loc.Line())
		}
	})
}

func TestContext_Recording(t *testing.T) {
	t.Run("Error records entry with severity error", func(t *testing.T) {
		ctx := NewContext("rv64gc_zicrs")
		ctx.SetPhase("resolve-extensions")

		entry := ctx.Error(ctx.Loc(0, 8), "unknown extension")

		if entry.Severity() != SeverityError {
			t.Errorf("expected severity '%s', got '%s'", SeverityError, entry.Severity())
		}
		if entry.Message() != "unknown extension" {
			t.Errorf("expected message 'unknown extension', got '%s'", entry.Message())
		}
		if ctx.Count() != 1 {
			t.Errorf("expected 1 entry, got %d", ctx.Count())
		}
	})

	t.Run("Warning records entry with severity warning", func(t *testing.T) {
		ctx := NewContext("rv64gc")
		entry := ctx.Warning(ctx.Loc(0, 0), "extension pruned: enabled_by unsatisfied")

		if entry.Severity() != SeverityWarning {
			t.Errorf("expected severity '%s', got '%s'", SeverityWarning, entry.Severity())
		}
	})

	t.Run("Info records entry with severity info", func(t *testing.T) {
		ctx := NewContext("rv64gc")
		entry := ctx.Info(ctx.Loc(0, 0), "meta-extension g expanded")

		if entry.Severity() != SeverityInfo {
			t.Errorf("expected severity '%s', got '%s'", SeverityInfo, entry.Severity())
		}
	})

	t.Run("Trace records entry with severity trace", func(t *testing.T) {
		ctx := NewContext("rv_i.json")
		entry := ctx.Trace(ctx.Loc(0, 0), "installed mnemonic add")

		if entry.Severity() != SeverityTrace {
			t.Errorf("expected severity '%s', got '%s'", SeverityTrace, entry.Severity())
		}
	})

	t.Run("chaining WithSnippet and WithHint from a recording method", func(t *testing.T) {
		ctx := NewContext("rv64gc_zicrs")
		ctx.SetPhase("resolve-extensions")

		ctx.Error(ctx.Loc(0, 8), "unknown extension").
			WithSnippet("zicrs").
			WithHint("did you mean 'zicsr'?")

		entries := ctx.Entries()
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}

		e := entries[0]
		if e.Snippet() != "zicrs" {
			t.Errorf("expected snippet 'zicrs', got '%s'", e.Snippet())
		}
		if e.Hint() != "did you mean 'zicsr'?" {
			t.Errorf("expected hint, got '%s'", e.Hint())
		}
	})
}

func TestContext_Querying(t *testing.T) {
	ctx := NewContext("rv64gc")

	ctx.Error(ctx.Loc(0, 0), "error 1")
	ctx.Warning(ctx.Loc(0, 0), "warning 1")
	ctx.Error(ctx.Loc(0, 0), "error 2")
	ctx.Info(ctx.Loc(0, 0), "info 1")
	ctx.Trace(ctx.Loc(0, 0), "trace 1")

	t.Run("Entries returns all in order", func(t *testing.T) {
		entries := ctx.Entries()
		if len(entries) != 5 {
			t.Fatalf("expected 5 entries, got %d", len(entries))
		}
		if entries[0].Message() != "error 1" {
			t.Errorf("expected first entry 'error 1', got '%s'", entries[0].Message())
		}
		if entries[4].Message() != "trace 1" {
			t.Errorf("expected last entry 'trace 1', got '%s'", entries[4].Message())
		}
	})

	t.Run("Errors returns only errors", func(t *testing.T) {
		errs := ctx.Errors()
		if len(errs) != 2 {
			t.Fatalf("expected 2 errors, got %d", len(errs))
		}
		if errs[0].Message() != "error 1" || errs[1].Message() != "error 2" {
			t.Error("Errors returned wrong entries")
		}
	})

	t.Run("Warnings returns only warnings", func(t *testing.T) {
		warnings := ctx.Warnings()
		if len(warnings) != 1 {
			t.Fatalf("expected 1 warning, got %d", len(warnings))
		}
		if warnings[0].Message() != "warning 1" {
			t.Errorf("expected 'warning 1', got '%s'", warnings[0].Message())
		}
	})

	t.Run("HasErrors returns true when errors exist", func(t *testing.T) {
		if !ctx.HasErrors() {
			t.Error("expected HasErrors() to return true")
		}
	})

	t.Run("HasErrors returns false when no errors", func(t *testing.T) {
		clean := NewContext("rv32i")
		clean.Warning(clean.Loc(0, 0), "just a warning")

		if clean.HasErrors() {
			t.Error("expected HasErrors() to return false")
		}
	})

	t.Run("Count returns total entries", func(t *testing.T) {
		if ctx.Count() != 5 {
			t.Errorf("expected 5, got %d", ctx.Count())
		}
	})
}

func TestContext_Entries_ReturnsCopy(t *testing.T) {
	ctx := NewContext("rv64gc")
	ctx.Error(ctx.Loc(0, 0), "original")

	entries := ctx.Entries()
	entries[0] = nil

	if ctx.Entries()[0] == nil {
		t.Error("Entries() must return a copy, not a reference to the internal slice")
	}
}

func TestContext_ThreadSafety(t *testing.T) {
	ctx := NewContext("rv64gc")

	var wg sync.WaitGroup
	const goroutines = 100

	wg.Add(goroutines)
	for i := range goroutines {
		go func(n int) {
			defer wg.Done()
			ctx.Error(ctx.Loc(0, n), "concurrent error")
		}(i)
	}
	wg.Wait()

	if ctx.Count() != goroutines {
		t.Errorf("expected %d entries from concurrent writes, got %d", goroutines, ctx.Count())
	}
}

func TestContext_InsertionOrder(t *testing.T) {
	ctx := NewContext("rv64gc")

	ctx.SetPhase("parse-isa-string")
	ctx.Error(ctx.Loc(0, 0), "first")

	ctx.SetPhase("resolve-extensions")
	ctx.Warning(ctx.Loc(0, 0), "second")

	ctx.SetPhase("build-trie")
	ctx.Info(ctx.Loc(0, 0), "third")

	entries := ctx.Entries()
	expected := []string{"first", "second", "third"}
	for i, msg := range expected {
		if entries[i].Message() != msg {
			t.Errorf("entry %d: expected message '%s', got '%s'", i, msg, entries[i].Message())
		}
	}
}

func TestContext_ExternalSourceLocation(t *testing.T) {
	ctx := NewContext("rv64gc")
	ctx.SetPhase("build-trie")

	loc := ctx.LocIn("rv_zicsr.json", 5, 0)
	ctx.Error(loc, "ambiguous opcode for mnemonic csrrw")

	entry := ctx.Entries()[0]
	if entry.Location().Source() != "rv_zicsr.json" {
		t.Errorf("expected source 'rv_zicsr.json', got '%s'", entry.Location().Source())
	}
	if entry.String() != "error [build-trie] rv_zicsr.json:5:0: ambiguous opcode for mnemonic csrrw" {
		t.Errorf("unexpected String(): %s", entry.String())
	}
}
