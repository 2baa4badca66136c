package diag

import "testing"

func TestLocation_String(t *testing.T) {
	t.Run("with line", func(t *testing.T) {
		loc := Loc("rv_i.json", 12, 5)
		if loc.String() != "rv_i.json:12:5" {
			t.Errorf("expected 'rv_i.json:12:5', got '%s'", loc.String())
		}
	})

	t.Run("single-line source uses column only", func(t *testing.T) {
		loc := Loc("rv64gc_zicsr", 0, 3)
		if loc.String() != "rv64gc_zicsr:3" {
			t.Errorf("expected 'rv64gc_zicsr:3', got '%s'", loc.String())
		}
	})
}

func TestLocation_Accessors(t *testing.T) {
	loc := Loc("rv_m.json", 7, 3)

	if loc.Source() != "rv_m.json" {
		t.Errorf("expected source 'rv_m.json', got '%s'", loc.Source())
	}
	if loc.Line() != 7 {
		t.Errorf("expected line 7, got %d", loc.Line())
	}
	if loc.Column() != 3 {
		t.Errorf("expected column 3, got %d", loc.Column())
	}
}
