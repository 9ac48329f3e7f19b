package dish

import (
	"errors"
	"testing"
)

func TestLookupKnownDishes(t *testing.T) {
	for _, name := range []string{"35mm", "96well", "6well", "24well", "ibidi-8well"} {
		desc, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", name, err)
		}
		if desc.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, desc.Name)
		}
		if desc.Rows <= 0 || desc.Cols <= 0 {
			t.Errorf("Lookup(%q) has %dx%d wells", name, desc.Rows, desc.Cols)
		}
		if desc.RequiredPoints != len(desc.PointHints) {
			t.Errorf("Lookup(%q) has %d hints for %d required points", name, len(desc.PointHints), desc.RequiredPoints)
		}
	}
}

func TestLookupUnknownDish(t *testing.T) {
	_, err := Lookup("384well")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Lookup(unknown) error = %v, want ErrConfiguration", err)
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	a, _ := Lookup("ibidi-8well")
	a.PointHints[0] = "mutated"
	a.ColOffsets[1] = -1

	b, _ := Lookup("ibidi-8well")
	if b.PointHints[0] == "mutated" {
		t.Error("catalog point hints are shared with callers")
	}
	if b.ColOffsets[1] == -1 {
		t.Error("catalog column offsets are shared with callers")
	}
}

func TestContainerNamesSorted(t *testing.T) {
	names := ContainerNames()
	if len(names) != 5 {
		t.Fatalf("ContainerNames() has %d entries, want 5", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("ContainerNames() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func Test96WellNominalPitch(t *testing.T) {
	desc, _ := Lookup("96well")
	if !almostEqual(desc.NominalPitchX, 9000) {
		t.Errorf("96well nominal pitch x = %v, want 9000", desc.NominalPitchX)
	}
	if !almostEqual(desc.NominalPitchY, 9000) {
		t.Errorf("96well nominal pitch y = %v, want 9000", desc.NominalPitchY)
	}
}
