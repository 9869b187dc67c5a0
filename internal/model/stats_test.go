package model

import (
	"errors"
	"math"
	"testing"
)

func TestPer90_HalfMatch(t *testing.T) {
	got, err := Per90(5, 45)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10.0 {
		t.Errorf("Per90(5, 45) = %v, want 10.0", got)
	}
}

func TestPer90_Linear(t *testing.T) {
	for _, mins := range []float64{12, 45, 63.5, 90, 120} {
		a, _ := Per90(7, mins)
		b, _ := Per90(7, 2*mins)
		if math.Abs(a-2*b) > 1e-9 {
			t.Errorf("doubling %v minutes: %v -> %v, want half", mins, a, b)
		}
	}
}

func TestPer90_NoMinutes(t *testing.T) {
	if _, err := Per90(3, 0); !errors.Is(err, ErrNoMinutes) {
		t.Errorf("err = %v, want ErrNoMinutes", err)
	}
}

// Totals.Per90 is what report cards and tables read.
func TestTotalsPer90(t *testing.T) {
	tot := &Totals{Minutes: 45, ProgressivePasses: 5}
	v, ok := tot.Per90(float64(tot.ProgressivePasses))
	if !ok || v != 10 {
		t.Errorf("Per90 over 45 minutes = %v (ok=%v), want 10", v, ok)
	}

	tot.Minutes = 90
	if v2, _ := tot.Per90(5); math.Abs(v-2*v2) > 1e-9 {
		t.Errorf("doubling minutes: %v -> %v, want half", v, v2)
	}

	if _, ok := (&Totals{}).Per90(3); ok {
		t.Error("zero minutes: ok = true, want false")
	}
}
