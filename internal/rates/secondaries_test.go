package rates

import (
	"math/rand"
	"testing"
)

func TestICSSecondariesRange(t *testing.T) {
	d, err := NewICSSecondaries(1e6*me2, 100, 200)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	const ee = 1.0
	for _, s := range []float64{1.02 * me2, 10 * me2, 1e5 * me2} {
		beta := (s - me2) / (s + me2)
		x0 := (1 - beta) / (1 + beta)
		var sum float64
		const n = 2000
		for range n {
			e := d.Sample(ee, s, rng.Float64())
			if e < x0*ee*(1-1e-12) || e > ee {
				t.Fatalf("s = %v me2: energy %v outside [%v, 1]", s/me2, e, x0)
			}
			sum += e
		}
		if mean := sum / n; s > 1e4*me2 && mean > 0.5 {
			t.Errorf("mean energy fraction %v at s = %v me2, want deep Klein-Nishina loss", mean, s/me2)
		}
	}
}

func TestICSSecondariesInvalid(t *testing.T) {
	if _, err := NewICSSecondaries(me2/2, 10, 10); err == nil {
		t.Error("expected error for sMax below threshold")
	}
}
