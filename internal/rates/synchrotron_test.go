package rates

import (
	"math"
	"testing"
)

func TestSynchrotronF(t *testing.T) {
	tests := []struct {
		x, want, tol float64
	}{
		{1, 0.6514, 0.01},
		{0.2858, 0.9180, 0.01},
		// small-x limit 2^(2/3) Gamma(5/3) 3/2 x^(1/3)
		{1e-6, 2.1495 * 1e-2, 0.005},
	}
	for _, tt := range tests {
		if got := SynchrotronF(tt.x); math.Abs(got/tt.want-1) > tt.tol {
			t.Errorf("F(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
	if got := SynchrotronF(100); !(got >= 0) || got > 1e-30 {
		t.Errorf("F(100) = %v, want exponentially small", got)
	}
}

func TestSynchrotronSpectrum(t *testing.T) {
	d, err := SynchrotronSpectrum(801)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d.Min()/1e-6-1) > 1e-12 || math.Abs(d.Max()/1e2-1) > 1e-12 {
		t.Errorf("range [%v, %v]", d.Min(), d.Max())
	}
	prev := d.Sample(0)
	for u := 0.05; u < 1; u += 0.05 {
		x := d.Sample(u)
		if x < prev {
			t.Fatalf("quantile decreases at u = %v", u)
		}
		prev = x
	}
	if med := d.Sample(0.5); med < 1e-3 || med > 1 {
		t.Errorf("median photon energy %v Ecrit", med)
	}
	if _, err := SynchrotronSpectrum(1); err == nil {
		t.Error("expected error for single point")
	}
}
