package filter

import (
	"math"
	"testing"
)

func TestGaussian(t *testing.T) {
	tests := []struct {
		name        string
		variance, x float64
		want        float64
	}{
		{"peak v=1", 1, 0, 1 / math.Sqrt(2*math.Pi)},
		{"one sigma", 1, 1, math.Exp(-0.5) / math.Sqrt(2*math.Pi)},
		{"peak v=2", 2, 0, 1 / math.Sqrt(8*math.Pi)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Gaussian(tt.variance, tt.x); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Gaussian(%v, %v) = %v, want %v", tt.variance, tt.x, got, tt.want)
			}
		})
	}
}

func TestWeights_Shape(t *testing.T) {
	for _, radius := range []int{1, 2, 3, 4, 10, 32} {
		w := Weights(radius, 1, 1)
		if len(w) != 2*radius+1 {
			t.Fatalf("radius %d: len = %d, want %d", radius, len(w), 2*radius+1)
		}
		for i := range w {
			if w[i] != w[len(w)-1-i] {
				t.Errorf("radius %d: tap %d = %v, mirror = %v", radius, i, w[i], w[len(w)-1-i])
			}
		}
		for i := 1; i <= radius; i++ {
			if w[i] < w[i-1] {
				t.Errorf("radius %d: taps decrease toward center at %d", radius, i)
			}
		}
		edge := float32(Gaussian(1, 3))
		if math.Abs(float64(w[0]-edge)) > 1e-7 {
			t.Errorf("radius %d: edge tap = %v, want %v", radius, w[0], edge)
		}
	}
}

func TestWeights_PreMultiplier(t *testing.T) {
	a := Weights(4, 1, 1)
	b := Weights(4, 1, 2.5)
	for i := range a {
		if d := math.Abs(float64(b[i]) - 2.5*float64(a[i])); d > 1e-6 {
			t.Errorf("tap %d = %v, want %v", i, b[i], 2.5*a[i])
		}
	}
}

func TestWeights_NotNormalized(t *testing.T) {
	// Taps are spaced 3/radius apart, so the sum approximates radius/3.
	w := Weights(30, 1, 1)
	if got := Sum(w); math.Abs(got-10) > 0.1 {
		t.Errorf("Sum = %v, want ~10", got)
	}
}

func TestWeights_ZeroRadius(t *testing.T) {
	w := Weights(0, 1, 1)
	if len(w) != 1 {
		t.Fatalf("len = %d, want 1", len(w))
	}
	if want := float32(Gaussian(1, 0)); w[0] != want {
		t.Errorf("w[0] = %v, want %v", w[0], want)
	}
}

func TestCachedWeights(t *testing.T) {
	a := CachedWeights(4, 1, 1)
	b := CachedWeights(4, 1, 1)
	if &a[0] != &b[0] {
		t.Error("CachedWeights returned distinct slices for the same key")
	}
	c := CachedWeights(4, 1, 2)
	if &a[0] == &c[0] {
		t.Error("CachedWeights shared a slice across different keys")
	}
}

func TestWeightsCache_Eviction(t *testing.T) {
	c := newWeightsCache(4)
	for r := 1; r <= 10; r++ {
		c.get(r, 1, 1)
		if len(c.cache) > 4 {
			t.Fatalf("cache size %d exceeds limit", len(c.cache))
		}
	}
}
