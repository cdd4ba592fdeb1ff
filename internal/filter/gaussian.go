package filter

import (
	"math"
	"sync"
)

// Gaussian returns the zero-mean normal density with the given variance
// parameter at x: exp(-x²/(2v²)) / sqrt(2πv²).
func Gaussian(variance, x float64) float64 {
	v2 := variance * variance
	return math.Exp(-(x*x)/(2*v2)) / math.Sqrt(2*math.Pi*v2)
}

// Weights returns the 2*radius+1 blur taps for a radius in pixels.
// Tap i samples Gaussian(variance, 3*(i-radius)/radius) * premultiplier,
// and the taps are symmetric around the center. Radius 0 yields the single
// tap Gaussian(variance, 0) * premultiplier.
func Weights(radius int, variance, premultiplier float64) []float32 {
	if radius <= 0 {
		return []float32{float32(Gaussian(variance, 0) * premultiplier)}
	}
	n := 2*radius + 1
	w := make([]float32, n)
	for i := 0; i <= radius; i++ {
		x := float64(i-radius) / float64(radius) * 3
		v := float32(Gaussian(variance, x) * premultiplier)
		w[i] = v
		w[n-1-i] = v
	}
	return w
}

// Sum returns the sum of the weights.
func Sum(weights []float32) float64 {
	var s float64
	for _, w := range weights {
		s += float64(w)
	}
	return s
}

type weightsKey struct {
	radius        int
	variance      float64
	premultiplier float64
}

// weightsCache holds computed weights keyed by their parameters.
type weightsCache struct {
	mu     sync.RWMutex
	cache  map[weightsKey][]float32
	maxLen int
}

var defaultCache = newWeightsCache(64)

func newWeightsCache(maxLen int) *weightsCache {
	return &weightsCache{
		cache:  make(map[weightsKey][]float32),
		maxLen: maxLen,
	}
}

func (c *weightsCache) get(radius int, variance, premultiplier float64) []float32 {
	key := weightsKey{radius, variance, premultiplier}

	c.mu.RLock()
	if w, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return w
	}
	c.mu.RUnlock()

	w := Weights(radius, variance, premultiplier)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		clear(c.cache)
	}
	c.cache[key] = w
	c.mu.Unlock()

	return w
}

// CachedWeights is Weights backed by a process-wide cache. The returned
// slice is shared and must not be modified.
func CachedWeights(radius int, variance, premultiplier float64) []float32 {
	return defaultCache.get(radius, variance, premultiplier)
}
