package slidefx

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent clears a surface to nothing; hosts composite it over the slide.
var ColorTransparent = Color{}

// Scale multiplies the RGB components by f and clamps them to [0, 1].
// Alpha is left untouched.
func (c Color) Scale(f float64) Color {
	return Color{clamp01(c.R * f), clamp01(c.G * f), clamp01(c.B * f), c.A}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// Vec2 is a 2D vector used for screen-space positions.
type Vec2 struct {
	X, Y float64
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max) drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Clamp limits v to [Min, Max].
func (r Range) Clamp(v float64) float64 {
	return clamp(v, r.Min, r.Max)
}

// refFPS is the display rate the per-frame constants of every scene were
// tuned at. Simulations receive dt in seconds and convert with it, so a
// 60 Hz frame advances them by exactly one tuned step.
const refFPS = 60.0

// epsilon guards divisions by vector lengths.
const epsilon = 1e-9

// logger is the package logger. Replace it with SetLogger.
var logger = slog.Default()

// SetLogger replaces the logger used by sessions and the scene registry.
// Passing nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

// Logger returns the package logger.
func Logger() *slog.Logger { return logger }

// globalDebug enables per-frame draw statistics. See SetDebugMode.
var globalDebug bool

// SetDebugMode enables or disables debug logging of per-frame draw statistics.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

// unitOrZero normalizes v. Vectors shorter than epsilon come back as the zero
// vector with ok == false instead of NaNs.
func unitOrZero(v r3.Vec) (u r3.Vec, ok bool) {
	l := r3.Norm(v)
	if l < epsilon {
		return r3.Vec{}, false
	}
	return r3.Scale(1/l, v), true
}

// sanitizeSpeed maps NaN to the default multiplier and negative or infinite
// values into [0, maxSpeed].
func sanitizeSpeed(s float64) float64 {
	if math.IsNaN(s) {
		return DefaultSpeed
	}
	return clamp(s, 0, maxSpeed)
}

// maxSpeed bounds the speed multiplier so per-frame deltas stay finite.
const maxSpeed = 1000.0

// newRand returns a PCG-backed generator. A zero seed draws a random one.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
