package palette

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestRampEnds(t *testing.T) {
	r := NewRamp()

	if got := r.At(-5, -1, 1).Hex(); got != "#0000ff" {
		t.Errorf("low end = %s, want #0000ff", got)
	}
	if got := r.At(5, -1, 1).Hex(); got != "#ff0000" {
		t.Errorf("high end = %s, want #ff0000", got)
	}
}

func TestRampHueDecreases(t *testing.T) {
	r := NewRamp()
	prev := math.Inf(1)
	for v := 0.0; v <= 1; v += 0.1 {
		h, _, _ := r.At(v, 0, 1).Hsv()
		if h > prev+1e-9 {
			t.Fatalf("hue %v at %v rose above %v", h, v, prev)
		}
		prev = h
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"middle", 0, -2, 2, 0.5},
		{"below", -9, 0, 1, 0},
		{"above", 9, 0, 1, 1},
		{"empty range", 3, 1, 1, 0.5},
		{"inverted range", 3, 2, 1, 0.5},
		{"nan range", 0, math.NaN(), 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Normalize(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestAlpha(t *testing.T) {
	tests := []struct {
		d, max, want float64
	}{
		{0, 10, 0},
		{5, 10, 0.5},
		{20, 10, 1},
		{1, 0, 0},
		{-1, 10, 0},
	}
	for _, tt := range tests {
		if got := Alpha(tt.d, tt.max); got != tt.want {
			t.Errorf("Alpha(%v, %v) = %v, want %v", tt.d, tt.max, got, tt.want)
		}
	}
}

func TestXterm256(t *testing.T) {
	tests := []struct {
		name string
		c    colorful.Color
		want int
	}{
		{"black", colorful.Color{}, 16},
		{"white", colorful.Color{R: 1, G: 1, B: 1}, 231},
		{"red", colorful.Color{R: 1}, 196},
		{"blue", colorful.Color{B: 1}, 21},
		{"out of gamut", colorful.Color{R: 2, G: -1}, 196},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Xterm256(tt.c); got != tt.want {
				t.Errorf("Xterm256(%v) = %d, want %d", tt.c, got, tt.want)
			}
		})
	}
}
