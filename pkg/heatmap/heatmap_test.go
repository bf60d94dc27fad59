package heatmap

import (
	"testing"

	"citygen/pkg/geomath"
	"citygen/pkg/noise"
)

func TestCalibrateRUnit(t *testing.T) {
	h := New(noise.New(1), 0, 0)
	h.Calibrate([]geomath.Vec2{{X: 300, Y: 400}, {X: 10, Y: 10}})
	want := 500.0 / 5 // hypot(300,400) = 500
	if h.RUnit != want {
		t.Errorf("RUnit = %v, want %v", h.RUnit, want)
	}
}

func TestPopulationBounds(t *testing.T) {
	h := New(noise.New(2), 0, 0)
	h.RUnit = 1000
	for x := -6000.0; x <= 6000; x += 500 {
		for y := -6000.0; y <= 6000; y += 500 {
			v := h.PopulationAt(x, y)
			if v < 0 || v > 1 {
				t.Fatalf("PopulationAt(%v,%v) = %v out of [0,1]", x, y, v)
			}
		}
	}
}

func TestEmptySegmentListKeepsDefaultRUnit(t *testing.T) {
	h := New(noise.New(3), 0, 0)
	h.Calibrate(nil)
	if h.RUnit != 0 {
		t.Errorf("expected default RUnit=0 for empty endpoint list, got %v", h.RUnit)
	}
}
