package zoning

import (
	"testing"

	"citygen/pkg/geomath"
	"citygen/pkg/heatmap"
	"citygen/pkg/noise"
)

func TestHeatmapModeBands(t *testing.T) {
	field := noise.New(1)
	hm := heatmap.New(field, 0, 0)
	hm.RUnit = 1000

	c := New(ModeHeatmap, field, hm, DefaultParams())

	tests := []struct {
		p    geomath.Vec2
		want Zone
	}{
		{geomath.Vec2{X: 500, Y: 0}, Downtown},
		{geomath.Vec2{X: 1500, Y: 0}, Commercial},
		{geomath.Vec2{X: 5000, Y: 0}, Rural},
	}
	for _, tt := range tests {
		if got := c.ZoneAt(tt.p); got != tt.want {
			t.Errorf("ZoneAt(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestTotalCoverage(t *testing.T) {
	field := noise.New(5)
	hm := heatmap.New(field, 0, 0)
	hm.RUnit = 500
	c := New(ModePerlin, field, hm, DefaultParams())

	valid := map[Zone]bool{Downtown: true, Commercial: true, Residential: true, Industrial: true, Rural: true}
	for x := -2000.0; x < 2000; x += 333 {
		for y := -2000.0; y < 2000; y += 257 {
			z := c.ZoneAt(geomath.Vec2{X: x, Y: y})
			if !valid[z] {
				t.Fatalf("ZoneAt(%v,%v) = %v, not a valid zone", x, y, z)
			}
		}
	}
}

func TestSetParamsClearsCache(t *testing.T) {
	field := noise.New(9)
	hm := heatmap.New(field, 0, 0)
	hm.RUnit = 500
	c := New(ModePerlin, field, hm, DefaultParams())
	_ = c.ZoneAt(geomath.Vec2{X: 10, Y: 10})
	if len(c.cache) == 0 {
		t.Fatal("expected cache to be populated")
	}
	c.SetParams(DefaultParams())
	if len(c.cache) != 0 {
		t.Fatal("expected SetParams to clear the cache")
	}
}

func TestNormalizeSortsOutOfOrderThresholds(t *testing.T) {
	p := Params{R1: 0.9, R2: 0.1, R3: 0.5, R4: 0.3, Octaves: 1, Lacunarity: 2, Gain: 0.5}
	got := normalize(p)
	if !(got.R1 < got.R2 && got.R2 < got.R3 && got.R3 < got.R4) {
		t.Fatalf("normalize did not produce ascending thresholds: %+v", got)
	}
}
