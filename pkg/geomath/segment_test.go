package geomath

import (
	"math"
	"testing"
)

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name             string
		a, b, c, d       Vec2
		includeEndpoints bool
		wantOK           bool
		wantT            float64
	}{
		{
			name: "perpendicular cross at midpoint",
			a:    Vec2{0, 0}, b: Vec2{100, 0},
			c: Vec2{50, -30}, d: Vec2{50, 30},
			includeEndpoints: true,
			wantOK:           true,
			wantT:            0.5,
		},
		{
			name: "parallel segments never intersect",
			a:    Vec2{0, 0}, b: Vec2{100, 0},
			c: Vec2{0, 10}, d: Vec2{100, 10},
			includeEndpoints: true,
			wantOK:           false,
		},
		{
			name: "disjoint segments",
			a:    Vec2{0, 0}, b: Vec2{10, 0},
			c: Vec2{20, -5}, d: Vec2{20, 5},
			includeEndpoints: true,
			wantOK:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := SegmentIntersection(tt.a, tt.b, tt.c, tt.d, tt.includeEndpoints)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && math.Abs(res.T-tt.wantT) > 1e-9 {
				t.Errorf("t = %f, want %f", res.T, tt.wantT)
			}
		})
	}
}

func TestDistanceToLine(t *testing.T) {
	res := DistanceToLine(Vec2{5, 5}, Vec2{0, 0}, Vec2{10, 0})
	if math.Abs(res.DistanceSq-25) > 1e-9 {
		t.Errorf("distanceSq = %f, want 25", res.DistanceSq)
	}
	if math.Abs(res.Proj-0.5) > 1e-9 {
		t.Errorf("proj = %f, want 0.5", res.Proj)
	}
}

func TestMinDegreeDifference(t *testing.T) {
	tests := []struct{ a, b, want float64 }{
		{0, 350, 10},
		{10, 20, 10},
		{0, 180, 180},
		{-10, 10, 20},
	}
	for _, tt := range tests {
		if got := MinDegreeDifference(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MinDegreeDifference(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSegmentDistance(t *testing.T) {
	d := SegmentDistance(Vec2{0, 0}, Vec2{100, 0}, Vec2{0, 10}, Vec2{100, 10})
	if math.Abs(d-10) > 1e-9 {
		t.Errorf("distance = %f, want 10", d)
	}
}
