package goals

import (
	"math"
	"math/rand"
	"testing"

	"citygen/pkg/cityconfig"
	"citygen/pkg/geomath"
	"citygen/pkg/heatmap"
	"citygen/pkg/noise"
	"citygen/pkg/roadgraph"
	"citygen/pkg/zoning"
)

func testCollaborators() (*heatmap.Heatmap, *zoning.Classifier) {
	field := noise.New(7)
	hm := heatmap.New(field, 0, 0)
	hm.RUnit = 1000
	zoner := zoning.New(zoning.ModeHeatmap, field, hm, zoning.DefaultParams())
	return hm, zoner
}

func TestSeveredSegmentProposesNothing(t *testing.T) {
	cfg := cityconfig.Default()
	hm, zoner := testCollaborators()
	rng := rand.New(rand.NewSource(1))

	prev := roadgraph.New(geomath.Vec2{}, geomath.Vec2{X: 0, Y: 100}, 10, 0, roadgraph.Meta{Severed: true})
	if got := Propose(cfg, rng, hm, zoner, prev); got != nil {
		t.Fatalf("expected no candidates for a severed segment, got %d", len(got))
	}
}

func TestStreetContinuationIsStraightAndLinksToParent(t *testing.T) {
	cfg := cityconfig.Default()
	hm, zoner := testCollaborators()
	rng := rand.New(rand.NewSource(1))

	prev := roadgraph.New(geomath.Vec2{}, geomath.Vec2{X: 0, Y: 90}, cfg.StreetWidth(), 0, roadgraph.Meta{})
	cands := Propose(cfg, rng, hm, zoner, prev)
	if len(cands) == 0 {
		t.Fatal("expected at least a continuation candidate")
	}
	first := cands[0]
	if first.Link.Kind != LinkToParent || first.Link.Parent != prev {
		t.Error("expected the continuation to carry a LinkToParent record pointing at prev")
	}
	if first.Segment.Start() != prev.End() {
		t.Errorf("continuation should start where prev ends, got %v", first.Segment.Start())
	}
	if math.Abs(first.Segment.Dir()-prev.Dir()) > 1e-9 {
		t.Errorf("street continuation should keep prev's direction %v, got %v", prev.Dir(), first.Segment.Dir())
	}
}

func TestCubicBiasedJitterStaysWithinLimit(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const limit = 15.0
	for i := 0; i < 2000; i++ {
		v := cubicBiasedJitter(rng, limit)
		if v < -limit || v > limit || v == 0 {
			t.Fatalf("jitter out of range or zero: %v", v)
		}
	}
}

func TestCubicBiasedJitterZeroLimitReturnsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if v := cubicBiasedJitter(rng, 0); v != 0 {
		t.Fatalf("expected 0 for zero limit, got %v", v)
	}
}
