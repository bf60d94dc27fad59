package buildings

import (
	"context"
	"math/rand"
	"testing"

	"citygen/pkg/cityconfig"
	"citygen/pkg/collider"
	"citygen/pkg/geomath"
	"citygen/pkg/growth"
	"citygen/pkg/roadgraph"
	"citygen/pkg/zoning"
)

func smallGrowthResult(t *testing.T, limit int, seed int64) *growth.Result {
	t.Helper()
	cfg := cityconfig.Default(cityconfig.WithSegmentLimit(limit))
	res, err := growth.Generate(context.Background(), cfg, seed)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return res
}

func TestPlaceAllIsDeterministic(t *testing.T) {
	cfg := cityconfig.Default()
	res := smallGrowthResult(t, 40, growth.SeedFromString("buildings-det"))

	p1, err := PlaceAll(context.Background(), cfg, 99, res)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := PlaceAll(context.Background(), cfg, 99, res)
	if err != nil {
		t.Fatal(err)
	}
	if len(p1.Buildings) != len(p2.Buildings) {
		t.Fatalf("building counts differ across runs: %d vs %d", len(p1.Buildings), len(p2.Buildings))
	}
	for i := range p1.Buildings {
		a, b := p1.Buildings[i], p2.Buildings[i]
		if a.Type != b.Type || a.Zone != b.Zone || a.Shape.Center != b.Shape.Center {
			t.Fatalf("building %d differs across runs: %+v vs %+v", i, a, b)
		}
	}
}

// TestPlacedBuildingsDoNotOverlap exercises the non-overlap invariant
// spec.md §8 calls for: no two accepted footprints (nor a footprint and a
// road) may overlap once PlaceAll returns.
func TestPlacedBuildingsDoNotOverlap(t *testing.T) {
	cfg := cityconfig.Default()
	res := smallGrowthResult(t, 80, growth.SeedFromString("overlap-check"))

	placement, err := PlaceAll(context.Background(), cfg, 7, res)
	if err != nil {
		t.Fatal(err)
	}
	if len(placement.Buildings) == 0 {
		t.Skip("no buildings placed at this budget")
	}

	for i := range placement.Buildings {
		for j := i + 1; j < len(placement.Buildings); j++ {
			a, b := placement.Buildings[i], placement.Buildings[j]
			if rectRectOverlap(a.Shape, b.Shape) {
				t.Fatalf("buildings %d and %d overlap: %+v / %+v", i, j, a, b)
			}
		}
	}
	for _, s := range res.Segments {
		road := collider.NewLine(s.Start(), s.End(), s.Width)
		for i, b := range placement.Buildings {
			if lineRectOverlap(road, b.Shape) {
				t.Fatalf("building %d overlaps its own road: %+v", i, b)
			}
		}
	}
}

// TestFactorySpacingEnforced checks the per-zone minimum-distance rule
// between factory placements along a single synthetic segment.
func TestFactorySpacingEnforced(t *testing.T) {
	cfg := cityconfig.Default()
	byZone := map[string][]float64{}
	if !factorySpacingOK(cfg, byZone, "industrial", 0) {
		t.Fatal("expected first factory placement to always be OK")
	}
	byZone["industrial"] = append(byZone["industrial"], 0)

	if factorySpacingOK(cfg, byZone, "industrial", cfg.MinFactorySpacingM/2) {
		t.Fatal("expected a factory placed within MinFactorySpacingM to be rejected")
	}
	if !factorySpacingOK(cfg, byZone, "industrial", cfg.MinFactorySpacingM*2) {
		t.Fatal("expected a factory placed well beyond MinFactorySpacingM to be accepted")
	}
}

func TestResolveCollisionsRejectsWhenFullyBoxedIn(t *testing.T) {
	seg := roadgraph.New(geomath.Vec2{}, geomath.Vec2{X: 100, Y: 0}, 10, 0, roadgraph.Meta{})
	ix := newIndex()

	// Saturate both sides at t=50 with large blockers so no retry escapes.
	for _, side := range []float64{-1, 1} {
		blocker := placementShape(seg, 50, side, 30, 30)
		ix.insert(*blocker)
	}

	if got := resolveCollisions(ix, seg, 50, 1, 10, 10, 5); got != nil {
		t.Fatalf("expected collision resolution to fail when boxed in, got %+v", got)
	}
}

func TestWeightedPickEmptyMixReturnsEmptyString(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if got := weightedPick(rng, nil); got != "" {
		t.Fatalf("expected empty string for nil mix, got %q", got)
	}
	if got := weightedPick(rng, map[string]float64{"a": 0, "b": 0}); got != "" {
		t.Fatalf("expected empty string for all-zero mix, got %q", got)
	}
}

func TestWeightedPickRespectsZeroWeightExclusion(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	mix := map[string]float64{"always": 1, "never": 0}
	for i := 0; i < 200; i++ {
		if got := weightedPick(rng, mix); got != "always" {
			t.Fatalf("expected only the nonzero-weight key to be drawn, got %q", got)
		}
	}
}

func TestShapesOverlapLineLine(t *testing.T) {
	a := collider.NewLine(geomath.Vec2{}, geomath.Vec2{X: 100, Y: 0}, 10)
	b := collider.NewLine(geomath.Vec2{X: 50, Y: 1}, geomath.Vec2{X: 150, Y: 1}, 10)
	if !shapesOverlap(a, b) {
		t.Fatal("expected two close, overlapping-width lines to overlap")
	}
	c := collider.NewLine(geomath.Vec2{X: 50, Y: 100}, geomath.Vec2{X: 150, Y: 100}, 10)
	if shapesOverlap(a, c) {
		t.Fatal("expected a far-away line not to overlap")
	}
}

func TestZoneAtIsUsedForPlacement(t *testing.T) {
	cfg := cityconfig.Default()
	res := smallGrowthResult(t, 30, growth.SeedFromString("zone-tag"))
	placement, err := PlaceAll(context.Background(), cfg, 1, res)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range placement.Buildings {
		switch b.Zone {
		case zoning.Downtown, zoning.Commercial, zoning.Residential, zoning.Industrial, zoning.Rural:
			// valid
		default:
			t.Fatalf("unexpected zone tag on placed building: %q", b.Zone)
		}
	}
}
