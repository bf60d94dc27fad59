// Package cityconfig holds the single immutable tunables record every
// other package reads from (spec.md §6), grounded on pkg/api.ServerConfig's
// struct-plus-DefaultConfig-constructor shape.
package cityconfig

import (
	"citygen/pkg/quadtree"
	"citygen/pkg/zoning"
)

// ZoneParams holds the per-zone tunables spec.md §4.L names.
type ZoneParams struct {
	BlockLengthM          float64
	BuildingMix           map[string]float64 // building type -> relative weight
	StreetWidthMultiplier float64            // unused by growth; carried for a renderer
	SideSetbackM          float64            // per-side spacing term: max(10, frontWidth+2*SideSetbackM)
	Decor                 DecorParams
	Lot                   LotParams
}

// DecorParams controls street-furniture placement for one zone.
type DecorParams struct {
	Mix         map[string]float64
	SpacingM    float64
	Density     float64 // probability a candidate slot keeps its furniture
	OffsetM     float64
	DepthFactor float64
}

// LotParams controls the deterministic lot grid for one zone.
type LotParams struct {
	BaseSpacingM float64
	MarginM      float64
	StartOffsetM float64
	Stagger      bool
}

// Config is the full set of tunables the generator reads. Construct via
// Default() and the With* functional options; never mutate a Config field
// directly once it has been handed to a generator.
type Config struct {
	DefaultSegmentLengthM float64
	HighwaySegmentLengthM float64

	DefaultBranchProbability               float64
	HighwayBranchProbability                float64
	HighwayBranchPopulationThreshold        float64
	NormalBranchPopulationThreshold         float64
	NormalBranchTimeDelayFromHighway        int
	ForwardDeviationDeg                     float64
	BranchDeviationDeg                      float64

	MinIntersectionDeviationDeg float64
	SegmentCountLimit           int
	RoadSnapDistanceM           float64
	ClearanceExtraM             float64

	QuadtreeBounds     quadtree.Rect
	QuadtreeMaxObjects int
	QuadtreeMaxDepth   int

	CharacterShoulderM     float64
	HighwayWidthMultiplier float64
	StreetWidthMultiplier  float64

	MinFactorySpacingM float64

	ZoneParams map[zoning.Zone]ZoneParams

	ZoningMode   zoning.Mode
	ZoningParams zoning.Params
}

// Option mutates a Config being built by Default.
type Option func(*Config)

// WithSegmentLimit overrides SegmentCountLimit.
func WithSegmentLimit(n int) Option {
	return func(c *Config) { c.SegmentCountLimit = n }
}

// WithZoningMode overrides ZoningMode.
func WithZoningMode(m zoning.Mode) Option {
	return func(c *Config) { c.ZoningMode = m }
}

// WithZoningParams overrides ZoningParams.
func WithZoningParams(p zoning.Params) Option {
	return func(c *Config) { c.ZoningParams = p }
}

// HighwayWidth returns the derived width of a highway segment.
func (c Config) HighwayWidth() float64 { return c.HighwayWidthMultiplier * c.CharacterShoulderM }

// StreetWidth returns the derived width of a street segment.
func (c Config) StreetWidth() float64 { return c.StreetWidthMultiplier * c.CharacterShoulderM }

// Width returns the derived segment width for the given highway flag.
func (c Config) Width(highway bool) float64 {
	if highway {
		return c.HighwayWidth()
	}
	return c.StreetWidth()
}

// Default returns the out-of-the-box tunables, overridden by any opts.
func Default(opts ...Option) *Config {
	c := &Config{
		DefaultSegmentLengthM: 90,
		HighwaySegmentLengthM: 260,

		DefaultBranchProbability:         0.4,
		HighwayBranchProbability:         0.05,
		HighwayBranchPopulationThreshold: 0.1,
		NormalBranchPopulationThreshold:  0.1,
		NormalBranchTimeDelayFromHighway: 5,
		ForwardDeviationDeg:              15,
		BranchDeviationDeg:               3,

		MinIntersectionDeviationDeg: 30,
		SegmentCountLimit:           2000,
		RoadSnapDistanceM:           55,
		ClearanceExtraM:             2,

		QuadtreeBounds:     quadtree.Rect{MinX: -20000, MinY: -20000, MaxX: 20000, MaxY: 20000},
		QuadtreeMaxObjects: 10,
		QuadtreeMaxDepth:   12,

		CharacterShoulderM:     0.2,
		HighwayWidthMultiplier: 60,
		StreetWidthMultiplier:  40,

		MinFactorySpacingM: 200,

		ZoningMode:   zoning.ModeHeatmap,
		ZoningParams: zoning.DefaultParams(),

		ZoneParams: defaultZoneParams(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func defaultZoneParams() map[zoning.Zone]ZoneParams {
	return map[zoning.Zone]ZoneParams{
		zoning.Downtown: {
			BlockLengthM:          80,
			BuildingMix:           map[string]float64{"tower": 0.5, "office": 0.35, "shop": 0.15},
			StreetWidthMultiplier: 1.2,
			SideSetbackM:          1.5,
			Decor:                 DecorParams{Mix: map[string]float64{"lamp": 0.6, "bench": 0.3, "tree": 0.1}, SpacingM: 15, Density: 0.9, OffsetM: 1.5, DepthFactor: 0.3},
			Lot:                   LotParams{BaseSpacingM: 18, MarginM: 10, StartOffsetM: 5},
		},
		zoning.Commercial: {
			BlockLengthM:          100,
			BuildingMix:           map[string]float64{"shop": 0.5, "office": 0.3, "apartment": 0.2},
			StreetWidthMultiplier: 1.0,
			SideSetbackM:          2,
			Decor:                 DecorParams{Mix: map[string]float64{"lamp": 0.5, "bench": 0.3, "tree": 0.2}, SpacingM: 20, Density: 0.7, OffsetM: 1.5, DepthFactor: 0.3},
			Lot:                   LotParams{BaseSpacingM: 22, MarginM: 10, StartOffsetM: 5},
		},
		zoning.Residential: {
			BlockLengthM:          120,
			BuildingMix:           map[string]float64{"house": 0.7, "apartment": 0.2, "shop": 0.1},
			StreetWidthMultiplier: 0.8,
			SideSetbackM:          3,
			Decor:                 DecorParams{Mix: map[string]float64{"tree": 0.6, "lamp": 0.3, "bench": 0.1}, SpacingM: 25, Density: 0.6, OffsetM: 1.2, DepthFactor: 0.25},
			Lot:                   LotParams{BaseSpacingM: 20, MarginM: 8, StartOffsetM: 4, Stagger: true},
		},
		zoning.Industrial: {
			BlockLengthM:          160,
			BuildingMix:           map[string]float64{"factory": 0.6, "warehouse": 0.4},
			StreetWidthMultiplier: 1.1,
			SideSetbackM:          5,
			Decor:                 DecorParams{Mix: map[string]float64{"lamp": 1.0}, SpacingM: 40, Density: 0.3, OffsetM: 2, DepthFactor: 0.2},
			Lot:                   LotParams{BaseSpacingM: 40, MarginM: 15, StartOffsetM: 10},
		},
		zoning.Rural: {
			BlockLengthM:          220,
			BuildingMix:           map[string]float64{"house": 0.8, "park_small": 0.2},
			StreetWidthMultiplier: 0.6,
			SideSetbackM:          4,
			Decor:                 DecorParams{Mix: map[string]float64{"tree": 1.0}, SpacingM: 60, Density: 0.2, OffsetM: 1, DepthFactor: 0.2},
			Lot:                   LotParams{BaseSpacingM: 35, MarginM: 12, StartOffsetM: 8, Stagger: true},
		},
	}
}

// LargeBuildingTypes marks types that get the extra 6m snap margin in
// aroundSegment (spec.md §4.L step 4).
var LargeBuildingTypes = map[string]bool{
	"tower":   true,
	"factory": true,
	"office":  true,
}

// FactoryType is the building-mix key treated as a factory for the
// industrial spacing rule (spec.md §4.L step 7).
const FactoryType = "factory"
