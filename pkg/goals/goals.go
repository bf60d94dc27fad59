// Package goals generates branch candidates from an accepted segment:
// continuation (straight or highway-jittered), an optional extra highway
// branch, and side streets — the population-biased decisions spec.md
// §4.J describes.
//
// Grounded on Design Notes §9's discriminated-action approach: rather than
// the source's captured closure that links a child to its parent once
// accepted, each Candidate carries an explicit LinkToParent record the
// growth loop applies after acceptance.
package goals

import (
	"math"
	"math/rand"

	"citygen/pkg/cityconfig"
	"citygen/pkg/geomath"
	"citygen/pkg/heatmap"
	"citygen/pkg/roadgraph"
	"citygen/pkg/zoning"
)

// LinkKind discriminates the deferred action attached to a pending child.
type LinkKind int

const (
	// LinkNone means the child needs no post-acceptance linking beyond
	// whatever pass 1 already did.
	LinkNone LinkKind = iota
	// LinkToParent means the growth loop must cross-link the child to
	// Parent once the child is accepted and inserted.
	LinkToParent
)

// PendingLink is the deferred branch-link action spec.md §9 calls for.
type PendingLink struct {
	Kind   LinkKind
	Parent *roadgraph.Segment
}

// Candidate is a not-yet-queued segment plus the link action to apply if
// it is later accepted.
type Candidate struct {
	Segment *roadgraph.Segment
	Link    PendingLink
}

// Propose generates every branch candidate spawned by an accepted
// segment. A severed segment generates none (spec.md §3 lifecycle rule 4:
// its forward endpoint already attaches to the existing network).
func Propose(cfg *cityconfig.Config, rng *rand.Rand, hm *heatmap.Heatmap, zoner *zoning.Classifier, prev *roadgraph.Segment) []Candidate {
	if prev.Meta.Severed {
		return nil
	}

	var out []Candidate

	continuation := proposeContinuation(cfg, rng, hm, prev)
	out = append(out, continuation)

	if prev.Meta.Highway {
		if extra, ok := proposeExtraHighwayBranch(cfg, rng, hm, prev, continuation.Segment); ok {
			out = append(out, extra)
		}
	}

	out = append(out, proposeSideStreets(cfg, rng, hm, zoner, prev)...)

	return out
}

// proposeContinuation builds the straight candidate and, for highways, a
// jittered alternative, keeping whichever has the larger average heatmap
// population along its length.
func proposeContinuation(cfg *cityconfig.Config, rng *rand.Rand, hm *heatmap.Heatmap, prev *roadgraph.Segment) Candidate {
	straight := spawn(cfg, prev, prev.Dir(), prev.Length(), prev.Meta.Highway, prev.T+1)

	winner := straight
	if prev.Meta.Highway {
		jitterAngle := prev.Dir() + cubicBiasedJitter(rng, cfg.ForwardDeviationDeg)
		jittered := spawn(cfg, prev, jitterAngle, prev.Length(), true, prev.T+1)
		if hm.PopOnRoad(jittered.Start(), jittered.End()) > hm.PopOnRoad(straight.Start(), straight.End()) {
			winner = jittered
		}
	}

	return Candidate{Segment: winner, Link: PendingLink{Kind: LinkToParent, Parent: prev}}
}

// proposeExtraHighwayBranch optionally appends a perpendicular highway
// branch when the continuation runs through high-population territory.
func proposeExtraHighwayBranch(cfg *cityconfig.Config, rng *rand.Rand, hm *heatmap.Heatmap, prev, continuationEnd *roadgraph.Segment) (Candidate, bool) {
	pop := hm.PopOnRoad(continuationEnd.Start(), continuationEnd.End())
	if pop <= cfg.HighwayBranchPopulationThreshold {
		return Candidate{}, false
	}
	if rng.Float64() >= cfg.HighwayBranchProbability {
		return Candidate{}, false
	}

	angle := prev.Dir() + randSign(rng)*90 + cubicBiasedJitter(rng, cfg.BranchDeviationDeg)
	seg := spawn(cfg, prev, angle, cfg.HighwaySegmentLengthM, true, prev.T+1)
	return Candidate{Segment: seg, Link: PendingLink{Kind: LinkToParent, Parent: prev}}, true
}

// proposeSideStreets proposes up to two side-street branches, one per
// perpendicular side, each independently gated by branch probability and
// a population threshold.
func proposeSideStreets(cfg *cityconfig.Config, rng *rand.Rand, hm *heatmap.Heatmap, zoner *zoning.Classifier, prev *roadgraph.Segment) []Candidate {
	threshold := cfg.NormalBranchPopulationThreshold
	if prev.Meta.Highway {
		threshold = cfg.HighwayBranchPopulationThreshold
	}
	if hm.PopulationAt(prev.End().X, prev.End().Y) <= threshold {
		return nil
	}

	extraDelay := 0
	if prev.Meta.Highway {
		extraDelay = cfg.NormalBranchTimeDelayFromHighway
	}

	zone := zoner.ZoneAt(prev.End())
	length := cfg.ZoneParams[zone].BlockLengthM

	var out []Candidate
	for _, sign := range [2]float64{-1, 1} {
		if rng.Float64() >= cfg.DefaultBranchProbability {
			continue
		}
		angle := prev.Dir() + sign*90 + cubicBiasedJitter(rng, cfg.BranchDeviationDeg)
		seg := spawn(cfg, prev, angle, length, false, prev.T+1+extraDelay)
		out = append(out, Candidate{Segment: seg, Link: PendingLink{Kind: LinkToParent, Parent: prev}})
	}
	return out
}

// ApplyLink performs the deferred setupBranchLinks cross-link once child
// has been accepted: adds child to parent.Forward, parent to
// child.Back, and mirrors the link to every neighbor already in
// parent.Forward before child joined it (spec.md §4.J).
func ApplyLink(link PendingLink, child *roadgraph.Segment) {
	if link.Kind != LinkToParent {
		return
	}
	parent := link.Parent
	existing := append([]*roadgraph.Segment(nil), parent.Forward...)

	parent.AddForward(child)
	child.AddBack(parent)

	for _, n := range existing {
		child.AddBack(n)
		if n.InBack(parent) {
			n.AddBack(child)
		} else {
			n.AddForward(child)
		}
	}
}

// spawn builds a detached segment running from prev's end at angleDeg for
// length meters.
func spawn(cfg *cityconfig.Config, prev *roadgraph.Segment, angleDeg, length float64, highway bool, t int) *roadgraph.Segment {
	dir := geomath.DirVector(angleDeg)
	end := prev.End().Add(dir.Scale(length))
	return roadgraph.New(prev.End(), end, cfg.Width(highway), t, roadgraph.Meta{Highway: highway})
}

func randSign(rng *rand.Rand) float64 {
	if rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

// cubicBiasedJitter draws a value in [-limit, limit], accepting with
// probability |v|^3/limit^3 until a non-zero draw is accepted — spec.md
// §4.J's cubic-bias distribution, which favors larger deviations.
func cubicBiasedJitter(rng *rand.Rand, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	for {
		v := (rng.Float64()*2 - 1) * limit
		if v == 0 {
			continue
		}
		p := math.Pow(math.Abs(v)/limit, 3)
		if rng.Float64() < p {
			return v
		}
	}
}
