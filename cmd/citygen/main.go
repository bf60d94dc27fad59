package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"citygen/pkg/buildings"
	"citygen/pkg/cityconfig"
	"citygen/pkg/growth"
	"citygen/pkg/zoning"
)

func main() {
	seed := flag.String("seed", "", "World seed (any string; required)")
	limit := flag.Int("limit", 0, "Segment count limit (0 uses the built-in default)")
	zoningMode := flag.String("zoning-mode", "heatmap", "Zone classifier: heatmap | perlin")
	placeBuildings := flag.Bool("buildings", true, "Run the building/furniture placement pass after growth")
	flag.Parse()

	if *seed == "" {
		fmt.Fprintln(os.Stderr, "Usage: citygen --seed <string> [--limit N] [--zoning-mode heatmap|perlin] [--buildings=false]")
		os.Exit(1)
	}

	var mode zoning.Mode
	switch *zoningMode {
	case "heatmap":
		mode = zoning.ModeHeatmap
	case "perlin":
		mode = zoning.ModePerlin
	default:
		log.Fatalf("Unknown zoning mode %q (want heatmap or perlin)", *zoningMode)
	}

	opts := []cityconfig.Option{cityconfig.WithZoningMode(mode)}
	if *limit > 0 {
		opts = append(opts, cityconfig.WithSegmentLimit(*limit))
	}
	cfg := cityconfig.Default(opts...)

	start := time.Now()

	// Step 1: grow the road network.
	log.Printf("Growing road network from seed %q...", *seed)
	result, err := growth.Generate(context.Background(), cfg, growth.SeedFromString(*seed))
	if err != nil {
		log.Fatalf("Generate failed: %v", err)
	}
	log.Printf("Grew %d segments (%d intersections, %d snaps, %d extends)",
		len(result.Segments), len(result.Debug.Intersections), len(result.Debug.Snaps), len(result.Debug.IntersectionsRadius))

	// Step 2: place buildings and street furniture, unless disabled.
	if *placeBuildings {
		log.Println("Placing buildings and street furniture...")
		placement, err := buildings.PlaceAll(context.Background(), cfg, growth.SeedFromString(*seed), result)
		if err != nil {
			log.Fatalf("PlaceAll failed: %v", err)
		}
		log.Printf("Placed %d buildings, %d furniture pieces", len(placement.Buildings), len(placement.Furniture))
	}

	log.Printf("Done in %s.", time.Since(start).Round(time.Millisecond))
}
