// Command patterncut exercises the six end-to-end scenarios the
// pattern- and border-cutting engines are built against, against the
// real sdfx-backed kernel.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/chazu/patterncut/pkg/border"
	"github.com/chazu/patterncut/pkg/diag"
	"github.com/chazu/patterncut/pkg/kernel/sdfx"
	"github.com/chazu/patterncut/pkg/pattern"
	"github.com/chazu/patterncut/pkg/solid"
)

func main() {
	ctx := context.Background()
	k := sdfx.New()
	sink := diag.NewConsoleSink(os.Stdout)

	fmt.Println("1. Horizontal grip lines")
	if err := gripLines(ctx, k, sink); err != nil {
		log.Fatalf("grip lines: %v", err)
	}

	fmt.Println("\n2. Rounded-corner slots")
	if err := roundedSlots(ctx, k, sink); err != nil {
		log.Fatalf("rounded slots: %v", err)
	}

	fmt.Println("\n3. Staggered hex field on a circular face (partial clip)")
	if err := hexField(ctx, k, sink, pattern.ClipPartial); err != nil {
		log.Fatalf("hex field (partial): %v", err)
	}

	fmt.Println("\n4. Whole-only hex field on the same circle")
	if err := hexField(ctx, k, sink, pattern.ClipWhole); err != nil {
		log.Fatalf("hex field (whole): %v", err)
	}

	fmt.Println("\n5. Cut border on a square plate")
	if err := squareBorder(ctx, k, sink); err != nil {
		log.Fatalf("square border: %v", err)
	}

	fmt.Println("\n6. Cut border on a regular hexagon")
	if err := hexagonBorder(ctx, k, sink); err != nil {
		log.Fatalf("hexagon border: %v", err)
	}
}

func gripLines(ctx context.Context, k *sdfx.Kernel, sink diag.Sink) error {
	box, err := solid.Box(k, 60, 40, 15)
	if err != nil {
		return fmt.Errorf("box: %w", err)
	}
	d := pattern.NewDescriptor(pattern.Line, 1.0)
	d.SpacingX, d.SpacingY = 2.0, 2.0
	d.Depth, d.HasDepth = 0.4, true
	d.BorderX, d.BorderY = 3.0, 3.0

	result, err := pattern.Cut(ctx, box.Faces(">Z"), d, sink)
	if err != nil {
		return fmt.Errorf("cutPattern: %w", err)
	}
	fmt.Printf("  result bounding box: %+v\n", result.BoundingBox())
	return nil
}

func roundedSlots(ctx context.Context, k *sdfx.Kernel, sink diag.Sink) error {
	box, err := solid.Box(k, 60, 40, 15)
	if err != nil {
		return fmt.Errorf("box: %w", err)
	}
	d := pattern.NewDescriptor(pattern.Rect, 12)
	d.Height = 4
	d.Fillet = 2
	d.SpacingX, d.SpacingY = 7, 7
	d.BorderX, d.BorderY = 4, 4

	result, err := pattern.Cut(ctx, box.Faces(">Z"), d, sink)
	if err != nil {
		return fmt.Errorf("cutPattern: %w", err)
	}
	fmt.Printf("  result volume: %v\n", result.Shape().Volume())
	return nil
}

func hexField(ctx context.Context, k *sdfx.Kernel, sink diag.Sink, clip pattern.Clip) error {
	cyl, err := solid.Cylinder(k, 20, 10)
	if err != nil {
		return fmt.Errorf("cylinder: %w", err)
	}
	d := pattern.NewDescriptor(pattern.Polygon, 5)
	d.N = 6
	d.WallThickness, d.HasWallThickness = 1, true
	d.Stagger = true
	d.BorderX, d.BorderY = 2, 2
	d.Clip = clip

	result, err := pattern.Cut(ctx, cyl.Faces(">Z"), d, sink)
	if err != nil {
		return fmt.Errorf("cutPattern: %w", err)
	}
	fmt.Printf("  result volume: %v\n", result.Shape().Volume())
	return nil
}

func squareBorder(ctx context.Context, k *sdfx.Kernel, sink diag.Sink) error {
	plate, err := solid.Box(k, 40, 40, 5)
	if err != nil {
		return fmt.Errorf("box: %w", err)
	}
	result, err := border.Cut(ctx, plate.Faces(">Z"), border.Descriptor{Width: 3}, sink)
	if err != nil {
		return fmt.Errorf("cutBorder: %w", err)
	}
	fmt.Printf("  result bounding box: %+v\n", result.BoundingBox())
	return nil
}

func hexagonBorder(ctx context.Context, k *sdfx.Kernel, sink diag.Sink) error {
	prism, err := solid.RegularPrism(k, 6, 20, 4)
	if err != nil {
		return fmt.Errorf("regular_prism: %w", err)
	}
	result, err := border.Cut(ctx, prism.Faces(">Z"), border.Descriptor{Width: 2, Depth: 5, HasDepth: true}, sink)
	if err != nil {
		return fmt.Errorf("cutBorder: %w", err)
	}
	fmt.Printf("  result bounding box: %+v\n", result.BoundingBox())
	return nil
}
