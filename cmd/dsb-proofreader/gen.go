package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/mesh/solid"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/payload"
)

func newGenCmd() *cobra.Command {
	var (
		points int
		length float64
		radius float64
		cells  int
	)

	cmd := &cobra.Command{
		Use:   "gen <archive.dsb>",
		Short: "Generate a synthetic sample archive",
		Long: `Generate a sample archive with a capsule-shaped dendrite shaft, spherical
head bulges spread along its axis, and matching head center points.
Dimensions are in meters, matching real archives; the shaft runs along the
Z axis centered at the origin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			centers := make([]geom.Vec3, points)
			for i := range centers {
				// Stay on the cylindrical section, clear of the end caps.
				t := (float64(i)+0.5)/float64(points) - 0.5
				centers[i] = geom.Vec3{Z: t * length * 0.8}
			}

			shaft, err := solid.Dendrite(length, radius, centers, radius*1.5, cells)
			if err != nil {
				return err
			}

			pld := &payload.Payload{
				DendriteMesh: shaft,
				HeadCenters:  centers,
				Annotations: []payload.Annotation{
					{Position: geom.Vec3{Z: length / 2}, Text: "synthetic capsule dendrite"},
				},
			}
			if err := payload.Save(path, pld); err != nil {
				return err
			}
			slog.Info("sample archive written",
				"path", path,
				"triangles", shaft.TriangleCount(),
				"head_centers", len(centers))
			return nil
		},
	}

	cmd.Flags().IntVar(&points, "points", 5, "number of head centers along the shaft")
	cmd.Flags().Float64Var(&length, "length", 4e-6, "shaft length in meters")
	cmd.Flags().Float64Var(&radius, "radius", 0.5e-6, "shaft radius in meters")
	cmd.Flags().IntVar(&cells, "cells", 80, "marching cubes resolution")
	return cmd
}
