// Command dsb-proofreader works with DSB spine proofreading archives from
// the command line: it batch-computes missing radius values, inspects
// archive contents, and generates sample archives for testing.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexanderJCS/dsb-proofreader/pkg/geom"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/payload"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/radius"
	"github.com/AlexanderJCS/dsb-proofreader/pkg/session"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:           "dsb-proofreader",
		Short:         "Spine head center proofreading archive tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRadiiCmd(), newInfoCmd(), newGenCmd())

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// snapshotBase derives the snapshot name prefix from the archive filename,
// matching what the interactive tool writes.
func snapshotBase(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return stem + "_proofread"
}

func newRadiiCmd() *cobra.Command {
	var (
		configPath string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "radii <archive.dsb>",
		Short: "Compute missing radius values and append a session snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			estCfg := DefaultEstimatorConfig()
			if configPath != "" {
				var err error
				if estCfg, err = LoadEstimatorConfig(configPath); err != nil {
					return err
				}
			}
			if workers > 0 {
				estCfg.Workers = workers
			}
			cfg, err := estCfg.Build()
			if err != nil {
				return err
			}

			pld, err := payload.Load(path)
			if err != nil {
				return err
			}
			slog.Info("archive loaded",
				"path", path,
				"triangles", pld.DendriteMesh.TriangleCount(),
				"head_centers", len(pld.HeadCenters))

			base := snapshotBase(path)
			st, err := resumeOrStart(path, base, pld)
			if err != nil {
				return err
			}

			missing := st.MissingRadii()
			if len(missing) == 0 {
				slog.Info("all radii already cached, nothing to compute")
				return nil
			}

			// Session positions live in the nanometer frame; bring the
			// archive mesh into the same frame before casting rays.
			pld.DendriteMesh.Scale(session.MetersToNanometers)

			queries := make([]geom.Vec3, len(missing))
			for j, i := range missing {
				queries[j] = st.Points[i].Pos
			}

			start := time.Now()
			values, err := radius.BatchRadii(cmd.Context(), queries, pld.DendriteMesh, cfg, estCfg.Workers)
			if err != nil {
				return err
			}
			slog.Info("radii computed",
				"points", len(values),
				"rays", cfg.Rays,
				"aggregate", cfg.Aggregate.String(),
				"elapsed", time.Since(start))

			for j, i := range missing {
				v := values[j]
				if _, err := st.Radius(i, func() (float64, error) { return v, nil }); err != nil {
					return err
				}
			}

			name, err := payload.AppendSnapshot(path, base, st.Rows(), time.Now())
			if err != nil {
				return err
			}
			slog.Info("snapshot written", "entry", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "estimator configuration YAML")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default: all CPUs)")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <archive.dsb>",
		Short: "Summarize an archive's mesh, points and snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			pld, err := payload.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mesh: %d vertices, %d triangles, extent %.4g\n",
				pld.DendriteMesh.VertexCount(), pld.DendriteMesh.TriangleCount(), pld.DendriteMesh.MaxExtent())
			fmt.Fprintf(out, "head centers: %d\n", len(pld.HeadCenters))
			fmt.Fprintf(out, "annotations: %d\n", len(pld.Annotations))
			if pld.PSDs != nil {
				fmt.Fprintf(out, "psds: %d triangles\n", pld.PSDs.TriangleCount())
			} else {
				fmt.Fprintln(out, "psds: none")
			}

			rows, ok, err := payload.LatestSnapshot(path, snapshotBase(path))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "snapshots: none")
				return nil
			}
			cached := 0
			byStatus := map[string]int{}
			for _, r := range rows {
				byStatus[r.Status]++
				if r.HasRadius {
					cached++
				}
			}
			fmt.Fprintf(out, "latest snapshot: %d rows, %d with radius, status counts %v\n",
				len(rows), cached, byStatus)
			return nil
		},
	}
}

// resumeOrStart restores the latest saved session from the archive, or
// starts a fresh one from the stored head centers.
func resumeOrStart(path, base string, pld *payload.Payload) (*session.State, error) {
	rows, ok, err := payload.LatestSnapshot(path, base)
	if err != nil {
		return nil, err
	}
	if ok {
		slog.Info("resuming previous session", "rows", len(rows))
		return session.Restore(rows), nil
	}
	slog.Info("starting new session")
	return session.New(pld.HeadCenters), nil
}
