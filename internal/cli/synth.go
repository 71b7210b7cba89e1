package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/archsketch/archsketch/internal/config"
	"github.com/archsketch/archsketch/pkg/arch"
	"github.com/archsketch/archsketch/pkg/pipeline"
)

// newSynthCmd creates the synth command: snapshot file in, diagram out.
func newSynthCmd(configPath *string) *cobra.Command {
	var (
		format   string
		output   string
		noCache  bool
		refresh  bool
		detailed bool
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "synth [snapshot.json]",
		Short: "Synthesize a snapshot into a diagram document",
		Long: `Synthesize an architecture snapshot into a diagram.

The snapshot is a JSON file describing one round of an architecture:
nodes (services, databases, clients), edges (their interactions), and
optional evolution tracking. The default output is an Excalidraw scene
document; dot and svg produce Graphviz previews.

Results are cached by snapshot content, so re-running on an unchanged
file is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg, loggerFromContext(cmd.Context()))
			opts.Format = format
			opts.Refresh = refresh
			opts.Detailed = detailed
			return runSynth(cmd.Context(), cfg, args[0], output, opts, noCache, save)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json (default), dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from input name)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include tech stacks and alerts in dot/svg previews")
	cmd.Flags().BoolVar(&save, "save", false, "store the round and its document in the round store")

	return cmd
}

func runSynth(ctx context.Context, cfg config.Config, input, output string, opts pipeline.Options, noCache, save bool) error {
	logger := opts.Logger

	snap, err := arch.ReadSnapshotFile(input)
	if err != nil {
		return err
	}

	runner, err := newRunner(ctx, cfg, noCache, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Synthesizing round %d...", snap.RoundID))
	spinner.Start()

	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Synthesis failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = defaultOutputPath(input, opts.Format)
	}
	if err := os.WriteFile(output, result.Artifact, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Round %d: %s", snap.RoundID, snap.RoundTitle)
	printStats(result.Stats.Synthesis.Nodes, result.Stats.Synthesis.Edges,
		result.Stats.Synthesis.DroppedEdges, result.CacheInfo.DocumentHit)
	if result.Stats.Synthesis.DroppedEdges > 0 {
		printWarning("%d edge(s) referenced unknown nodes and were skipped", result.Stats.Synthesis.DroppedEdges)
	}
	printFile(output)

	if save {
		if err := saveRound(ctx, cfg, snap, runner, opts); err != nil {
			return err
		}
		printDetail("Stored round %d", snap.RoundID)
	}
	return nil
}

// saveRound persists the snapshot and its (format-independent) document.
func saveRound(ctx context.Context, cfg config.Config, snap arch.Snapshot, runner *pipeline.Runner, opts pipeline.Options) error {
	st, err := newStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.PutSnapshot(ctx, snap); err != nil {
		return err
	}
	doc, _, err := runner.Synthesize(ctx, snap, opts)
	if err != nil {
		return err
	}
	return st.PutDocument(ctx, snap.RoundID, doc)
}

// defaultOutputPath derives the output file from the input name:
// architecture.json becomes architecture.excalidraw.json, .dot or .svg.
func defaultOutputPath(input, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	switch format {
	case pipeline.FormatDOT:
		return base + ".dot"
	case pipeline.FormatSVG:
		return base + ".svg"
	default:
		return base + ".excalidraw.json"
	}
}
