package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string   // output file path (or base path for multiple formats)
	viz       string   // visualization type: "chart" or "nodelink"
	formats   []string // output formats: "svg", "png", "dot", "json"
	title     string   // document title for the chart SVG
	sublabels bool     // life dates under each name
	boxWidth  float64  // box width in pixels
	boxHeight float64  // box height in pixels
	gapX      float64  // horizontal gap between sibling boxes
	gapY      float64  // vertical gap between generations
	margin    float64  // frame margin
	noCache   bool     // disable the file cache
	refresh   bool     // bypass cached build results
}

// renderCommand creates the render command for generating visualizations
// from a snapshot file.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		viz:       pipeline.VizChart,
		sublabels: true,
	}

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render a family tree from a snapshot",
		Long: `Render the family tree in a snapshot file (see "kintree export") as a
generation chart or a Graphviz node-link diagram.

The chart view supports svg and json output; the nodelink view additionally
supports png and dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.viz, "type", "t", opts.viz, "visualization type: chart (default), nodelink")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title for the chart SVG")
	cmd.Flags().BoolVar(&opts.sublabels, "sublabels", opts.sublabels, "show life dates under names")
	cmd.Flags().Float64Var(&opts.boxWidth, "box-width", 0, "box width in pixels")
	cmd.Flags().Float64Var(&opts.boxHeight, "box-height", 0, "box height in pixels")
	cmd.Flags().Float64Var(&opts.gapX, "gap-x", 0, "horizontal gap between sibling boxes")
	cmd.Flags().Float64Var(&opts.gapY, "gap-y", 0, "vertical gap between generations")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "frame margin in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the file cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	st, err := loadSnapshotStore(ctx, input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, st, pipeline.Options{
		BoxWidth:  opts.boxWidth,
		BoxHeight: opts.boxHeight,
		GapX:      opts.gapX,
		GapY:      opts.gapY,
		Margin:    opts.margin,
		Viz:       opts.viz,
		Formats:   opts.formats,
		Title:     opts.title,
		Sublabels: opts.sublabels,
		Refresh:   opts.refresh,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}

	base := basePath(opts.output, input)
	printSuccess("Rendered %s", filepath.Base(input))
	printStats(result.Stats.PersonCount, result.Stats.RelationshipCount, result.CacheInfo.RenderHit)

	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	prog.done("Render complete")
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries a
// known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
