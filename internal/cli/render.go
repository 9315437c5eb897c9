package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/pipeline"
	"github.com/matzehuels/albumstack/pkg/placement"
	"github.com/matzehuels/albumstack/pkg/render"
	"github.com/matzehuels/albumstack/pkg/render/refgraph"
)

// renderFlags registers the page and render flags shared by place and render.
func renderFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().Float64Var(&opts.Width, "width", 0, fmt.Sprintf("page width in pixels (default %g)", pipeline.DefaultWidth))
	cmd.Flags().Float64Var(&opts.BlockGap, "gap", 0, fmt.Sprintf("vertical gap between blocks (default %g)", pipeline.DefaultBlockGap))
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, fmt.Sprintf("page padding (default %g)", pipeline.DefaultPadding))
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}

// placeCommand creates the "place" command that prints the slot rectangles.
func (c *CLI) placeCommand() *cobra.Command {
	var noCache bool
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "place <doc>",
		Short: "Compute slot rectangles for every block of a page",
		Long: `Compute slot rectangles for every block of a page.

Prints one row per slot in render order: the block, the slot index, the grid
cell it occupies (grid blocks only), its rectangle in page coordinates and
the asset shown in it. Slots whose asset is missing are marked empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			doc, err := c.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			page, hit, err := runner.PlaceWithCacheInfo(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Block", "Slot", "Cell", "X", "Y", "W", "H", "Asset"},
				slotRows(page),
			))
			printKeyValue("Page", fmt.Sprintf("%.0f × %.1f", page.Width, page.Height))
			printStats(len(page.Blocks), len(page.Slots()), page.EmptySlots(), hit)
			return nil
		},
	}
	renderFlags(cmd, &opts)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func slotRows(page placement.PageLayout) [][]string {
	var rows [][]string
	for _, b := range page.Blocks {
		for _, s := range b.Slots {
			cell := "—"
			if s.Cell != nil {
				cell = fmt.Sprintf("r%d c%d %dx%d", s.Cell.Row, s.Cell.Col, s.Cell.Cols, s.Cell.Rows)
			}
			asset := s.AssetID
			if s.Empty {
				asset = StyleWarning.Render("empty") + " " + s.AssetID
			}
			rows = append(rows, []string{
				b.ID,
				fmt.Sprintf("%d", s.Index),
				cell,
				fmt.Sprintf("%.1f", s.Rect.X),
				fmt.Sprintf("%.1f", s.Rect.Y),
				fmt.Sprintf("%.1f", s.Rect.Width),
				fmt.Sprintf("%.1f", s.Rect.Height),
				strings.TrimSpace(asset),
			})
		}
	}
	return rows
}

// renderCommand creates the "render" command for page previews.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render <doc>",
		Short: "Render a page preview to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a page preview.

Blocks are drawn as rounded frames, photo slots as clipped images and
missing assets as dashed placeholders. PNG output is drawn natively; PDF needs
rsvg-convert on the PATH.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	renderFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme: light (default), dark")
	cmd.Flags().BoolVar(&opts.ShowLabels, "labels", false, "label every slot with its asset")
	cmd.Flags().BoolVar(&opts.NoImages, "no-images", false, "draw slot frames without linking images")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, fmt.Sprintf("PNG scale factor (default %g)", pipeline.DefaultScale))
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the document, runs the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, id string, opts pipeline.Options, output string, noCache bool) error {
	if slices.Contains(opts.Formats, pipeline.FormatPDF) && !render.HasRSVG() {
		printWarning("pdf output needs rsvg-convert on the PATH")
	}
	doc, err := c.loadDocument(ctx, id)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", doc.ID))
	spinner.Start()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		spinner.Fail("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %s", doc.ID))

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, doc.ID, output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", StyleHighlight.Render(doc.ID))
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.BlockCount, result.Stats.SlotCount, result.Stats.EmptySlots,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}

// mergeConfig fills options the user left unset from the config file.
func (c *CLI) mergeConfig(cmd *cobra.Command, opts *pipeline.Options) error {
	defaults, err := c.pipelineOptions()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("width") {
		opts.Width = defaults.Width
	}
	if opts.Theme == "" {
		opts.Theme = defaults.Theme
	}
	opts.Logger = defaults.Logger
	return nil
}

// loadDocument reads one document from the configured store.
func (c *CLI) loadDocument(ctx context.Context, id string) (*document.Document, error) {
	st, err := c.store(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Get(ctx, id)
}

// writeArtifacts writes one file per format and returns the paths written.
// A single format goes to output as given; several formats share the base
// path of output with the format as extension. Without output, fallback is
// the base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, fallback, output string) ([]string, error) {
	base := basePath(output, fallback)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return paths, err
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path. If output is empty fallback is
// used; a known format extension on output is stripped.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// graphCommand creates the "graph" command for the block → asset diagram.
func (c *CLI) graphCommand() *cobra.Command {
	var output, format string
	var opts refgraph.Options

	cmd := &cobra.Command{
		Use:   "graph <doc>",
		Short: "Draw which blocks reference which assets",
		Long: `Draw the block → asset reference graph as DOT, SVG or PDF.

Unused assets are grayed out; references to assets that are not registered
are drawn in red.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			dot := refgraph.ToDOT(doc, opts)
			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = refgraph.RenderSVG(dot)
			case "pdf":
				data, err = refgraph.RenderPDF(dot)
			case "png":
				if data, err = refgraph.RenderSVG(dot); err == nil {
					data, err = render.ToPNG(data, pipeline.DefaultScale)
				}
			default:
				return fmt.Errorf("invalid format: %s (must be 'dot', 'svg', 'pdf' or 'png')", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			printSuccess("Wrote reference graph")
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "dot, svg, pdf or png")
	cmd.Flags().BoolVar(&opts.SlotLabels, "slots", false, "label edges with slot indices")
	cmd.Flags().BoolVar(&opts.HideUnused, "hide-unused", false, "omit assets no block references")
	return cmd
}
