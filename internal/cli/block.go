package cli

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
)

// blockCommand creates the "block" command group for editing a page's blocks.
func (c *CLI) blockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Add, remove, reorder and edit blocks",
	}

	cmd.AddCommand(c.blockAddCommand())
	cmd.AddCommand(c.blockRemoveCommand())
	cmd.AddCommand(c.blockMoveCommand())
	cmd.AddCommand(c.blockPatchCommand())
	cmd.AddCommand(c.blockAttachCommand())
	cmd.AddCommand(c.blockDetachCommand())
	cmd.AddCommand(c.blockSpanCommand())

	return cmd
}

func (c *CLI) blockAddCommand() *cobra.Command {
	var rev int64
	var seed uint64

	cmd := &cobra.Command{
		Use:       "add <doc> <single|split|grid>",
		Short:     "Append a block with default settings",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(album.TypeSingle), string(album.TypeSplit), string(album.TypeGrid)},
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := album.ParseType(args[1])
			if !ok {
				return apperr.New(apperr.ErrCodeInvalidInput, "unknown block type %q (must be single, split or grid)", args[1])
			}
			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewPCG(seed, seed))
			}
			var added string
			err := c.edit(cmd.Context(), args[0], rev, "block.add", func(d *document.Document) (*document.Document, error) {
				next, id, err := document.AddBlock(d, t, rng)
				added = id
				return next, err
			})
			if err != nil {
				return err
			}
			printDetail("added %s block %s", t, added)
			return nil
		},
	}
	revisionFlag(cmd, &rev)
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed for the random placeholder assets")
	return cmd
}

func (c *CLI) blockRemoveCommand() *cobra.Command {
	var rev int64

	cmd := &cobra.Command{
		Use:   "rm <doc> <block>",
		Short: "Delete a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], rev, "block.rm", func(d *document.Document) (*document.Document, error) {
				return document.RemoveBlock(d, args[1])
			})
		},
	}
	revisionFlag(cmd, &rev)
	return cmd
}

func (c *CLI) blockMoveCommand() *cobra.Command {
	var rev int64

	cmd := &cobra.Command{
		Use:       "mv <doc> <block> <up|down>",
		Short:     "Swap a block with its neighbour",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(args[2])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[0], rev, "block.mv", func(d *document.Document) (*document.Document, error) {
				return document.MoveBlock(d, args[1], dir)
			})
		},
	}
	revisionFlag(cmd, &rev)
	return cmd
}

// parseDirection maps "up"/"down" (or -1/+1) to a move direction.
func parseDirection(s string) (int, error) {
	switch s {
	case "up", "-1":
		return -1, nil
	case "down", "+1", "1":
		return 1, nil
	}
	return 0, apperr.New(apperr.ErrCodeInvalidInput, "direction must be up or down, got %q", s)
}

// patchFlags holds the "block patch" flag values. Only flags the user set
// end up in the patch.
type patchFlags struct {
	typ     string
	aspect  float64
	radius  int
	gapX    int
	gapY    int
	padX    int
	padY    int
	columns int
	weights string
	assets  []string
	raw     string
}

func (c *CLI) blockPatchCommand() *cobra.Command {
	var rev int64
	var f patchFlags

	cmd := &cobra.Command{
		Use:   "patch <doc> <block>",
		Short: "Change block settings",
		Long: `Change block settings. Only the flags you pass are changed; the result is
validated like an import and rejected as a whole if any field is out of range.

  albumstack block patch album_001 b2 --weights 7:3 --aspect 0.8
  albumstack block patch album_001 b3 --json '{"columns":3,"spans":[{"cols":2},null]}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.patch(cmd)
			if err != nil {
				return err
			}
			if p.IsEmpty() {
				return apperr.New(apperr.ErrCodeInvalidInput, "nothing to change: pass at least one setting flag or --json")
			}
			return c.edit(cmd.Context(), args[0], rev, "block.patch", func(d *document.Document) (*document.Document, error) {
				return document.PatchBlock(d, args[1], p)
			})
		},
	}
	revisionFlag(cmd, &rev)
	cmd.Flags().StringVar(&f.typ, "type", "", "block type: single, split, grid")
	cmd.Flags().Float64Var(&f.aspect, "aspect", 0, fmt.Sprintf("height/width ratio (%g..%g)", album.MinAspect, album.MaxAspect))
	cmd.Flags().IntVar(&f.radius, "radius", 0, fmt.Sprintf("corner radius (%d..%d)", album.MinRadius, album.MaxRadius))
	cmd.Flags().IntVar(&f.gapX, "gap-x", 0, "horizontal gap between slots")
	cmd.Flags().IntVar(&f.gapY, "gap-y", 0, "vertical gap between slots")
	cmd.Flags().IntVar(&f.padX, "pad-x", 0, "horizontal padding inside the block")
	cmd.Flags().IntVar(&f.padY, "pad-y", 0, "vertical padding inside the block")
	cmd.Flags().IntVar(&f.columns, "columns", 0, fmt.Sprintf("grid columns (%d..%d)", album.MinColumns, album.MaxColumns))
	cmd.Flags().StringVar(&f.weights, "weights", "", "split column weights, e.g. 7:3")
	cmd.Flags().StringSliceVar(&f.assets, "assets", nil, "replace the asset list (comma-separated ids)")
	cmd.Flags().StringVar(&f.raw, "json", "", "patch as a JSON object")
	return cmd
}

// patch builds a document.Patch from the flags that were set. --json is
// applied first so explicit flags win.
func (f *patchFlags) patch(cmd *cobra.Command) (document.Patch, error) {
	var p document.Patch
	set := cmd.Flags().Changed

	if f.raw != "" {
		if err := json.Unmarshal([]byte(f.raw), &p); err != nil {
			if apperr.GetCode(err) != "" {
				return p, err
			}
			return p, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode --json patch")
		}
	}
	if set("type") {
		t, ok := album.ParseType(f.typ)
		if !ok {
			return p, apperr.New(apperr.ErrCodeInvalidInput, "unknown block type %q", f.typ)
		}
		p.Type = &t
	}
	if set("aspect") {
		p.Aspect = &f.aspect
	}
	if set("radius") {
		p.Radius = &f.radius
	}
	if set("gap-x") || set("gap-y") || set("pad-x") || set("pad-y") {
		if p.Spacing == nil {
			p.Spacing = &document.SpacingPatch{}
		}
		for _, sf := range []struct {
			name string
			src  *int
			dst  **int
		}{
			{"gap-x", &f.gapX, &p.Spacing.GapX},
			{"gap-y", &f.gapY, &p.Spacing.GapY},
			{"pad-x", &f.padX, &p.Spacing.PadX},
			{"pad-y", &f.padY, &p.Spacing.PadY},
		} {
			if set(sf.name) {
				*sf.dst = sf.src
			}
		}
	}
	if set("columns") {
		p.Columns = &f.columns
	}
	if set("weights") {
		w, err := parseWeights(f.weights)
		if err != nil {
			return p, err
		}
		p.ColumnWeights = &w
	}
	if set("assets") {
		p.AssetIDs = append([]string{}, f.assets...)
	}
	return p, nil
}

// parseWeights parses "7:3" into split column weights. Range checks are left
// to block validation.
func parseWeights(s string) ([2]float64, error) {
	left, right, ok := strings.Cut(s, ":")
	if !ok {
		return [2]float64{}, apperr.New(apperr.ErrCodeInvalidInput, "weights must look like 7:3, got %q", s)
	}
	var w [2]float64
	for i, part := range []string{left, right} {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return [2]float64{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "weights %q", s)
		}
		w[i] = v
	}
	return w, nil
}

func (c *CLI) blockAttachCommand() *cobra.Command {
	var rev int64

	cmd := &cobra.Command{
		Use:   "attach <doc> <block> <asset>...",
		Short: "Append registered assets to a block",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], rev, "block.attach", func(d *document.Document) (*document.Document, error) {
				next := d
				for _, assetID := range args[2:] {
					var err error
					if next, err = document.AttachAsset(next, args[1], assetID); err != nil {
						return d, err
					}
				}
				return next, nil
			})
		},
	}
	revisionFlag(cmd, &rev)
	return cmd
}

func (c *CLI) blockDetachCommand() *cobra.Command {
	var rev int64

	cmd := &cobra.Command{
		Use:   "detach <doc> <block> <slot>",
		Short: "Remove the asset in one slot of a block",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "slot index %q", args[2])
			}
			return c.edit(cmd.Context(), args[0], rev, "block.detach", func(d *document.Document) (*document.Document, error) {
				return document.DetachAsset(d, args[1], index)
			})
		},
	}
	revisionFlag(cmd, &rev)
	return cmd
}

func (c *CLI) blockSpanCommand() *cobra.Command {
	var rev int64

	cmd := &cobra.Command{
		Use:   "span <doc> <block> <slot> <cols>x<rows>",
		Short: "Set how many grid cells one slot covers",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "slot index %q", args[2])
			}
			span, err := parseSpan(args[3])
			if err != nil {
				return err
			}
			return c.edit(cmd.Context(), args[0], rev, "block.span", func(d *document.Document) (*document.Document, error) {
				return document.SetSpan(d, args[1], index, span)
			})
		},
	}
	revisionFlag(cmd, &rev)
	return cmd
}

// parseSpan parses "2x1" into a span. A lone number sets columns only.
func parseSpan(s string) (album.Span, error) {
	colsStr, rowsStr, hasRows := strings.Cut(strings.ToLower(s), "x")
	cols, err := strconv.Atoi(colsStr)
	if err != nil {
		return album.Span{}, apperr.New(apperr.ErrCodeInvalidInput, "span must look like 2x1, got %q", s)
	}
	span := album.Span{Cols: cols}
	if hasRows {
		rows, err := strconv.Atoi(rowsStr)
		if err != nil {
			return album.Span{}, apperr.New(apperr.ErrCodeInvalidInput, "span must look like 2x1, got %q", s)
		}
		span.Rows = rows
	}
	return span, nil
}
