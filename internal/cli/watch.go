package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/internal/watch"
	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/pipeline"
)

// watchCommand creates the "watch" command that re-renders a document file
// every time it is saved.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a document file whenever it changes",
		Long: `Watch a JSON or YAML document file and re-render the preview on every save.

Invalid edits are reported and skipped; the last good preview stays on disk.
Press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			cfg, err := c.config()
			if err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			// album.json renders to album.preview.svg so json output never
			// overwrites the watched file.
			base := strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".preview"

			w, err := watch.New(args[0], func(ctx context.Context, doc *document.Document) error {
				result, err := runner.Execute(ctx, doc, opts)
				if err != nil {
					return err
				}
				paths, err := writeArtifacts(result.Artifacts, opts.Formats, base, output)
				if err != nil {
					return err
				}
				printSuccess("Rendered %s %s", StyleHighlight.Render(doc.ID), StyleDim.Render(strings.Join(paths, ", ")))
				return nil
			},
				watch.WithDebounce(cfg.Watch.Debounce.Duration),
				watch.WithLogger(c.Logger),
				watch.WithErrorHandler(func(err error) {
					printError("%s", apperr.UserMessage(err))
				}),
			)
			if err != nil {
				return err
			}

			printInfo("Watching %s", w.Path())
			if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	renderFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: next to the document)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme: light (default), dark")
	cmd.Flags().BoolVar(&opts.ShowLabels, "labels", false, "label every slot with its asset")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
