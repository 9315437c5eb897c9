package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/io"
	"github.com/matzehuels/albumstack/pkg/store"
)

// importCommand creates the "import" command. With --blocks it replaces the
// block list of an existing page; otherwise it stores a whole document file.
func (c *CLI) importCommand() *cobra.Command {
	var rev int64
	var blocksOnly, replace bool
	var id string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a page document or a block list (JSON or YAML)",
		Long: `Import a page document or a block list. The format follows the file extension.

An import is all or nothing: if any block fails validation nothing is stored
and the first failure is reported. Use "albumstack validate" to list them all.

  albumstack import album.yaml
  albumstack import --blocks --id album_001 blocks.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if blocksOnly {
				if id == "" {
					return apperr.New(apperr.ErrCodeInvalidInput, "--blocks needs --id to name the target document")
				}
				raw, err := io.ReadBlocksFile(args[0])
				if err != nil {
					return err
				}
				return c.edit(cmd.Context(), id, rev, "blocks.import", func(d *document.Document) (*document.Document, error) {
					return document.ImportBlocks(d, raw)
				})
			}

			doc, err := io.ImportDocument(args[0])
			if err != nil {
				return err
			}
			if id != "" {
				doc.ID = id
			}
			if err := apperr.ValidateDocumentID(doc.ID); err != nil {
				return err
			}

			st, err := c.store(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			expected := int64(store.Missing)
			if replace {
				expected = store.AnyRevision
			}
			if err := st.Put(cmd.Context(), doc, expected); err != nil {
				return err
			}
			printSuccess("Imported %s", StyleHighlight.Render(doc.ID))
			printDetail("%d assets, %d blocks", len(doc.Assets), len(doc.Blocks))
			return nil
		},
	}
	revisionFlag(cmd, &rev)
	cmd.Flags().BoolVar(&blocksOnly, "blocks", false, "file is a block list; replace the blocks of --id")
	cmd.Flags().StringVar(&id, "id", "", "document id (overrides the id in the file)")
	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite an existing document")
	return cmd
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var output, format string
	var blocksOnly bool

	cmd := &cobra.Command{
		Use:   "export <doc>",
		Short: "Export a page document or its block list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := io.ParseFormat(format)
			if err != nil {
				return err
			}
			if output != "" && !cmd.Flags().Changed("format") {
				f = io.DetectFormat(output)
			}

			st, err := c.store(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if blocksOnly {
				err = io.WriteBlocks(&buf, doc.Blocks, f)
			} else {
				err = io.WriteDocument(&buf, doc, f)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return err
			}
			printSuccess("Exported %s", StyleHighlight.Render(doc.ID))
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "json (default) or yaml; inferred from --output")
	cmd.Flags().BoolVar(&blocksOnly, "blocks", false, "export only the block list")
	return cmd
}

// validateCommand creates the "validate" command, which reports every
// invalid block in a file instead of stopping at the first.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a document or block list file and list every problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			data, err = io.ToJSON(data, io.DetectFormat(args[0]))
			if err != nil {
				return err
			}

			count, err := validateFile(data)
			if err != nil {
				errs := multierr.Errors(err)
				for _, e := range errs {
					printError("%s", apperr.UserMessage(e))
				}
				return fmt.Errorf("%s: %d problem(s)", args[0], len(errs))
			}
			printSuccess("%s is valid", args[0])
			printDetail("%d blocks", count)
			return nil
		},
	}
}

// validateFile checks a JSON block array or document object and returns
// the number of blocks with all failures combined.
func validateFile(data []byte) (int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		blocks, err := blockCount(trimmed)
		if err != nil {
			return 0, err
		}
		return blocks, album.ValidateAll(trimmed)
	}

	var raw struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode document")
	}
	var errs error
	blocks := 0
	if len(raw.Blocks) > 0 && string(raw.Blocks) != "null" {
		n, err := blockCount(raw.Blocks)
		if err != nil {
			return 0, err
		}
		blocks = n
		errs = album.ValidateAll(raw.Blocks)
	}
	if errs == nil {
		_, errs = document.Decode(trimmed)
	}
	return blocks, errs
}

func blockCount(data []byte) (int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "blocks must be a JSON array")
	}
	return len(items), nil
}
