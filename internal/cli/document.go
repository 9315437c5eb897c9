package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	"github.com/matzehuels/albumstack/pkg/store"
)

// newCommand creates the "new" command for starting a page document.
func (c *CLI) newCommand() *cobra.Command {
	var title string
	var seed bool

	cmd := &cobra.Command{
		Use:   "new <id>",
		Short: "Create an empty album page (or the sample album with --seed)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc *document.Document
			switch {
			case seed:
				doc = document.Seed()
				if len(args) == 1 {
					doc.ID = args[0]
				}
			case len(args) == 1:
				doc = document.New(args[0], title)
			default:
				return fmt.Errorf("a document id is required unless --seed is set")
			}
			if title != "" {
				doc.Title = title
			}

			st, err := c.store(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Put(cmd.Context(), doc, store.Missing); err != nil {
				return err
			}
			printSuccess("Created %s", StyleHighlight.Render(doc.ID))
			printDetail("%d assets, %d blocks", len(doc.Assets), len(doc.Blocks))
			printNextStep("Add a block", fmt.Sprintf("%s block add %s grid", appName, doc.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().BoolVar(&seed, "seed", false, "start from the sample album")

	return cmd
}

// showCommand creates the "show" command that prints a document's blocks.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a page's blocks and their assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.store(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printKeyValue("Document", StyleHighlight.Render(doc.ID))
			if doc.Title != "" {
				printKeyValue("Title", doc.Title)
			}
			printKeyValue("Revision", StyleNumber.Render(strconv.FormatInt(doc.Revision, 10)))
			printKeyValue("Assets", StyleNumber.Render(strconv.Itoa(len(doc.Assets))))
			printNewline()

			if len(doc.Blocks) == 0 {
				printInfo("No blocks yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "ID", "Type", "Aspect", "Layout", "Assets"},
				blockRows(doc),
			))

			if dangling := doc.DanglingRefs(); len(dangling) > 0 {
				for _, b := range doc.Blocks {
					if ids, ok := dangling[b.ID]; ok {
						printWarning("%s references missing assets %v", b.ID, ids)
					}
				}
			}
			return nil
		},
	}
}

func blockRows(doc *document.Document) [][]string {
	rows := make([][]string, 0, len(doc.Blocks))
	for i, b := range doc.Blocks {
		rows = append(rows, []string{
			strconv.Itoa(i),
			b.ID,
			renderBlockType(b.Type()),
			strconv.FormatFloat(b.Aspect, 'g', 4, 64),
			variantSummary(b),
			fmt.Sprintf("%d", len(b.AssetIDs)),
		})
	}
	return rows
}

// variantSummary describes the type-specific settings of b.
func variantSummary(b album.Block) string {
	switch v := b.Variant.(type) {
	case album.Split:
		return fmt.Sprintf("%g:%g", v.ColumnWeights[0], v.ColumnWeights[1])
	case album.Grid:
		return fmt.Sprintf("%d columns", v.Columns)
	default:
		return "—"
	}
}

// listCommand creates the "ls" command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored album pages",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.store(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			docs, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				printInfo("No documents")
				printNextStep("Create one", appName+" new --seed")
				return nil
			}
			rows := make([][]string, len(docs))
			for i, d := range docs {
				rows[i] = []string{d.ID, d.Title, strconv.FormatInt(d.Revision, 10), strconv.Itoa(d.Blocks)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Rev", "Blocks"}, rows))
			return nil
		},
	}
}

// removeCommand creates the "rm" command that deletes a document.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an album page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.store(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// titleCommand creates the "title" command that renames a page.
func (c *CLI) titleCommand() *cobra.Command {
	var rev int64

	cmd := &cobra.Command{
		Use:   "title <id> <title>",
		Short: "Set a page's title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], rev, "title", func(d *document.Document) (*document.Document, error) {
				return document.SetTitle(d, args[1])
			})
		},
	}
	revisionFlag(cmd, &rev)
	return cmd
}
