package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
)

// assetCommand creates the "asset" command group for the asset registry.
func (c *CLI) assetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage the photos and videos a page can reference",
	}

	cmd.AddCommand(c.assetAddCommand())
	cmd.AddCommand(c.assetRemoveCommand())
	cmd.AddCommand(c.assetListCommand())

	return cmd
}

func (c *CLI) assetAddCommand() *cobra.Command {
	var rev int64
	var a album.Asset
	var kind string

	cmd := &cobra.Command{
		Use:   "add <doc> <asset-id> <uri>",
		Short: "Register an asset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.ID, a.URI, a.Kind = args[1], args[2], album.MediaKind(kind)
			return c.edit(cmd.Context(), args[0], rev, "asset.add", func(d *document.Document) (*document.Document, error) {
				return document.AddAsset(d, a)
			})
		},
	}
	revisionFlag(cmd, &rev)
	cmd.Flags().StringVar(&kind, "kind", string(album.MediaImage), "media kind: image or video")
	cmd.Flags().StringVar(&a.DisplayName, "name", "", "display name")
	cmd.Flags().IntVar(&a.Width, "width", 0, "intrinsic width in pixels")
	cmd.Flags().IntVar(&a.Height, "height", 0, "intrinsic height in pixels")
	return cmd
}

func (c *CLI) assetRemoveCommand() *cobra.Command {
	var rev int64

	cmd := &cobra.Command{
		Use:   "rm <doc> <asset-id>",
		Short: "Unregister an asset (blocks keep the reference as an empty slot)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.edit(cmd.Context(), args[0], rev, "asset.rm", func(d *document.Document) (*document.Document, error) {
				return document.RemoveAsset(d, args[1])
			})
		},
	}
	revisionFlag(cmd, &rev)
	return cmd
}

func (c *CLI) assetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <doc>",
		Short: "List registered assets and how often each is used",
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
			if len(doc.Assets) == 0 {
				printInfo("No assets")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Kind", "Name", "Size", "Used"}, assetRows(doc)))
			return nil
		},
	}
}

func assetRows(doc *document.Document) [][]string {
	uses := map[string]int{}
	for _, b := range doc.Blocks {
		for i := range b.SlotCount() {
			if id := b.SlotAsset(i); id != "" {
				uses[id]++
			}
		}
	}
	assets := doc.SortedAssets()
	rows := make([][]string, len(assets))
	for i, a := range assets {
		size := "—"
		if a.Width > 0 && a.Height > 0 {
			size = fmt.Sprintf("%d×%d", a.Width, a.Height)
		}
		rows[i] = []string{a.ID, string(a.Kind), a.Label(), size, strconv.Itoa(uses[a.ID])}
	}
	return rows
}
