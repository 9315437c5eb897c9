package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/pkg/album"
	"github.com/matzehuels/albumstack/pkg/document"
	apperr "github.com/matzehuels/albumstack/pkg/errors"
	"github.com/matzehuels/albumstack/pkg/placement"
	"github.com/matzehuels/albumstack/pkg/session"
	"github.com/matzehuels/albumstack/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the "browse" command: an interactive block list with
// the placed slots of the selected block.
func (c *CLI) browseCommand() *cobra.Command {
	var width float64

	cmd := &cobra.Command{
		Use:   "browse <doc>",
		Short: "Browse and reorder a page's blocks interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.pipelineOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}

			st, err := c.store(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			sess, err := session.Open(ctx, st, args[0], c.Logger)
			if err != nil {
				return err
			}

			m := NewBlockListModel(ctx, sess, opts.PlacementOptions())
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "page width used for the slot preview")
	return cmd
}

// =============================================================================
// BlockListModel - Interactive block list
// =============================================================================

// BlockListModel is the bubbletea model for browsing one page. Moves and
// deletes go through the edit session, so they are persisted immediately.
type BlockListModel struct {
	ctx     context.Context
	sess    *session.Session
	opts    placement.Options
	page    placement.PageLayout
	Cursor  int
	Height  int
	Offset  int
	Status  string
	Failure error
}

// NewBlockListModel creates a block list model for the session's document.
func NewBlockListModel(ctx context.Context, sess *session.Session, opts placement.Options) BlockListModel {
	m := BlockListModel{ctx: ctx, sess: sess, opts: opts, Height: 10}
	m.replace()
	return m
}

// replace re-places the current document after an edit.
func (m *BlockListModel) replace() {
	page, err := placement.PlacePage(m.sess.Document(), m.opts)
	if err != nil {
		m.Failure = err
		return
	}
	m.page = page
	if n := len(page.Blocks); m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
}

func (m BlockListModel) Init() tea.Cmd {
	return nil
}

func (m BlockListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.page.Blocks)
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < n-1 {
				m.Cursor++
			}
		case "K", "shift+up":
			m.move(-1)
		case "J", "shift+down":
			m.move(1)
		case "x", "delete":
			m.remove()
		}
		if m.Cursor < m.Offset {
			m.Offset = m.Cursor
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height/2-4, 3)
	}
	return m, nil
}

func (m *BlockListModel) move(dir int) {
	if len(m.page.Blocks) == 0 {
		return
	}
	id := m.page.Blocks[m.Cursor].ID
	doc, err := m.sess.Apply(m.ctx, store.AnyRevision, "block.mv", func(d *document.Document) (*document.Document, error) {
		return document.MoveBlock(d, id, dir)
	})
	if err != nil {
		m.Status = apperr.UserMessage(err)
		return
	}
	if _, idx, ok := doc.Block(id); ok {
		m.Cursor = idx
	}
	m.Status = fmt.Sprintf("moved %s (revision %d)", id, doc.Revision)
	m.replace()
}

func (m *BlockListModel) remove() {
	if len(m.page.Blocks) == 0 {
		return
	}
	id := m.page.Blocks[m.Cursor].ID
	doc, err := m.sess.Apply(m.ctx, store.AnyRevision, "block.rm", func(d *document.Document) (*document.Document, error) {
		return document.RemoveBlock(d, id)
	})
	if err != nil {
		m.Status = apperr.UserMessage(err)
		return
	}
	m.Status = fmt.Sprintf("removed %s (revision %d)", id, doc.Revision)
	m.replace()
}

func (m BlockListModel) View() string {
	var b strings.Builder
	doc := m.sess.Document()

	title := doc.ID
	if doc.Title != "" {
		title = doc.Title + " " + listDimStyle.Render(doc.ID)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  J/K move  x delete  q quit"))
	b.WriteString("\n\n")

	if m.Failure != nil {
		b.WriteString(StyleWarning.Render(apperr.UserMessage(m.Failure)))
		return b.String()
	}
	if len(m.page.Blocks) == 0 {
		b.WriteString(listDimStyle.Render("  no blocks"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.page.Blocks))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		bl := m.page.Blocks[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		empty := ""
		if n := countEmpty(bl); n > 0 {
			empty = fmt.Sprintf("%d empty", n)
		}
		rows = append(rows, []string{cursor, bl.ID, string(bl.Type), fmt.Sprintf("%.0f×%.0f", bl.Rect.Width, bl.Rect.Height), fmt.Sprintf("%d", len(bl.Slots)), empty})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Block", "Type", "Size", "Slots", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 5 {
				return StyleWarning
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.slotDetail(m.page.Blocks[m.Cursor], doc))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] revision %d", m.Cursor+1, len(m.page.Blocks), doc.Revision)))
	if m.Status != "" {
		b.WriteString("  " + StyleSuccess.Render(m.Status))
	}
	return b.String()
}

// slotDetail lists the slots of one placed block.
func (m BlockListModel) slotDetail(bl placement.BlockLayout, doc *document.Document) string {
	var b strings.Builder
	block, _, _ := doc.Block(bl.ID)
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · aspect %.2f · radius %d", describeVariant(block), bl.Aspect, bl.Radius)))
	b.WriteString("\n")
	for _, s := range bl.Slots {
		label := s.AssetID
		if s.Asset != nil {
			label = s.Asset.Label()
		}
		line := fmt.Sprintf("    #%d  %6.1f,%6.1f  %6.1f×%-6.1f  %s", s.Index, s.Rect.X, s.Rect.Y, s.Rect.Width, s.Rect.Height, label)
		if s.Empty {
			b.WriteString(StyleWarning.Render(line + " (empty)"))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func describeVariant(b album.Block) string {
	switch b.Variant.(type) {
	case album.Split, album.Grid:
		return string(b.Type()) + " " + variantSummary(b)
	}
	return string(b.Type())
}

func countEmpty(bl placement.BlockLayout) int {
	n := 0
	for _, s := range bl.Slots {
		if s.Empty {
			n++
		}
	}
	return n
}
