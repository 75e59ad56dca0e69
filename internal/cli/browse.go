package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive catalog browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context())
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context) error {
	store, err := c.newStore()
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	books, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(books) == 0 {
		printInfo("Catalog is empty")
		return nil
	}

	model := NewBookListModel(books)
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	m := final.(BookListModel)
	for _, id := range m.Removed {
		if err := store.Delete(ctx, id); err != nil {
			printError("Remove %s: %v", id, err)
		}
	}
	if n := len(m.Removed); n > 0 {
		printSuccess("Removed %d books", n)
	}
	return nil
}

// BookListModel is the bubbletea model for catalog browsing. Deletions are
// collected and applied after the program exits, so a quit without confirm
// changes nothing.
type BookListModel struct {
	Books    []catalog.Book
	Removed  []string
	Cursor   int
	Height   int
	Offset   int
	expanded bool
}

// NewBookListModel creates a new book list model.
func NewBookListModel(books []catalog.Book) BookListModel {
	return BookListModel{
		Books:  books,
		Height: 15,
	}
}

func (m BookListModel) Init() tea.Cmd {
	return nil
}

func (m BookListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(m.Books)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "enter":
		m.expanded = !m.expanded
	case "x", "delete":
		if len(m.Books) > 0 {
			m.Removed = append(m.Removed, m.Books[m.Cursor].ID)
			m.Books = append(m.Books[:m.Cursor], m.Books[m.Cursor+1:]...)
			if m.Cursor >= len(m.Books) && m.Cursor > 0 {
				m.Cursor--
			}
			if len(m.Books) == 0 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m BookListModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Catalog") + "\n\n")

	end := min(m.Offset+m.Height, len(m.Books))
	for i := m.Offset; i < end; i++ {
		book := m.Books[i]
		line := book.Title
		if book.Author != "" {
			line += listDimStyle.Render(" · " + book.Author)
		}
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render("> ") + listSelectedStyle.Render(line) + "\n")
			if m.expanded {
				b.WriteString(m.detailView(book))
			}
		} else {
			b.WriteString("  " + listNormalStyle.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + listDimStyle.Render("↑/↓ move · enter details · x remove · q quit") + "\n")
	return b.String()
}

func (m BookListModel) detailView(book catalog.Book) string {
	w, h, d := book.Dimensions()
	var b strings.Builder
	if book.ISBN != "" {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("    isbn  %s", book.ISBN)) + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("    size  %.0f × %.0f × %.0f mm", w, h, d)) + "\n")
	if book.Pages > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("    pages %d", book.Pages)) + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("    added %s", book.AddedAt.Format("2006-01-02"))) + "\n")
	return b.String()
}
