package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/pkg/catalog"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), showIDs)
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "include book IDs (needed for remove)")
	return cmd
}

func (c *CLI) runList(ctx context.Context, showIDs bool) error {
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
		printNextStep("Add your first book", "shelfline add --isbn <isbn>")
		return nil
	}

	headers := []string{"Title", "Author", "Size (mm)"}
	if showIDs {
		headers = append([]string{"ID"}, headers...)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return StyleTitle.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		})

	for _, b := range books {
		t.Row(bookRow(b, showIDs)...)
	}
	fmt.Println(t)
	printDetail("%d books", len(books))
	return nil
}

func bookRow(b catalog.Book, showIDs bool) []string {
	w, h, d := b.Dimensions()
	row := []string{b.Title, b.Author, fmt.Sprintf("%.0f × %.0f × %.0f", w, h, d)}
	if showIDs {
		row = append([]string{b.ID}, row...)
	}
	return row
}
