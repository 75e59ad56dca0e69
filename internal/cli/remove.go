package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/pkg/errors"
)

// removeCommand creates the remove command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemove(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runRemove(ctx context.Context, id string) error {
	store, err := c.newStore()
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	book, err := store.Get(ctx, id)
	if err != nil {
		// Allow removal by ISBN as a convenience.
		if normalized := errors.NormalizeISBN(id); errors.ValidateISBN(normalized) == nil {
			if byISBN, isbnErr := store.FindByISBN(ctx, normalized); isbnErr == nil {
				book = byISBN
				err = nil
			}
		}
		if err != nil {
			return err
		}
	}

	if err := store.Delete(ctx, book.ID); err != nil {
		return err
	}
	printSuccess("Removed %s", StyleHighlight.Render(book.Title))
	return nil
}
