package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shelfline/shelfline/pkg/catalog"
	"github.com/shelfline/shelfline/pkg/errors"
)

// addCommand creates the add command.
func (c *CLI) addCommand() *cobra.Command {
	var (
		isbn    string
		title   string
		author  string
		width   float64
		height  float64
		spine   float64
		pages   int
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Long: `Add a book to the catalog.

With --isbn, title, author, and physical dimensions are looked up on Open
Library; any flag you pass explicitly wins over the looked-up value. Without
an ISBN, --title is required and missing dimensions fall back to a standard
paperback size.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isbn == "" && title == "" {
				return errors.New(errors.ErrCodeInvalidInput, "either --isbn or --title is required")
			}
			book := catalog.Book{
				ID:       catalog.NewID(),
				ISBN:     isbn,
				Title:    title,
				Author:   author,
				WidthMM:  width,
				HeightMM: height,
				SpineMM:  spine,
				Pages:    pages,
				AddedAt:  time.Now().UTC(),
			}
			return c.runAdd(cmd.Context(), book, noCache)
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN-10 or ISBN-13 (hyphens allowed)")
	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "author name")
	cmd.Flags().Float64Var(&width, "width", 0, "cover width in mm")
	cmd.Flags().Float64Var(&height, "height", 0, "cover height in mm")
	cmd.Flags().Float64Var(&spine, "spine", 0, "spine thickness in mm")
	cmd.Flags().IntVar(&pages, "pages", 0, "page count (used to estimate the spine)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable metadata caching")

	return cmd
}

func (c *CLI) runAdd(ctx context.Context, book catalog.Book, noCache bool) error {
	store, err := c.newStore()
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	if book.ISBN != "" {
		book.ISBN = errors.NormalizeISBN(book.ISBN)
		if err := errors.ValidateISBN(book.ISBN); err != nil {
			return err
		}
		if existing, err := store.FindByISBN(ctx, book.ISBN); err == nil {
			printWarning("Already in catalog: %s (%s)", existing.Title, existing.ID)
			return nil
		}

		if book.Title == "" || book.WidthMM == 0 || book.HeightMM == 0 || book.SpineMM == 0 {
			filled, err := c.lookupMetadata(ctx, book, noCache)
			if err != nil {
				if book.Title == "" {
					return err
				}
				printWarning("Metadata lookup failed, using provided values: %v", errors.UserMessage(err))
			} else {
				book = filled
			}
		}
	}

	if err := store.Put(ctx, book); err != nil {
		return fmt.Errorf("save book: %w", err)
	}

	printSuccess("Added %s", StyleHighlight.Render(book.Title))
	w, h, d := book.Dimensions()
	printDetail("id: %s", book.ID)
	if book.Author != "" {
		printDetail("author: %s", book.Author)
	}
	printDetail("size: %.0f × %.0f × %.0f mm", w, h, d)
	if book.WidthMM == 0 || book.HeightMM == 0 {
		printDetail("dimensions unknown, using standard paperback size")
	}
	printNewline()
	printNextStep("View the shelf", "shelfline layout")
	return nil
}

// lookupMetadata fetches Open Library metadata and fills the fields the
// user left unset.
func (c *CLI) lookupMetadata(ctx context.Context, book catalog.Book, noCache bool) (catalog.Book, error) {
	client, err := c.newMetadataClient()
	if err != nil {
		return book, err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Looking up %s...", book.ISBN))
	spinner.Start()
	m, err := client.Lookup(ctx, book.ISBN, noCache)
	spinner.Stop()
	if err != nil {
		return book, err
	}

	if book.Title == "" {
		book.Title = m.Title
	}
	if book.Author == "" {
		book.Author = strings.Join(m.Authors, ", ")
	}
	if book.WidthMM == 0 {
		book.WidthMM = m.WidthMM
	}
	if book.HeightMM == 0 {
		book.HeightMM = m.HeightMM
	}
	if book.SpineMM == 0 {
		book.SpineMM = m.SpineMM
	}
	if book.Pages == 0 {
		book.Pages = m.Pages
	}
	if book.CoverURL == "" && errors.ValidateURL(m.CoverURL) == nil {
		book.CoverURL = m.CoverURL
	}
	if book.Title == "" {
		return book, errors.New(errors.ErrCodeNotFound, "no title found for ISBN %s", book.ISBN)
	}
	return book, nil
}
