package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookpost/internal/importer"
	"github.com/cleared-dev/bookpost/internal/posting"
)

func newImportCommand() *cobra.Command {
	var bookDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Post every transaction in the CSV files under import/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(bookDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			q := b.newQueue()
			defer q.Close()

			return runImport(cmd.Context(), cmd.OutOrStdout(), b, q)
		},
	}

	addBookFlag(cmd, &bookDir)
	return cmd
}

// runImport posts each file in turn. Rows rejected as invalid are reported
// and skipped; a store failure stops the import and leaves the file in
// place.
func runImport(ctx context.Context, out io.Writer, b *book, q *posting.Queue) error {
	files, err := importer.Scan(b.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return nil
	}

	registry := importer.DefaultRegistry()
	for _, f := range files {
		format, rows, err := registry.ParseFile(f.Path)
		if err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}

		posted, skipped := 0, 0
		for _, row := range rows {
			res, err := q.Submit(ctx, row.Request)
			if err != nil {
				if isRequestError(err) {
					skipped++
					fmt.Fprintf(out, "%s line %d: skipped: %v\n", f.Name, row.Line, err)
					continue
				}
				return fmt.Errorf("%s line %d: %w", f.Name, row.Line, err)
			}
			posted++
			b.log.Debug().Str("file", f.Name).Int("line", row.Line).Str("journal_number", res.JournalNumber).Msg("imported")
		}

		if err := importer.MarkProcessed(b.dir, f.Name); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s): posted %d, skipped %d\n", f.Name, format, posted, skipped)
		b.commit(ctx, fmt.Sprintf("import: %s (%d posted)", f.Name, posted))
	}
	return nil
}
