package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/store"
)

var showBooks = []string{"journal", "ledger", "trial-balance", "cash-book"}

func newShowCommand() *cobra.Command {
	var bookDir string

	cmd := &cobra.Command{
		Use:       "show <" + strings.Join(showBooks, "|") + ">",
		Short:     "Print one of the books",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: showBooks,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(bookDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			return runShow(cmd.Context(), cmd.OutOrStdout(), b, args[0])
		},
	}

	addBookFlag(cmd, &bookDir)
	return cmd
}

func runShow(ctx context.Context, out io.Writer, b *book, which string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	opts, err := b.cfg.PostingOptions()
	if err != nil {
		return err
	}

	switch which {
	case "journal":
		entries, err := b.service.Journal().ReadEntries(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "No.\tDate\tAccount\tCode\tDebit\tCredit\tNarration")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\t%s\n", e.Number, model.FormatDisplayDate(e.Date),
				e.Debit.Account, e.Debit.Code, model.FormatAmount(e.Debit.Debit), e.Narration)
			fmt.Fprintf(tw, "\t\t  %s\t%s\t\t%s\t\n", e.Credit.Account, e.Credit.Code, model.FormatAmount(e.Credit.Credit))
		}
	case "trial-balance":
		rows, total, err := b.service.TrialBalance().Read(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "Account\tCode\tDebit\tCredit")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Code, model.FormatAmount(r.Debit), model.FormatAmount(r.Credit))
		}
		fmt.Fprintf(tw, "%s\t\t%s\t%s\n", "TOTAL", model.FormatAmount(total.Debit), model.FormatAmount(total.Credit))
		if !total.Debit.Equal(total.Credit) {
			fmt.Fprintln(tw, "(not balanced)")
		}
	case "ledger":
		return printSheet(ctx, tw, b.store, opts.Sheets.Ledger)
	case "cash-book":
		return printSheet(ctx, tw, b.store, opts.Sheets.CashBook)
	default:
		return fmt.Errorf("unknown book %q", which)
	}
	return nil
}

// printSheet prints a sheet's rows as stored, header included.
func printSheet(ctx context.Context, w io.Writer, s store.Store, sheet string) error {
	rows, err := s.ReadRows(ctx, sheet, store.Range{StartCol: 1, StartRow: 1})
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return nil
}
