package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookpost/internal/model"
)

func newPostCommand() *cobra.Command {
	var bookDir string
	var txType, party, amount, description, date string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a single transaction to every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.TransactionRequest{
				Type:        model.TransactionType(txType),
				PartyName:   party,
				Description: description,
			}
			amt, err := model.ParseAmount(amount)
			if err != nil {
				return err
			}
			req.Amount = amt
			if date != "" {
				d, err := model.ParseDate(date)
				if err != nil {
					return err
				}
				req.Date = d
			}

			b, err := openBook(bookDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			res, err := b.service.Post(cmd.Context(), req)
			if err != nil {
				return err
			}
			b.commit(cmd.Context(), postMessage(req, res))
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	addBookFlag(cmd, &bookDir)
	cmd.Flags().StringVar(&txType, "type", "", "transaction type, e.g. cash_receipt")
	cmd.Flags().StringVar(&party, "party", "", "counterparty name")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount")
	cmd.Flags().StringVar(&description, "description", "", "narration")
	cmd.Flags().StringVar(&date, "date", "", "transaction date, YYYY-MM-DD")

	return cmd
}

func printResult(w io.Writer, res model.PostingResult) {
	fmt.Fprintf(w, "Posted %s on %s: %s Dr / %s Cr %s\n",
		res.JournalNumber,
		model.FormatDisplayDate(res.Date),
		res.DebitAccount,
		res.CreditAccount,
		model.FormatAmount(res.Amount),
	)
}
