// Package posting runs a transaction through every book as one logical
// unit: journal, ledger, trial balance and cash book. A failed step undoes
// the steps before it.
package posting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/cashbook"
	"github.com/cleared-dev/bookpost/internal/journal"
	"github.com/cleared-dev/bookpost/internal/ledger"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/postlog"
	"github.com/cleared-dev/bookpost/internal/store"
	"github.com/cleared-dev/bookpost/internal/trialbalance"
)

// Step names as they appear in errors and the posting log.
const (
	StepJournal      = "journal"
	StepLedger       = "ledger"
	StepTrialBalance = "trial_balance"
	StepCashBook     = "cash_book"
)

// Recorder receives one entry per step outcome and per compensation.
type Recorder interface {
	Record(e postlog.Entry) error
}

// Sheets names the sheet behind each book.
type Sheets struct {
	Journal      string
	Ledger       string
	TrialBalance string
	CashBook     string
}

// DefaultSheets returns the standard sheet names.
func DefaultSheets() Sheets {
	return Sheets{
		Journal:      "Journal",
		Ledger:       "Ledger",
		TrialBalance: "Trial Balance",
		CashBook:     "Cash Book",
	}
}

// Options configures a Service.
type Options struct {
	Sheets Sheets
	Mode   trialbalance.Mode
	// Compensate undoes completed steps when a later one fails.
	Compensate bool
	// Chart labels the classified accounts. Nil means the default chart.
	Chart *accounts.Service
}

// Service posts transactions.
type Service struct {
	store      store.Store
	journal    *journal.Poster
	ledger     *ledger.Poster
	tb         *trialbalance.Updater
	cash       *cashbook.Poster
	compensate bool
	chart      *accounts.Service
	recorder   Recorder
	log        zerolog.Logger
	now        func() time.Time
	newID      func() string
}

// NewService wires the posters over s. rec may be nil.
func NewService(s store.Store, opts Options, rec Recorder, log zerolog.Logger) *Service {
	chart := opts.Chart
	if chart == nil {
		chart = accounts.NewService(accounts.DefaultChart())
	}
	return &Service{
		store:      s,
		journal:    journal.NewPoster(s, opts.Sheets.Journal),
		ledger:     ledger.NewPoster(s, opts.Sheets.Ledger),
		tb:         trialbalance.NewUpdater(s, opts.Sheets.TrialBalance, opts.Mode),
		cash:       cashbook.NewPoster(s, opts.Sheets.CashBook),
		compensate: opts.Compensate,
		chart:      chart,
		recorder:   rec,
		log:        log.With().Str("component", "posting").Logger(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Journal returns the journal poster, for readers of the books.
func (s *Service) Journal() *journal.Poster { return s.journal }

// TrialBalance returns the trial balance updater.
func (s *Service) TrialBalance() *trialbalance.Updater { return s.tb }

// undo is one recorded compensating action.
type undo struct {
	step  string
	sheet string
	rng   store.Range
	rows  []store.Row
}

// run carries the state of a single posting.
type run struct {
	id        string
	number    string
	completed []string
	undos     []undo
}

// Post validates, classifies and writes req to every book.
func (s *Service) Post(ctx context.Context, req model.TransactionRequest) (model.PostingResult, error) {
	if err := req.Validate(); err != nil {
		return model.PostingResult{}, err
	}
	cls, err := s.chart.Classify(req.Type, req.PartyName)
	if err != nil {
		return model.PostingResult{}, err
	}

	r := &run{id: s.newID()}
	log := s.log.With().Str("posting_id", r.id).Str("type", string(req.Type)).Logger()

	entry, written, err := s.journal.Post(ctx, req, cls)
	if err != nil {
		return model.PostingResult{}, s.fail(ctx, log, r, StepJournal, err)
	}
	r.number = entry.Number
	s.done(log, r, StepJournal, s.journal.Sheet(), written)

	ledgerRow, written, err := s.ledger.Post(ctx, entry)
	if err != nil {
		return model.PostingResult{}, s.fail(ctx, log, r, StepLedger, err)
	}
	s.done(log, r, StepLedger, s.ledger.Sheet(), written)

	tb, err := s.tb.Update(ctx, req, cls)
	if err != nil {
		return model.PostingResult{}, s.fail(ctx, log, r, StepTrialBalance, err)
	}
	if tb.Changed {
		r.completed = append(r.completed, StepTrialBalance)
		r.undos = append(r.undos, undo{step: StepTrialBalance, sheet: s.tb.Sheet(), rng: tb.Range, rows: tb.Restore})
		s.record(log, r, StepTrialBalance, postlog.OutcomeOK, fmt.Sprintf("total %s/%s", model.FormatAmount(tb.Total.Debit), model.FormatAmount(tb.Total.Credit)))
	} else {
		s.record(log, r, StepTrialBalance, postlog.OutcomeSkipped, "no matching rows")
	}

	wrote, _, written, err := s.cash.Post(ctx, req, cls)
	if err != nil {
		return model.PostingResult{}, s.fail(ctx, log, r, StepCashBook, err)
	}
	if wrote {
		s.done(log, r, StepCashBook, s.cash.Sheet(), written)
	} else {
		s.record(log, r, StepCashBook, postlog.OutcomeSkipped, "non-cash transaction")
	}

	log.Info().
		Str("journal_number", entry.Number).
		Str("amount", model.FormatAmount(req.Amount)).
		Msg("transaction posted")

	return model.PostingResult{
		PostingID:     r.id,
		JournalNumber: entry.Number,
		DebitAccount:  cls.DebitAccount,
		CreditAccount: cls.CreditAccount,
		Amount:        req.Amount,
		Date:          req.Date,
		LedgerRow:     ledgerRow,
		TrialBalance:  tb.Changed,
		CashBook:      wrote,
	}, nil
}

// done marks an append step complete; its undo blanks the written range.
func (s *Service) done(log zerolog.Logger, r *run, step, sheet string, written store.Range) {
	height := written.EndRow - written.StartRow + 1
	r.completed = append(r.completed, step)
	r.undos = append(r.undos, undo{
		step:  step,
		sheet: sheet,
		rng:   written,
		rows:  store.BlankRows(height, written.Width()),
	})
	s.record(log, r, step, postlog.OutcomeOK, sheet+"!"+written.String())
}

func (s *Service) fail(ctx context.Context, log zerolog.Logger, r *run, step string, err error) error {
	log.Error().Err(err).Str("step", step).Strs("completed", r.completed).Msg("posting step failed")
	s.record(log, r, step, postlog.OutcomeFailed, err.Error())

	perr := &PartialPostingError{
		PostingID: r.id,
		Step:      step,
		Completed: r.completed,
		Err:       err,
	}
	if !s.compensate || len(r.undos) == 0 {
		return perr
	}

	// Compensate even when the caller's context is already done.
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for i := len(r.undos) - 1; i >= 0; i-- {
		u := r.undos[i]
		if err := s.store.OverwriteRows(ctx, u.sheet, u.rng, u.rows); err != nil {
			errs = append(errs, fmt.Errorf("undoing %s: %w", u.step, err))
			s.record(log, r, u.step, postlog.OutcomeCompFailed, err.Error())
			continue
		}
		s.record(log, r, u.step, postlog.OutcomeCompensated, u.sheet+"!"+u.rng.String())
	}
	perr.RollbackErr = errors.Join(errs...)
	perr.RolledBack = perr.RollbackErr == nil
	if perr.RolledBack {
		log.Warn().Str("step", step).Msg("posting rolled back")
	} else {
		log.Error().Err(perr.RollbackErr).Msg("posting rollback incomplete")
	}
	return perr
}

func (s *Service) record(log zerolog.Logger, r *run, step string, outcome postlog.Outcome, details string) {
	log.Debug().Str("step", step).Str("outcome", string(outcome)).Msg(details)
	if s.recorder == nil {
		return
	}
	err := s.recorder.Record(postlog.Entry{
		Timestamp:     s.now().UTC(),
		PostingID:     r.id,
		Step:          step,
		Outcome:       outcome,
		JournalNumber: r.number,
		Details:       details,
	})
	if err != nil {
		log.Warn().Err(err).Msg("recording posting step")
	}
}
