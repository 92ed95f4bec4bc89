package posting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bookpost/internal/cashbook"
	"github.com/cleared-dev/bookpost/internal/journal"
	"github.com/cleared-dev/bookpost/internal/ledger"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/postlog"
	"github.com/cleared-dev/bookpost/internal/store"
	"github.com/cleared-dev/bookpost/internal/trialbalance"
)

// faultyStore fails appends or overwrites on chosen sheets.
type faultyStore struct {
	store.Store

	mu          sync.Mutex
	failAppend  map[string]error
	failWrite   map[string]error
	appendCalls int
	onAppend    func(sheet string)
}

func newFaultyStore(s store.Store) *faultyStore {
	return &faultyStore{Store: s, failAppend: map[string]error{}, failWrite: map[string]error{}}
}

func (f *faultyStore) AppendRows(ctx context.Context, sheet string, rng store.Range, rows []store.Row) (store.Range, error) {
	f.mu.Lock()
	f.appendCalls++
	err := f.failAppend[sheet]
	hook := f.onAppend
	f.mu.Unlock()
	if hook != nil {
		hook(sheet)
	}
	if err != nil {
		return store.Range{}, &store.Error{Op: "append", Sheet: sheet, Err: err}
	}
	return f.Store.AppendRows(ctx, sheet, rng, rows)
}

func (f *faultyStore) OverwriteRows(ctx context.Context, sheet string, rng store.Range, rows []store.Row) error {
	f.mu.Lock()
	err := f.failWrite[sheet]
	f.mu.Unlock()
	if err != nil {
		return &store.Error{Op: "overwrite", Sheet: sheet, Err: err}
	}
	return f.Store.OverwriteRows(ctx, sheet, rng, rows)
}

func newBooks() *store.MemoryStore {
	s := store.NewMemory()
	sheets := DefaultSheets()
	s.Seed(sheets.Journal, [][]string{journal.Header})
	s.Seed(sheets.Ledger, [][]string{ledger.Header})
	s.Seed(sheets.TrialBalance, [][]string{trialbalance.Header})
	s.Seed(sheets.CashBook, [][]string{cashbook.Header})
	return s
}

func newService(s store.Store, mode trialbalance.Mode, rec Recorder) *Service {
	svc := NewService(s, Options{Sheets: DefaultSheets(), Mode: mode, Compensate: true}, rec, zerolog.Nop())
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("posting-%d", n)
	}
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }
	return svc
}

func request(txType model.TransactionType, party string, amount int64, desc, date string) model.TransactionRequest {
	d, err := model.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return model.TransactionRequest{
		Type:        txType,
		PartyName:   party,
		Amount:      decimal.NewFromInt(amount),
		Description: desc,
		Date:        d,
	}
}

func scenarioA() model.TransactionRequest {
	return request(model.CashReceipt, "Acme", 5000, "consulting fee", "2024-01-15")
}

func scenarioB() model.TransactionRequest {
	return request(model.CreditPurchase, "Bolt Supplies", 1200, "raw materials", "2024-02-01")
}

func outcomes(entries []postlog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Step + ":" + string(e.Outcome)
	}
	return out
}
