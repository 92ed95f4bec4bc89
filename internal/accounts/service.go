package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/bookpost/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	m := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		m[a.Code] = a
	}
	return &Service{accounts: accounts, byCode: m}
}

// ChartPath is the chart of accounts file inside a book directory.
func ChartPath(bookDir string) string {
	return filepath.Join(bookDir, "accounts", "chart-of-accounts.csv")
}

// Load reads chart-of-accounts.csv from a book directory and returns a Service.
func Load(bookDir string) (*Service, error) {
	f, err := os.Open(ChartPath(bookDir))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by code.
func (s *Service) Get(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// Covers reports whether every code the posting rules use is in the chart.
func (s *Service) Covers() error {
	for _, r := range rules {
		for _, code := range []string{r.debit.code, r.credit.code} {
			if !s.Exists(code) {
				return fmt.Errorf("chart of accounts is missing code %s", code)
			}
		}
	}
	return nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(bookDir string) error {
	path := ChartPath(bookDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
