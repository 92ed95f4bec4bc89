package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/commands"
	"github.com/cleared-dev/bookpost/internal/postlog"
)

func runBookpost(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := commands.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initBook(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	args := append([]string{"init", dir, "--name", "Test Biz", "--git=false"}, extra...)
	_, err := runBookpost(t, args...)
	require.NoError(t, err)
	return dir
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := initBook(t)

	for _, d := range []string{"accounts", "logs", "import", filepath.Join("import", "processed"), "books"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}

	data, err := os.ReadFile(filepath.Join(dir, "bookpost.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Test Biz")
	assert.Contains(t, string(data), "backend: csv")

	journal, err := os.ReadFile(filepath.Join(dir, "books", "journal.csv"))
	require.NoError(t, err)
	assert.Equal(t, "1,Date,Particulars,Code,Debit,Credit,L.F.,Party,Ref,Narration\n", string(journal))

	for _, f := range []string{"ledger.csv", "trial-balance.csv", "cash-book.csv"} {
		_, err := os.Stat(filepath.Join(dir, "books", f))
		assert.NoError(t, err, f)
	}
}

func TestInit_Accounts(t *testing.T) {
	dir := initBook(t)

	svc, err := accounts.Load(dir)
	require.NoError(t, err)
	assert.Len(t, svc.All(), 6)
	assert.NoError(t, svc.Covers())
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runBookpost(t, "init", t.TempDir(), "--git=false")
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RejectsMemoryBackend(t *testing.T) {
	_, err := runBookpost(t, "init", t.TempDir(), "--name", "Biz", "--backend", "memory", "--git=false")
	assert.ErrorContains(t, err, "cannot hold a book")
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	out, err := runBookpost(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized book")

	assert.Contains(t, gitLog(t, dir, "%s"), "init: Initialize Test Biz")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Bookpost <bookpost@localhost>")

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".env")
}

func TestPost_CashReceipt(t *testing.T) {
	for _, backend := range []string{"csv", "bolt", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := initBook(t, "--backend", backend)

			out, err := runBookpost(t, "post", "--book", dir,
				"--type", "cash_receipt", "--party", "Acme", "--amount", "5000",
				"--description", "consulting fee", "--date", "2024-01-15")
			require.NoError(t, err)
			assert.Equal(t, "Posted J1 on 15 Jan 2024: Cash A/c Dr / Service Income A/c Cr 5000.00\n", out)

			out, err = runBookpost(t, "show", "trial-balance", "--book", dir)
			require.NoError(t, err)
			assert.Contains(t, out, "Cash in Hand")
			assert.Contains(t, out, "Service Income")
			assert.NotContains(t, out, "not balanced")

			out, err = runBookpost(t, "show", "cash-book", "--book", dir)
			require.NoError(t, err)
			assert.Contains(t, out, "To Service Income A/c (Acme)")

			entries, err := postlog.Read(dir)
			require.NoError(t, err)
			require.Len(t, entries, 4)
			assert.Equal(t, "J1", entries[3].JournalNumber)
		})
	}
}

func TestPost_SecondPostingGetsNextNumber(t *testing.T) {
	dir := initBook(t)
	post := func(amount string) string {
		out, err := runBookpost(t, "post", "--book", dir,
			"--type", "credit_purchase", "--party", "Bolt Supplies", "--amount", amount,
			"--description", "raw materials", "--date", "2024-02-01")
		require.NoError(t, err)
		return out
	}
	assert.Contains(t, post("1200"), "Posted J1")
	assert.Contains(t, post("300"), "Posted J2")

	out, err := runBookpost(t, "show", "journal", "--book", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "J2")
	assert.Contains(t, out, "Sundry Creditors A/c (Bolt Supplies)")

	out, err = runBookpost(t, "show", "ledger", "--book", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "By Purchases A/c")
}

func TestPost_Rejected(t *testing.T) {
	dir := initBook(t)

	_, err := runBookpost(t, "post", "--book", dir,
		"--type", "refund", "--party", "Acme", "--amount", "10",
		"--description", "x", "--date", "2024-01-15")
	assert.ErrorContains(t, err, "invalid transaction type")

	_, err = runBookpost(t, "post", "--book", dir,
		"--type", "cash_receipt", "--party", "Acme",
		"--description", "x", "--date", "2024-01-15")
	assert.ErrorContains(t, err, "invalid amount: required")

	entries, err := postlog.Read(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPost_NotABook(t *testing.T) {
	_, err := runBookpost(t, "post", "--book", t.TempDir(), "--type", "cash_receipt")
	assert.ErrorContains(t, err, "reading config")
}

func TestPost_GitCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runBookpost(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	_, err = runBookpost(t, "post", "--book", dir,
		"--type", "cash_payment", "--party", "Office Depot", "--amount", "42.50",
		"--description", "printer paper", "--date", "2024-01-03")
	require.NoError(t, err)

	assert.Contains(t, gitLog(t, dir, "%s"), "post: J1 cash_payment Office Depot 42.50")
}

func TestImport(t *testing.T) {
	dir := initBook(t)
	csv := strings.Join([]string{
		"type,partyName,amount,description,date",
		"cash_receipt,Acme,5000,consulting fee,2024-01-15",
		"refund,Acme,10,bad type,2024-01-16",
		"credit_sale,Zeta,800,design work,2024-01-20",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "january.csv"), []byte(csv), 0o644))

	out, err := runBookpost(t, "import", "--book", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "january.csv line 3: skipped")
	assert.Contains(t, out, "january.csv (transactions): posted 2, skipped 1")

	_, err = os.Stat(filepath.Join(dir, "import", "processed", "january.csv"))
	assert.NoError(t, err)

	out, err = runBookpost(t, "show", "journal", "--book", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "J2")
	assert.NotContains(t, out, "J3")

	out, err = runBookpost(t, "import", "--book", dir)
	require.NoError(t, err)
	assert.Equal(t, "Nothing to import\n", out)
}

func TestShow_UnknownBook(t *testing.T) {
	dir := initBook(t)
	_, err := runBookpost(t, "show", "balance-sheet", "--book", dir)
	assert.Error(t, err)
}
