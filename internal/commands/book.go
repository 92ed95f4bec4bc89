package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/config"
	"github.com/cleared-dev/bookpost/internal/gitops"
	"github.com/cleared-dev/bookpost/internal/logger"
	"github.com/cleared-dev/bookpost/internal/model"
	"github.com/cleared-dev/bookpost/internal/posting"
	"github.com/cleared-dev/bookpost/internal/postlog"
	"github.com/cleared-dev/bookpost/internal/store"
)

// book is an opened book directory: config, store and posting service.
type book struct {
	dir       string
	cfg       *config.Config
	log       zerolog.Logger
	store     store.Store
	service   *posting.Service
	committer *gitops.Committer
	close     func() error
}

func addBookFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVar(dir, "book", ".", "book directory")
}

// openBook loads <dir>/bookpost.yaml, applies <dir>/.env and BOOKPOST_*
// overrides and opens the configured store. Logs go to logOut.
func openBook(dir string, logOut io.Writer) (*book, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, filepath.Join(absDir, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	chart, err := accounts.Load(absDir)
	if err != nil {
		return nil, err
	}
	if err := chart.Covers(); err != nil {
		return nil, err
	}

	opts, err := cfg.PostingOptions()
	if err != nil {
		return nil, err
	}
	opts.Chart = chart

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, Out: logOut}).
		With().Str("book", cfg.Business.Name).Logger()

	s, closeStore, err := cfg.OpenStore(absDir)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &book{
		dir:       absDir,
		cfg:       cfg,
		log:       log,
		store:     s,
		service:   posting.NewService(s, opts, postlog.NewFile(absDir), log),
		committer: gitops.NewCommitter(absDir, gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}, cfg.Git.AutoCommit),
		close:     closeStore,
	}, nil
}

func (b *book) Close() error {
	return b.close()
}

// newQueue starts the single-writer queue over the book's service.
func (b *book) newQueue() *posting.Queue {
	return posting.NewQueue(b.service, b.cfg.Posting.QueueSize)
}

// commit records the book state in git, logging rather than failing: the
// posting itself already succeeded.
func (b *book) commit(ctx context.Context, message string) {
	hash, err := b.committer.Commit(ctx, message)
	if err != nil {
		b.log.Warn().Err(err).Msg("git commit failed")
		return
	}
	if hash != "" {
		b.log.Debug().Str("commit", hash).Msg(message)
	}
}

// committingPoster commits the book after every successful posting.
type committingPoster struct {
	q    *posting.Queue
	book *book
}

func (p committingPoster) Submit(ctx context.Context, req model.TransactionRequest) (model.PostingResult, error) {
	res, err := p.q.Submit(ctx, req)
	if err != nil {
		return res, err
	}
	p.book.commit(ctx, postMessage(req, res))
	return res, nil
}

func postMessage(req model.TransactionRequest, res model.PostingResult) string {
	return fmt.Sprintf("post: %s %s %s %s", res.JournalNumber, req.Type, req.PartyName, model.FormatAmount(req.Amount))
}

// isRequestError reports errors caused by the request rather than the books.
func isRequestError(err error) bool {
	var ve model.ValidationError
	return errors.As(err, &ve) || errors.Is(err, accounts.ErrInvalidTransactionType)
}
