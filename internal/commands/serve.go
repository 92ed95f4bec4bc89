package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookpost/internal/server"
)

func newServeCommand() *cobra.Command {
	var bookDir string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept postings over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBook(bookDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer b.Close()

			if cmd.Flags().Changed("port") {
				b.cfg.Server.Port = port
			}

			q := b.newQueue()
			defer q.Close()

			srv := server.New(server.Config{
				Log:          b.log,
				Port:         b.cfg.Server.Port,
				Business:     b.cfg.Business.Name,
				Poster:       committingPoster{q: q, book: b},
				TrialBalance: b.service.TrialBalance(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return <-errc
		},
	}

	addBookFlag(cmd, &bookDir)
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}
