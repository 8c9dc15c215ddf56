package cli

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"skillplan/internal/gcal"
	"skillplan/internal/web"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the backend HTTP server",
		Long: strings.TrimSpace(`
Run the HTTP server the TUI talks to: task generation, calendar event
listing, and schedule submission against Google Calendar.

Calendar access requires prior authorization via "skillplan auth"; without it
the calendar endpoints answer 401 and the TUI prompts for re-authorization.
`),
		Example: strings.TrimSpace(`
# Serve on the default port
skillplan serve

# Serve on a specific address
skillplan serve --addr 127.0.0.1:8080
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			provider := func(ctx context.Context) (web.CalendarAPI, error) {
				svc, err := gcal.NewService(ctx)
				if err != nil {
					return nil, err
				}
				return gcal.NewClient(svc, time.Local), nil
			}

			srv := web.New(logger, provider, time.Local)

			listenAddr := strings.TrimSpace(addr)
			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return err
			}
			logger.Info("listening", "addr", ln.Addr().String())

			httpSrv := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return httpSrv.Serve(ln)
		},
	}

	defaultAddr := ":5000"
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		defaultAddr = ":" + p
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "Listen address")

	return cmd
}
