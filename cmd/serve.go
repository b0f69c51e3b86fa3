package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/ledger/api"
	"github.com/etnz/ledger/gateway"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger over HTTP" }
func (*serveCmd) Usage() string {
	return `ldg serve [-addr <host:port>]

  Serves the ledger as a JSON API until interrupted. Prometheus metrics are
  available on /metrics. See 'ldg topic api'.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "localhost:8080", "Address to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s, err := OpenLedger(ctx, gateway.WithMetrics(gateway.NewMetrics(reg)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger %q: %v\n", StoreLocation(), err)
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess

	srv := &http.Server{
		Addr:              c.addr,
		Handler:           api.NewHandler(s.Ledger, api.WithLogger(logger()), api.WithGatherer(reg)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fmt.Fprintf(os.Stderr, "Serving %q on http://%s\n", StoreLocation(), c.addr)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error serving: %v\n", err)
			status = subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			fmt.Fprintf(os.Stderr, "Error shutting down: %v\n", err)
		}
	}

	if err := CloseLedger(context.Background(), s); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger %q: %v\n", StoreLocation(), err)
		return subcommands.ExitFailure
	}
	return status
}
