package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/krazyTry/gamma-go/internal/config"
	"github.com/krazyTry/gamma-go/internal/logger"
	"github.com/krazyTry/gamma-go/quote"
)

// Version is set at build time with -ldflags.
var Version = "0.1.0-dev"

type options struct {
	configFile string
	logLevel   string
	now        int64

	cfg *config.Config
}

// quoter returns a quoter pinned to --now when it is set.
func (o *options) quoter() *quote.Quoter {
	q := quote.NewQuoter()
	if o.now > 0 {
		at := time.Unix(o.now, 0)
		q.Now = func() time.Time { return at }
	}
	return q
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "gamma-quote",
		Short: "Quote swaps against Gamma pools",
		Long: `gamma-quote prices swaps with the same fee, curve and oracle rules the
on-chain program applies. Requests come from JSON files or live pool
accounts fetched over RPC.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			logger.Initialize(cfg.LogLevel)
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "conf", "", "configuration file path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().Int64Var(&opts.now, "now", 0, "unix time to quote at, 0 for the wall clock")

	root.AddCommand(newQuoteCmd(opts), newPoolCmd(opts), newVersionCmd())
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func parseKind(name string) (quote.Kind, error) {
	kind, ok := quote.ParseKind(name)
	if !ok {
		return 0, errors.Errorf("unknown kind %q, want base-input, oracle or base-output", name)
	}
	return kind, nil
}
