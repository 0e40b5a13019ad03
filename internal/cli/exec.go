package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	sqlquery "github.com/biyonik/go-sqlquery"
	"github.com/biyonik/go-sqlquery/config"
	"github.com/biyonik/go-sqlquery/drivers"
	"github.com/biyonik/go-sqlquery/metrics"
)

// ExecOptions, exec komutunun bayraklarıdır.
type ExecOptions struct {
	File       string
	Driver     string
	DSN        string
	ConfigPath string
	Metrics    bool
}

// NewExecCommand, bir sorgu dosyasını veritabanında çalıştıran komutu oluşturur.
// Bağlantı --driver/--dsn ile ya da --config dosyası ve SQLQUERY_* ortam
// değişkenleriyle verilir.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:           "exec",
		Short:         "Execute a YAML query file and print the rows",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "query file (yaml)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "database driver (mysql|pgx|sqlite3)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "data source name")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "connection config file (yaml|json|toml)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print execution counters to stderr")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runExec(ctx context.Context, rootOpts *RootOptions, opts *ExecOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	qf, err := LoadQueryFile(opts.File)
	if err != nil {
		return out.Failure(ExitCommandError, "load query file", err)
	}

	driver, dsn := opts.Driver, opts.DSN
	dialectName := driver
	debug := rootOpts.Verbose
	if dsn == "" {
		cfg, err := config.Load(opts.ConfigPath, "")
		if err != nil {
			return out.Failure(ExitCommandError, "load config", err)
		}
		if driver == "" {
			driver = cfg.Driver
		}
		dsn = cfg.DSN()
		dialectName = cfg.DialectName()
		debug = debug || cfg.Debug
	}

	sqlDB, err := drivers.Open(driver, dsn)
	if err != nil {
		return out.Failure(ExitCommandError, "open database", err)
	}

	reg := prometheus.NewRegistry()
	logger := config.NewLogger(cmd.ErrOrStderr(), rootOpts.LogLevel, "text")
	if debug {
		logger = config.NewLogger(cmd.ErrOrStderr(), "DEBUG", "text")
	}
	db := sqlquery.NewDB(sqlDB,
		sqlquery.WithDialect(dialectName),
		sqlquery.WithDebug(debug),
		sqlquery.WithLogger(sqlquery.NewSlogLogger(logger)),
		sqlquery.WithMetrics(metrics.New(reg, "sqlquery")),
	)
	defer db.Close()

	q, err := qf.Apply(db.Query())
	if err != nil {
		return out.Failure(ExitFailure, "build query", err)
	}

	rows, err := sqlquery.To[[]map[string]any](ctx, q)
	if err != nil {
		return out.Failure(ExitFailure, "execute query", err)
	}

	if opts.Metrics {
		if err := printCounters(cmd.ErrOrStderr(), reg); err != nil {
			return out.Failure(ExitFailure, "gather metrics", err)
		}
	}

	text, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return out.Failure(ExitFailure, "encode rows", err)
	}
	return out.Success(rows, string(text))
}

func printCounters(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				labels := ""
				for _, lp := range m.GetLabel() {
					labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
				}
				fmt.Fprintf(w, "%s%s %v\n", mf.GetName(), labels, c.GetValue())
			}
		}
	}
	return nil
}
