package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sqlquery "github.com/biyonik/go-sqlquery"
)

// RenderResult, render komutunun çıktısıdır.
type RenderResult struct {
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Args    []any  `json:"args"`
}

// NewRenderCommand, bir sorgu dosyasını SQL'e derleyen komutu oluşturur.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		file    string
		dialect string
	)

	cmd := &cobra.Command{
		Use:           "render",
		Short:         "Render a YAML query file to SQL and bound arguments",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, cmd, file, dialect)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "query file (yaml)")
	cmd.Flags().StringVar(&dialect, "dialect", "mysql", "sql dialect (mysql|postgres|sqlite|sqlserver)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runRender(opts *RootOptions, cmd *cobra.Command, file, dialect string) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	qf, err := LoadQueryFile(file)
	if err != nil {
		return out.Failure(ExitCommandError, "load query file", err)
	}

	q, err := qf.Apply(sqlquery.New(sqlquery.WithDialect(dialect)))
	if err != nil {
		return out.Failure(ExitFailure, "build query", err)
	}

	b := q.NewBuilder()
	sql, args, err := b.Build()
	if err != nil {
		return out.Failure(ExitFailure, "render query", err)
	}

	result := RenderResult{Dialect: b.Grammar().Name(), SQL: sql, Args: args}
	return out.Success(result, formatRender(result))
}

func formatRender(r RenderResult) string {
	var sb strings.Builder
	sb.WriteString(r.SQL)
	for i, a := range r.Args {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, a)
	}
	return sb.String()
}
