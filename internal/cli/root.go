// Package cli, sqlquery komut satırı aracının cobra komutlarını içerir.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions, tüm komutların ortak bayraklarıdır.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	LogLevel string
}

// ValidFormats, izin verilen çıktı biçimleridir.
var ValidFormats = []string{"text", "json"}

// NewRootCommand, sqlquery kök komutunu oluşturur.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlquery",
		Short: "Render and execute SELECT queries described in YAML",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log executed statements to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "INFO", "log level (DEBUG|INFO|WARN|ERROR)")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
