package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// sanitizeCmd redacta stdin y lo escribe en stdout. Útil para probar
// un archivo de patrones antes de desplegarlo.
func sanitizeCmd() *cobra.Command {
	var patterns string

	cmd := &cobra.Command{
		Use:   "sanitize",
		Short: "Redact PII from stdin and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			san, err := loadSanitizer(patterns)
			if err != nil {
				return err
			}

			in, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), san.Sanitize(string(in)))
			return err
		},
	}

	cmd.Flags().StringVar(&patterns, "patterns", "", "YAML file with PII patterns (defaults to built-in rules)")
	return cmd
}
