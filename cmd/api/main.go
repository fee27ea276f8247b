package main

import (
	"os"

	"github.com/spf13/cobra"
)

// @title Imperium API
// @version 1.0
// @description Asistente educativo de razonamiento clínico. No diagnostica ni recomienda tratamientos.
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "imperium",
		Short:        "Educational clinical reasoning API",
		SilenceUsage: true,
		// Sin subcomando se levanta el servidor.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	root.AddCommand(serveCmd())
	root.AddCommand(sanitizeCmd())

	return root
}
