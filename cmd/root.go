package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"invoicegen/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicegen",
	Short: "invoicegen - Generate paginated PDF invoices from JSON requests",
	Long: `invoicegen turns a structured invoice request into a print-ready,
paginated PDF document with German or English labels.

Generated invoices can be archived in a local directory or a Google Cloud
Storage bucket and registered in the receivables (Debitoren) sheet of a
Google Spreadsheet.

Defaults for the issuer, payment details and layout are read from the
environment or a .env file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("invoicegen executed without subcommand")

		_ = cmd.Help()
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
