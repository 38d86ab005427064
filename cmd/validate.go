package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"invoicegen/internal/config"
	"invoicegen/internal/invoice"
	"invoicegen/internal/logger"
	"invoicegen/internal/money"
)

var validateCmd = &cobra.Command{
	Use:   "validate [request.json]",
	Short: "Check an invoice request without producing a document",
	Long: `Decode an invoice request, apply the configured defaults and print the
totals and advisory warnings the generate command would report.

Malformed numbers or dates and missing required identifiers make the
command fail. Warnings alone do not.`,
	Example: `  # Human readable summary
  invoicegen validate rechnung.json

  # JSON summary
  invoicegen validate rechnung.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

// ValidationOutput is the JSON form of a validation run.
type ValidationOutput struct {
	InvoiceNumber string   `json:"invoice_number"`
	Filename      string   `json:"filename"`
	Items         int      `json:"items"`
	Subtotal      string   `json:"subtotal"`
	VAT           string   `json:"vat"`
	Total         string   `json:"total"`
	Warnings      []string `json:"warnings"`
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("json", false, "Output as JSON format")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("validate")

	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	inv, err := loadInvoice(cfg, args[0], cmd.InOrStdin())
	if err != nil {
		return handleCommandError(err, log)
	}

	gen := invoice.NewGenerator(cfg.LayoutConfig())
	output := ValidationOutput{
		InvoiceNumber: inv.Metadata.Number,
		Filename:      invoice.Filename(inv, time.Now()),
		Items:         len(inv.Items),
		Subtotal:      inv.Subtotal().StringFixed(money.Places),
		VAT:           inv.TotalVAT().StringFixed(money.Places),
		Total:         inv.Total().StringFixed(money.Places),
		Warnings:      gen.Review(inv),
	}
	if output.Warnings == nil {
		output.Warnings = []string{}
	}

	log.Info().
		Str("invoice_number", output.InvoiceNumber).
		Int("warnings", len(output.Warnings)).
		Msg("Invoice request validated")

	out := cmd.OutOrStdout()
	if jsonOutput {
		jsonData, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}

	labels := inv.Locale.Labels()
	fmt.Fprintf(out, "%s %s\n", labels.Title, output.InvoiceNumber)
	fmt.Fprintf(out, "Datei: %s\n", output.Filename)
	fmt.Fprintf(out, "Positionen: %d\n", output.Items)
	fmt.Fprintf(out, "%s: %s\n", labels.Total, money.FormatCurrency(inv.Total(), inv.Currency(), inv.Locale))
	if len(output.Warnings) == 0 {
		fmt.Fprintln(out, "Keine Hinweise.")
		return nil
	}
	printWarnings(out, output.Warnings)
	return nil
}
