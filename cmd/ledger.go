package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"invoicegen/internal/config"
	"invoicegen/internal/logger"
	"invoicegen/internal/money"
	"invoicegen/internal/sheets"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List invoices registered in the receivables ledger",
	Long: `List the invoices registered in the receivables (Debitoren) sheet, as
written by "generate --register".

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Google Sheets URL containing the ledger sheet`,
	Example: `  # All registered invoices
  invoicegen ledger

  # Only open receivables
  invoicegen ledger --status OFFEN`,
	RunE: runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().String("status", "", "Only list entries with this status")
	ledgerCmd.Flags().Int("timeout", 60, "Timeout in seconds for Google API calls")
}

func runLedger(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ledger-cmd")

	status, _ := cmd.Flags().GetString("status")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required")
	}

	ctx, cancel := createCommandContext(timeoutSecs, log)
	defer cancel()

	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
	}

	entries, err := sheets.NewLedger(sheetsService, cfg.GoogleSheetWorksheet).Entries(ctx)
	if err != nil {
		return handleCommandError(err, log)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-10s %-30s %12s %-8s\n", "Rechnungsnr", "Datum", "Kunde", "Brutto", "Status")
	fmt.Fprintln(out, strings.Repeat("-", 84))

	total := decimal.Zero
	var listed int
	for _, e := range entries {
		if status != "" && !strings.EqualFold(e.Status, status) {
			continue
		}
		date := ""
		if !e.Date.IsZero() {
			date = e.Date.Format("02.01.2006")
		}
		fmt.Fprintf(out, "%-20s %-10s %-30s %12s %-8s\n",
			e.InvoiceNumber, date, truncate(e.Customer, 30),
			e.GrossAmount.StringFixed(money.Places)+" "+e.Currency, e.Status)
		total = total.Add(e.GrossAmount)
		listed++
	}

	fmt.Fprintln(out, strings.Repeat("-", 84))
	fmt.Fprintf(out, "%d Rechnung(en), Summe brutto %s\n", listed, total.StringFixed(money.Places))

	log.Info().
		Int("entries", len(entries)).
		Int("listed", listed).
		Msg("Ledger listed")

	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
