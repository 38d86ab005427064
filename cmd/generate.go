package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"invoicegen/internal/config"
	"invoicegen/internal/invoice"
	"invoicegen/internal/logger"
	"invoicegen/internal/sheets"
	"invoicegen/internal/storage"
	"invoicegen/pkg/models"
)

var generateCmd = &cobra.Command{
	Use:   "generate [request.json]",
	Short: "Generate a PDF invoice from a JSON request",
	Long: `Generate a paginated PDF invoice from a JSON invoice request.

The request uses the flat field names of the invoice form (issuer_name,
client_name, invoice_number, items, iban, ...). Fields left empty fall back
to the defaults configured in the environment. Use "-" to read the request
from stdin.

The document is written to the current directory under its conventional
name (Rechnung_<number>_<YYYYMMDD>.pdf) unless --output or --out-dir is
given. Advisory warnings (missing IBAN, zero total, ...) are printed but
never stop generation.

Optional environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string
  GOOGLE_SHEET_URL - Spreadsheet for --register
  GOOGLE_SHEET_WORKSHEET - Ledger sheet name (default: Debitoren)
  GCS_OUTPUT_BUCKET - Bucket for --upload
  GCS_OUTPUT_FOLDER - Folder inside the bucket`,
	Example: `  # Generate into the current directory
  invoicegen generate rechnung.json

  # Write to a specific file
  invoicegen generate rechnung.json -o /tmp/rechnung.pdf

  # Stream the PDF to stdout
  cat rechnung.json | invoicegen generate - -o - > rechnung.pdf

  # Archive in Cloud Storage and register in the receivables ledger
  invoicegen generate rechnung.json --out-dir archive --upload --register`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("output", "o", "", `Output file path ("-" for stdout)`)
	generateCmd.Flags().String("out-dir", ".", "Directory for the generated document when --output is not set")
	generateCmd.Flags().Bool("register", false, "Register the invoice in the Google Sheets receivables ledger")
	generateCmd.Flags().Bool("upload", false, "Upload the document to the configured Cloud Storage bucket")
	generateCmd.Flags().Int("timeout", 60, "Timeout in seconds for Google API calls")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("generate")

	outputPath, _ := cmd.Flags().GetString("output")
	outDir, _ := cmd.Flags().GetString("out-dir")
	register, _ := cmd.Flags().GetBool("register")
	upload, _ := cmd.Flags().GetBool("upload")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if timeoutSecs <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Info().
		Str("request", args[0]).
		Str("output", outputPath).
		Bool("register", register).
		Bool("upload", upload).
		Msg("Starting invoice generation")

	inv, err := loadInvoice(cfg, args[0], cmd.InOrStdin())
	if err != nil {
		return handleCommandError(err, log)
	}

	var buf bytes.Buffer
	result, err := invoice.NewGenerator(cfg.LayoutConfig()).Generate(inv, &buf)
	if err != nil {
		return handleCommandError(err, log)
	}

	// Status lines go to stderr when the document itself is streamed to stdout.
	status := cmd.OutOrStdout()
	if outputPath == "-" {
		status = cmd.ErrOrStderr()
	}
	printWarnings(status, result.Warnings)

	ctx, cancel := createCommandContext(timeoutSecs, log)
	defer cancel()

	if outputPath == "-" {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return handleCommandError(fmt.Errorf("%w: %w", invoice.ErrSinkWrite, err), log)
		}
	} else {
		dir, name := outDir, result.Filename
		if outputPath != "" {
			dir, name = filepath.Dir(outputPath), filepath.Base(outputPath)
		}
		location, err := storeDocument(ctx, dir, name, buf.Bytes())
		if err != nil {
			return handleCommandError(err, log)
		}
		fmt.Fprintf(status, "Rechnung erstellt: %s (%d Seite(n))\n", location, result.Pages)
	}

	if upload {
		location, err := uploadDocument(ctx, cfg, result.Filename, buf.Bytes())
		if err != nil {
			return handleCommandError(err, log)
		}
		fmt.Fprintf(status, "Hochgeladen: %s\n", location)
	}

	if register {
		if err := registerInvoice(ctx, cfg, inv, result.Filename, log); err != nil {
			return handleCommandError(err, log)
		}
		fmt.Fprintf(status, "Im Blatt %q erfasst: %s\n", cfg.GoogleSheetWorksheet, inv.Metadata.Number)
	}

	log.Info().
		Str("filename", result.Filename).
		Int("pages", result.Pages).
		Int("warnings", len(result.Warnings)).
		Msg("Invoice generation completed successfully")

	return nil
}

func storeDocument(ctx context.Context, dir, name string, data []byte) (string, error) {
	store, err := storage.NewLocalStore(dir)
	if err != nil {
		return "", invoice.WrapGenerationError("Store", fmt.Errorf("%w: %w", invoice.ErrSinkWrite, err), "directory "+dir)
	}
	location, err := store.Put(ctx, name, data)
	if err != nil {
		return "", invoice.WrapGenerationError("Store", fmt.Errorf("%w: %w", invoice.ErrSinkWrite, err), "directory "+dir)
	}
	return location, nil
}

func uploadDocument(ctx context.Context, cfg *config.Config, name string, data []byte) (string, error) {
	if cfg.GCSOutputBucket == "" {
		return "", fmt.Errorf("GCS_OUTPUT_BUCKET environment variable is required for --upload")
	}
	store, err := storage.NewGCSStore(ctx, cfg.GCSOutputBucket, cfg.GCSOutputFolder)
	if err != nil {
		return "", fmt.Errorf("failed to initialize Cloud Storage: %w", err)
	}
	location, err := store.Put(ctx, name, data)
	if err != nil {
		return "", invoice.WrapGenerationError("Upload", err, "bucket "+cfg.GCSOutputBucket)
	}
	return location, nil
}

func registerInvoice(ctx context.Context, cfg *config.Config, inv *models.Invoice, filename string, log zerolog.Logger) error {
	if cfg.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL environment variable is required for --register")
	}
	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
	}

	entry, err := sheets.NewLedger(sheetsService, cfg.GoogleSheetWorksheet).Register(ctx, inv, filename)
	if err != nil {
		return err
	}

	log.Info().
		Str("invoice_number", entry.InvoiceNumber).
		Str("sheet", cfg.GoogleSheetWorksheet).
		Msg("Invoice registered")
	return nil
}

func printWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintf(w, "Hinweise (%d):\n", len(warnings))
	for _, warning := range warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}
}
