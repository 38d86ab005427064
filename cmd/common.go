package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"invoicegen/internal/config"
	"invoicegen/internal/invoice"
	"invoicegen/internal/sheets"
	"invoicegen/pkg/models"
)

// maxRequestSize bounds the JSON request read from a file or stdin.
const maxRequestSize = 4 << 20

// readRequest reads the request JSON from path, or from stdin for "-".
func readRequest(path string, stdin io.Reader) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("invoice request file not found: %s", path)
			}
			return nil, fmt.Errorf("failed to open invoice request: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxRequestSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice request: %w", err)
	}
	if len(data) > maxRequestSize {
		return nil, fmt.Errorf("invoice request too large (maximum %d bytes)", maxRequestSize)
	}
	return data, nil
}

// loadInvoice parses and decodes a request file using the configured defaults.
func loadInvoice(cfg *config.Config, path string, stdin io.Reader) (*models.Invoice, error) {
	data, err := readRequest(path, stdin)
	if err != nil {
		return nil, err
	}
	req, err := invoice.ParseRequest(data)
	if err != nil {
		return nil, err
	}
	return invoice.Decode(req, cfg.InvoiceDefaults(), time.Now())
}

// createCommandContext creates a context with timeout and signal handling
func createCommandContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleCommandError provides user-friendly messages for common failures
func handleCommandError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Invoice command failed")

	switch {
	case errors.Is(err, invoice.ErrInvalidInput):
		return fmt.Errorf("invalid invoice request: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("operation timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case errors.Is(err, sheets.ErrDuplicateInvoice):
		return fmt.Errorf("the receivables ledger already contains this invoice number: %w", err)
	case errors.Is(err, invoice.ErrSinkWrite):
		return fmt.Errorf("the invoice document could not be written: %w", err)
	case errors.Is(err, invoice.ErrLayoutFailed):
		return fmt.Errorf("the invoice layout failed: %w", err)
	default:
		return err
	}
}
