// Command seed loads books from a JSON file into the configured store.
//
//	seed -file books.json [-dry-run] [-json]
//
// The file holds an array of create payloads, each validated exactly like
// POST /api/books.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/forgo/shelf/internal/config"
	"github.com/forgo/shelf/internal/handler"
	"github.com/forgo/shelf/internal/model"
	"github.com/forgo/shelf/internal/repository"
	"github.com/forgo/shelf/internal/service"
)

// Report summarizes a seed run
type Report struct {
	Created  int           `json:"created"`
	Rejected int           `json:"rejected"`
	Failures []SeedFailure `json:"failures,omitempty"`
}

// SeedFailure describes one payload that could not be created
type SeedFailure struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

func main() {
	file := flag.String("file", "books.json", "Path to a JSON array of books")
	dryRun := flag.Bool("dry-run", false, "Validate against an in-memory store without writing")
	outputJSON := flag.Bool("json", false, "Output the report as JSON")

	flag.Parse()

	payloads, err := readPayloads(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *file, err)
		os.Exit(1)
	}

	ctx := context.Background()

	var store repository.BookStore
	var opCfg config.StoreConfig
	if *dryRun {
		store = repository.NewMemoryBookRepository()
	} else {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		opCfg = cfg.Store
		store, err = repository.OpenWithRetry(ctx, cfg.Database(), cfg.Store.ConnectRetries, cfg.Store.ConnectBackoff)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting to store: %v\n", err)
			os.Exit(1)
		}
	}

	books := service.NewBookService(service.BookServiceConfig{
		BookRepo:  store,
		OpTimeout: opCfg.OpTimeout,
	})

	os.Exit(run(ctx, store, books, payloads, os.Stdout, *outputJSON, *dryRun))
}

// run seeds the payloads, prints the report and closes the store. It returns
// the process exit status: 2 when any payload was rejected.
func run(ctx context.Context, store repository.BookStore, books *service.BookService,
	payloads []model.BookRequest, out io.Writer, outputJSON, dryRun bool) int {
	report := seed(ctx, books, payloads)

	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printReport(out, report, dryRun)
	}

	code := 0
	if report.Rejected > 0 {
		code = 2
	}
	if err := store.Close(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing store: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	return code
}

func readPayloads(path string) ([]model.BookRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payloads []model.BookRequest
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("expected a JSON array of books: %w", err)
	}
	return payloads, nil
}

// seed runs every payload through CreateBook and tallies the outcome
func seed(ctx context.Context, books *service.BookService, payloads []model.BookRequest) Report {
	var report Report
	for i := range payloads {
		if _, err := books.CreateBook(ctx, &payloads[i]); err != nil {
			report.Rejected++
			report.Failures = append(report.Failures, SeedFailure{
				Index:   i,
				Message: handler.MapServiceError(err).Message,
			})
			continue
		}
		report.Created++
	}
	return report
}

func printReport(w io.Writer, report Report, dryRun bool) {
	title := "Seed Complete"
	if dryRun {
		title = "Seed Dry Run"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Created:  %d\n", report.Created)
	fmt.Fprintf(w, "Rejected: %d\n", report.Rejected)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  #%d: %s\n", f.Index, f.Message)
	}
}
