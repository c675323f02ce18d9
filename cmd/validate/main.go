// Command validate checks a Geolonia address CSV and reports how many lines
// would be loaded and why the others fail.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"offline-geocoder/internal/geolonia"
	"offline-geocoder/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

type counter int

func (c *counter) Add(models.Address) { *c++ }

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	file := flags.String("file", "", "Path to the CSV file to check")
	verbose := flags.Bool("verbose", false, "Log every invalid line")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *file == "" {
		fmt.Fprintln(stderr, "Error: --file flag is required")
		return 1
	}

	level := zerolog.ErrorLevel
	if *verbose {
		level = zerolog.WarnLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr}).Level(level)

	fmt.Fprintf(stdout, "Checking file: %s\n", *file)

	var n counter
	stats, err := geolonia.LoadFile(ctx, *file, &n, geolonia.LoadOptions{SkipInvalid: true})
	if err != nil {
		fmt.Fprintf(stderr, "Error reading CSV: %v\n", err)
		return 1
	}

	if err := verify(stats, int(n)); err != nil {
		fmt.Fprintf(stderr, "Error verifying file: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Valid records: %d\n", stats.Loaded)
	fmt.Fprintf(stdout, "Invalid records: %d\n", stats.Skipped)

	reasons := make([]string, 0, len(stats.Invalid))
	for reason := range stats.Invalid {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(stdout, "  %s: %d\n", reason, stats.Invalid[reason])
	}

	if stats.Skipped > 0 {
		return 1
	}
	return 0
}

func verify(stats geolonia.LoadStats, added int) error {
	if stats.Loaded != added {
		return fmt.Errorf("record count mismatch: expected %d, got %d", stats.Loaded, added)
	}
	if stats.Loaded == 0 && stats.Skipped == 0 {
		return fmt.Errorf("file has no records")
	}
	return nil
}
