// Command reverse prints the known address nearest to a point.
//
//	reverse [flags] latitude longitude [accuracy]
//
// Use "--" before the coordinates when one of them is negative.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"offline-geocoder/internal/config"
	"offline-geocoder/internal/feature"
	"offline-geocoder/internal/geocoder"
	"offline-geocoder/internal/geolonia"
	"offline-geocoder/internal/models"
	"offline-geocoder/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("reverse", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	config.RegisterFlags(flags)
	format := flags.String("format", "text", "output format (text, geojson)")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: reverse [flags] latitude longitude [accuracy]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 1
	}

	query, err := parseQuery(flags.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		flags.Usage()
		return 1
	}
	if *format != "text" && *format != "geojson" {
		fmt.Fprintf(stderr, "unsupported format %q\n", *format)
		return 1
	}

	configDir, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(configDir, flags)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log.Logger = cfg.NewLogger()

	gc := geocoder.New(cfg.Geocoder())
	stats, err := geolonia.LoadFile(ctx, cfg.DataFile, gc, cfg.LoadOptions())
	if err != nil {
		log.Error().Err(err).Str("file", cfg.DataFile).Msg("cannot load addresses")
		return 1
	}
	log.Debug().Int("loaded", stats.Loaded).Int("skipped", stats.Skipped).Msg("address table loaded")

	addr, found := gc.Reverse(query)
	if !found {
		fmt.Fprintln(stderr, "no address found near the specified coordinates")
		return 1
	}

	if err := write(stdout, addr, *format); err != nil {
		log.Error().Err(err).Msg("cannot write result")
		return 1
	}
	return 0
}

func parseQuery(args []string) (models.UserLocation, error) {
	if len(args) < 2 || len(args) > 3 {
		return models.UserLocation{}, fmt.Errorf("expected latitude, longitude and an optional accuracy")
	}

	lat, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return models.UserLocation{}, fmt.Errorf("invalid latitude %q", args[0])
	}
	lon, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return models.UserLocation{}, fmt.Errorf("invalid longitude %q", args[1])
	}

	accuracy := float64(service.DefaultAccuracy)
	if len(args) == 3 {
		accuracy, err = strconv.ParseFloat(args[2], 32)
		if err != nil || accuracy < 0 {
			return models.UserLocation{}, fmt.Errorf("invalid accuracy %q", args[2])
		}
	}

	return models.UserLocation{
		Location: models.Location{
			Latitude:  float32(lat),
			Longitude: float32(lon),
		},
		Accuracy: float32(accuracy),
	}, nil
}

func write(w io.Writer, addr models.Address, format string) error {
	if format == "geojson" {
		out, err := feature.Render(addr)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	}

	_, err := fmt.Fprintf(w, "Nearest address\n%s\n%v / %v\n",
		addr.FullName(), addr.Latitude, addr.Longitude)
	return err
}
