package main

import (
	"context"
	"os"

	"offline-geocoder/internal/config"
	"offline-geocoder/internal/geocoder"
	"offline-geocoder/internal/geolonia"
	"offline-geocoder/internal/handler"
	"offline-geocoder/internal/metrics"
	"offline-geocoder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("api", pflag.ExitOnError)
	config.RegisterFlags(flags)
	flags.String("addr", "", "listen address")
	flags.Parse(os.Args[1:])

	configDir, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(configDir, flags)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	log.Logger = cfg.NewLogger()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot register metrics")
	}

	// Address table
	gc := geocoder.New(cfg.Geocoder())
	stats, err := geolonia.LoadFile(context.Background(), cfg.DataFile, gc, cfg.LoadOptions())
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.DataFile).Msg("cannot load addresses")
	}
	m.RecordLoad(gc.Len(), stats.Invalid)
	log.Info().
		Str("file", cfg.DataFile).
		Int("loaded", stats.Loaded).
		Int("skipped", stats.Skipped).
		Msg("address table loaded")

	// Initialize layers
	reverseGeocodeService := service.NewReverseGeoCodeService(gc, m)
	reverseGeocodeHandler := handler.NewReverseGeocodeHandler(reverseGeocodeService)

	r := gin.Default()

	r.GET("/health", handler.Health(gc.Len()))
	r.GET("/reverse-geocode", reverseGeocodeHandler.ReverseGeocode)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	log.Info().Str("addr", cfg.ServerAddress).Msg("starting server")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
