// Package geocoder finds the nearest known address to a point by scanning an
// in-memory address table.
package geocoder

import (
	"runtime"
	"sync"

	"offline-geocoder/internal/models"
)

// minChunk is the smallest partition handed to a worker. Tables shorter than
// this are scanned on the calling goroutine.
const minChunk = 4096

// Config holds the search thresholds. Both distances are in meters and must
// not be negative.
type Config struct {
	// MaxAccuracy caps the accuracy claimed by a query.
	MaxAccuracy float32 `json:"max_accuracy"`

	// MaxDistance is the exclusive upper bound on the distance of a match.
	MaxDistance float32 `json:"max_distance"`

	// Workers bounds the goroutines used by Reverse. Zero or less means
	// runtime.GOMAXPROCS(0).
	Workers int `json:"workers"`
}

// ReverseGeocoder is an append-only address table.
//
// Add must not be called concurrently with Reverse. Concurrent Reverse calls
// are safe.
type ReverseGeocoder struct {
	config    Config
	addresses []models.Address
}

// New creates an empty geocoder.
func New(config Config) *ReverseGeocoder {
	return &ReverseGeocoder{config: config}
}

// Config returns the configuration the geocoder was created with.
func (g *ReverseGeocoder) Config() Config {
	return g.config
}

// Add appends an address. No deduplication is done.
func (g *ReverseGeocoder) Add(addr models.Address) {
	g.addresses = append(g.addresses, addr)
}

// Len returns the number of stored addresses.
func (g *ReverseGeocoder) Len() int {
	return len(g.addresses)
}

// ClampAccuracy limits accuracy to the configured maximum.
func (g *ReverseGeocoder) ClampAccuracy(accuracy float32) float32 {
	if accuracy < g.config.MaxAccuracy {
		return accuracy
	}
	return g.config.MaxAccuracy
}

// Reverse returns a copy of the stored address closest to loc, or false when
// none lies strictly within MaxDistance. Equidistant addresses resolve to the
// one added first.
func (g *ReverseGeocoder) Reverse(loc models.UserLocation) (models.Address, bool) {
	query := models.UserLocation{
		Location: loc.Location,
		// Clamped but not yet used to narrow the search.
		Accuracy: g.ClampAccuracy(loc.Accuracy),
	}

	best := g.search(query.Location)
	if !best.found() {
		return models.Address{}, false
	}
	return g.addresses[best.index], true
}

func (g *ReverseGeocoder) search(loc models.Location) candidate {
	n := len(g.addresses)
	workers := g.workers(n)
	if workers <= 1 {
		return g.scan(loc, 0, n)
	}

	partials := make([]candidate, workers)
	size := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * size
		end := min(start+size, n)
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			partials[w] = g.scan(loc, start, end)
		}(w, start, end)
	}
	wg.Wait()

	best := noCandidate
	for _, c := range partials {
		best = nearer(best, c)
	}
	return best
}

// scan returns the nearest address in g.addresses[start:end] that passes the
// distance filter.
func (g *ReverseGeocoder) scan(loc models.Location, start, end int) candidate {
	best := noCandidate
	for i := start; i < end; i++ {
		dist := g.addresses[i].Distance(loc)
		// Written as a negation so that NaN is filtered out.
		if !(dist < g.config.MaxDistance) {
			continue
		}
		best = nearer(best, candidate{index: i, distance: dist})
	}
	return best
}

func (g *ReverseGeocoder) workers(n int) int {
	workers := g.config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return min(workers, n/minChunk)
}
