package geolonia

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"offline-geocoder/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrMissingHeader is returned when the input has no header line.
var ErrMissingHeader = errors.New("geolonia: missing header line")

// maxLineSize bounds a single record line.
const maxLineSize = 1 << 20

// Adder receives parsed addresses.
type Adder interface {
	Add(addr models.Address)
}

// LoadOptions controls how Load treats bad lines.
type LoadOptions struct {
	// SkipInvalid logs and skips lines that fail to parse instead of
	// aborting the load.
	SkipInvalid bool
}

// LoadStats summarizes a load.
type LoadStats struct {
	Loaded  int            `json:"loaded"`
	Skipped int            `json:"skipped"`
	Invalid map[string]int `json:"invalid,omitempty"` // by Reason
}

// LineError reports the line on which a record failed to parse.
type LineError struct {
	Line int // 1-based, counting the header
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Load reads the table from r, skipping its header line, and hands every
// valid record to dst.
func Load(ctx context.Context, r io.Reader, dst Adder, opts LoadOptions) (LoadStats, error) {
	stats := LoadStats{Invalid: map[string]int{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return stats, fmt.Errorf("geolonia: failed to read header: %w", err)
		}
		return stats, ErrMissingHeader
	}

	line := 1
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		addr, err := ParseAddress(scanner.Text())
		if err != nil {
			lineErr := &LineError{Line: line, Err: err}
			if !opts.SkipInvalid {
				return stats, lineErr
			}
			stats.Skipped++
			stats.Invalid[Reason(err)]++
			log.Warn().Err(err).Int("line", line).Msg("skipping invalid address record")
			continue
		}

		dst.Add(addr)
		stats.Loaded++
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("geolonia: failed to read line %d: %w", line+1, err)
	}

	return stats, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(ctx context.Context, path string, dst Adder, opts LoadOptions) (LoadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("geolonia: failed to open file: %w", err)
	}
	defer file.Close()

	return Load(ctx, file, dst, opts)
}
