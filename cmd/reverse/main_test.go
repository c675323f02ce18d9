package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"offline-geocoder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const table = `"都道府県コード","都道府県名","都道府県名カナ","都道府県名ローマ字","市区町村コード","市区町村名","市区町村名カナ","市区町村名ローマ字","大字町丁目コード","大字町丁目名","緯度","経度"
"13","東京都","トウキョウト","TOKYO","13101","千代田区","チヨダク","CHIYODA KU","131010001001","丸の内一丁目","35.681236","139.767125"
"13","東京都","トウキョウト","TOKYO","13109","品川区","シナガワク","SHINAGAWA KU","131090001001","北品川一丁目","35.625","139.75"
`

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "latest.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	path := writeTable(t, table)

	tests := []struct {
		name     string
		args     []string
		code     int
		stdout   string
		contains string
	}{
		{
			name:   "nearest address",
			args:   []string{"--data", path, "35.6813", "139.7670"},
			code:   0,
			stdout: "Nearest address\n東京都千代田区丸の内一丁目\n35.681236 / 139.76712\n",
		},
		{
			name:   "with accuracy",
			args:   []string{"--data", path, "35.6251", "139.7501", "50"},
			code:   0,
			stdout: "Nearest address\n東京都品川区北品川一丁目\n35.625 / 139.75\n",
		},
		{
			name:     "nothing within range",
			args:     []string{"--data", path, "--max-distance", "100", "35.65", "139.75"},
			code:     1,
			contains: "no address found",
		},
		{
			name:     "too few arguments",
			args:     []string{"--data", path, "35.68"},
			code:     1,
			contains: "usage: reverse",
		},
		{
			name:     "invalid latitude",
			args:     []string{"--data", path, "north", "139.76"},
			code:     1,
			contains: `invalid latitude "north"`,
		},
		{
			name:     "invalid accuracy",
			args:     []string{"--data", path, "35.68", "139.76", "wide"},
			code:     1,
			contains: "invalid accuracy",
		},
		{
			name:     "unsupported format",
			args:     []string{"--data", path, "--format", "xml", "35.68", "139.76"},
			code:     1,
			contains: "unsupported format",
		},
		{
			name: "missing data file",
			args: []string{"--data", filepath.Join(t.TempDir(), "missing.csv"), "35.68", "139.76"},
			code: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append([]string{"--config", t.TempDir(), "--log-level", "error"}, tt.args...)

			code := run(context.Background(), args, &stdout, &stderr)

			assert.Equal(t, tt.code, code)
			if tt.stdout != "" {
				assert.Equal(t, tt.stdout, stdout.String())
			}
			if tt.contains != "" {
				assert.Contains(t, stderr.String(), tt.contains)
			}
		})
	}
}

func TestRun_GeoJSON(t *testing.T) {
	path := writeTable(t, table)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--config", t.TempDir(), "--data", path, "--format", "geojson", "35.6813", "139.7670",
	}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	out := stdout.String()
	assert.Equal(t, "Feature", gjson.Get(out, "type").String())
	assert.Equal(t, "丸の内一丁目", gjson.Get(out, "properties.town").String())
}

func TestRun_InvalidLinePolicy(t *testing.T) {
	path := writeTable(t, table+`"13","東京都"`+"\n")

	var stdout, stderr bytes.Buffer
	args := []string{"--config", t.TempDir(), "--log-level", "error", "--data", path, "35.6813", "139.7670"}
	assert.Equal(t, 1, run(context.Background(), args, &stdout, &stderr))

	stdout.Reset()
	args = append([]string{"--skip-invalid"}, args...)
	assert.Equal(t, 0, run(context.Background(), args, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "丸の内一丁目")
}

func TestParseQuery(t *testing.T) {
	query, err := parseQuery([]string{"35.5", "139.25"})
	require.NoError(t, err)
	assert.Equal(t, models.UserLocation{
		Location: models.Location{Latitude: 35.5, Longitude: 139.25},
		Accuracy: 1,
	}, query)

	query, err = parseQuery([]string{"35.5", "139.25", "80"})
	require.NoError(t, err)
	assert.Equal(t, float32(80), query.Accuracy)

	_, err = parseQuery([]string{"35.5", "139.25", "1", "2"})
	assert.Error(t, err)

	_, err = parseQuery([]string{"35.5", "east"})
	assert.Error(t, err)

	_, err = parseQuery([]string{"35.5", "139.25", "-5"})
	assert.Error(t, err)
}
