// Package replay feeds recorded GPS tracks through the measurement engine.
// It is the reference host for the engine: it owns the single ingestion
// loop, optional real-time pacing and an end-of-run summary.
package replay

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/launchtimer/internal/engine"
	"github.com/banshee-data/launchtimer/internal/monitoring"
	"github.com/banshee-data/launchtimer/internal/units"
)

// ErrMissingCoordinate is returned for a record without latitude or
// longitude. Such records are never turned into samples.
var ErrMissingCoordinate = errors.New("missing coordinate")

// ErrMissingTimestamp is returned for a record without a timestamp.
var ErrMissingTimestamp = errors.New("missing timestamp")

// Format identifies a track file encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// FormatFromPath guesses the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("cannot infer track format from %q, use csv or jsonl", path)
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown track format %q, use csv or jsonl", s)
	}
}

// record is the decoded form shared by both encodings. Pointers
// distinguish absent fields from zero.
type record struct {
	TimestampMs *int64   `json:"timestamp_ms"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Speed       *float64 `json:"speed"`
	AccuracyM   *float64 `json:"accuracy_m"`
	Satellites  *int     `json:"satellites"`
}

func (r record) sample(speedUnits string) (engine.Sample, error) {
	if r.Lat == nil || r.Lon == nil {
		return engine.Sample{}, ErrMissingCoordinate
	}
	if r.TimestampMs == nil {
		return engine.Sample{}, ErrMissingTimestamp
	}
	var opts []engine.SampleOption
	if r.Speed != nil {
		opts = append(opts, engine.WithSpeed(units.ConvertToMPS(*r.Speed, speedUnits)))
	}
	if r.AccuracyM != nil {
		opts = append(opts, engine.WithAccuracy(*r.AccuracyM))
	}
	if r.Satellites != nil {
		opts = append(opts, engine.WithSatellites(*r.Satellites))
	}
	return engine.NewSample(*r.Lat, *r.Lon, *r.TimestampMs, opts...)
}

func checkUnits(speedUnits string) error {
	if !units.IsValid(speedUnits) {
		return fmt.Errorf("invalid speed units %q, must be one of: %s", speedUnits, units.GetValidUnitsString())
	}
	return nil
}

// ReadFile reads a whole track file.
func ReadFile(path string, format Format, speedUnits string) ([]engine.Sample, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open track: %w", err)
	}
	defer f.Close()

	var samples []engine.Sample
	switch format {
	case FormatCSV:
		samples, err = ReadCSV(f, speedUnits)
	case FormatJSONL:
		samples, err = ReadJSONL(f, speedUnits)
	default:
		return nil, fmt.Errorf("unknown track format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	monitoring.Logf("[Replay] read %d fixes from %s", len(samples), path)
	return samples, nil
}

// ReadCSV decodes a CSV track. The header row names the columns:
// timestamp_ms, lat and lon are required; speed, accuracy_m and satellites
// are optional, and a blank cell means the receiver did not report it.
func ReadCSV(r io.Reader, speedUnits string) ([]engine.Sample, error) {
	if err := checkUnits(speedUnits); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"timestamp_ms", "lat", "lon"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header missing %q column", required)
		}
	}

	var samples []engine.Sample
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)

		var rec record
		if rec.TimestampMs, err = intField(row, cols, "timestamp_ms"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Lat, err = floatField(row, cols, "lat"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Lon, err = floatField(row, cols, "lon"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.Speed, err = floatField(row, cols, "speed"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.AccuracyM, err = floatField(row, cols, "accuracy_m"); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		sats, err := intField(row, cols, "satellites")
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if sats != nil {
			n := int(*sats)
			rec.Satellites = &n
		}

		s, err := rec.sample(speedUnits)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func floatField(row []string, cols map[string]int, name string) (*float64, error) {
	raw := cell(row, cols, name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &v, nil
}

func intField(row []string, cols map[string]int, name string) (*int64, error) {
	raw := cell(row, cols, name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return &v, nil
}

// ReadJSONL decodes one JSON object per line using the same field names as
// the CSV header. Blank lines are skipped.
func ReadJSONL(r io.Reader, speedUnits string) ([]engine.Sample, error) {
	if err := checkUnits(speedUnits); err != nil {
		return nil, err
	}

	var samples []engine.Sample
	scan := bufio.NewScanner(r)
	line := 0
	for scan.Scan() {
		line++
		text := strings.TrimSpace(scan.Text())
		if text == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("line %d: failed to unmarshal JSON: %w", line, err)
		}
		s, err := rec.sample(speedUnits)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, s)
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSONL: %w", err)
	}
	return samples, nil
}
