package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"backend-tripsight/internal/analytics"
)

// ErrNoRows is returned for a file with a header but no data rows.
var ErrNoRows = errors.New("file contains no data rows")

var requiredColumns = []string{"latitude", "longitude", "timestamp", "ignition"}

// Timestamp layouts accepted in uploads, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseCSV reads an uploaded trip file into validated GPS samples. Headers
// are matched case-insensitively; every row must carry numeric coordinates,
// a parseable timestamp and an on/off ignition state. The engine downstream
// performs no re-validation, so bad rows are rejected here.
func ParseCSV(r io.Reader) ([]analytics.GPSPoint, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var points []analytics.GPSPoint
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		point, err := parseRow(record, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		points = append(points, point)
	}

	if len(points) == 0 {
		return nil, ErrNoRows
	}
	return points, nil
}

func parseRow(record []string, columns map[string]int) (analytics.GPSPoint, error) {
	field := func(name string) string {
		idx := columns[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	lat, err := strconv.ParseFloat(field("latitude"), 64)
	if err != nil {
		return analytics.GPSPoint{}, fmt.Errorf("invalid latitude %q", field("latitude"))
	}
	lon, err := strconv.ParseFloat(field("longitude"), 64)
	if err != nil {
		return analytics.GPSPoint{}, fmt.Errorf("invalid longitude %q", field("longitude"))
	}

	ts, err := parseTimestamp(field("timestamp"))
	if err != nil {
		return analytics.GPSPoint{}, err
	}

	ignition := strings.ToLower(field("ignition"))
	if ignition != analytics.IgnitionOn && ignition != analytics.IgnitionOff {
		return analytics.GPSPoint{}, fmt.Errorf("invalid ignition %q", field("ignition"))
	}

	return analytics.GPSPoint{
		Latitude:  lat,
		Longitude: lon,
		Timestamp: ts,
		Ignition:  ignition,
	}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
