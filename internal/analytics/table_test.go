package analytics

import (
	"strings"
	"testing"
)

// Fixture mixing all four classifications: idling at the start, travel,
// overspeeding in the middle, then an ignition-off tail.
func tablePoints(t *testing.T) ([]GPSPoint, []OverspeedSegment) {
	t.Helper()
	points := []GPSPoint{
		spd(0, 0, IgnitionOn),
		spd(0, 60, IgnitionOn),
		spd(30, 120, IgnitionOn),
		spd(35, 180, IgnitionOn),
		spd(70, 240, IgnitionOn),
		spd(80, 300, IgnitionOn),
		spd(30, 360, IgnitionOn),
		spd(0, 420, IgnitionOff),
		spd(0, 480, IgnitionOff),
	}
	for i := range points {
		points[i].Latitude = 12.97 + float64(i)*0.002
		points[i].Longitude = 77.59 + float64(i)*0.002
	}
	overspeed := detectOverspeedSegments(points, 60)
	if len(overspeed) != 1 {
		t.Fatalf("fixture expected 1 overspeed segment, got %d", len(overspeed))
	}
	return points, overspeed
}

func TestBuildTableDataClassification(t *testing.T) {
	points, overspeed := tablePoints(t)
	data := BuildTableData(points, overspeed, 1, 10, DefaultConfig())

	// idling (0-60), travel (120-180), overspeeding (240-300),
	// travel (360, zero duration, dropped), stoppage (420-480)
	if data.TotalRows != 4 {
		t.Fatalf("expected 4 rows, got %d", data.TotalRows)
	}
	rows := data.Rows

	if rows[0].Summary.IdlingDuration != "1 Mins" {
		t.Fatalf("row 0 should be idling: %+v", rows[0].Summary)
	}
	if rows[0].Ignition != "ON" {
		t.Fatalf("ignition must be upper-cased: %s", rows[0].Ignition)
	}

	if rows[1].Summary.TravelDuration == "" || rows[1].Summary.Distance == "" {
		t.Fatalf("row 1 should be travel: %+v", rows[1].Summary)
	}
	if rows[1].Summary.OverspeedingDuration != "" {
		t.Fatalf("travel row must not carry overspeeding fields")
	}

	if rows[2].Summary.OverspeedingDuration != "1 Mins" {
		t.Fatalf("row 2 should be overspeeding: %+v", rows[2].Summary)
	}
	if rows[2].Summary.TravelDuration == "" || rows[2].Summary.Distance == "" {
		t.Fatalf("overspeeding row carries travel duration and distance too")
	}

	if rows[3].Summary.StoppedFrom != "1 Mins" {
		t.Fatalf("row 3 should be stoppage: %+v", rows[3].Summary)
	}
	if rows[3].Ignition != "OFF" {
		t.Fatalf("stoppage row ignition: %s", rows[3].Ignition)
	}
}

func TestBuildTableDataZeroDurationRows(t *testing.T) {
	// A lone moving sample between two stoppage runs creates a zero-duration
	// travel segment, which is dropped; the single-sample stoppage stays.
	points := []GPSPoint{
		spd(0, 0, IgnitionOff),
		spd(30, 60, IgnitionOn),
		spd(0, 120, IgnitionOff),
	}
	data := BuildTableData(points, nil, 1, 10, DefaultConfig())
	if data.TotalRows != 2 {
		t.Fatalf("expected the travel moment dropped, got %d rows", data.TotalRows)
	}
	for _, row := range data.Rows {
		if row.Summary.StoppedFrom == "" {
			t.Fatalf("expected only stoppage rows: %+v", row)
		}
	}
}

func TestBuildTableDataRowSpeedAndTimeRange(t *testing.T) {
	points, overspeed := tablePoints(t)
	data := BuildTableData(points, overspeed, 1, 10, DefaultConfig())

	// Overspeeding row averages its member samples: (70+80)/2.
	if data.Rows[2].Speed != "75.0 KM/H" {
		t.Fatalf("row speed: %s", data.Rows[2].Speed)
	}
	if !strings.Contains(data.Rows[2].TimeRange, " to ") {
		t.Fatalf("time range format: %s", data.Rows[2].TimeRange)
	}
	if !strings.HasSuffix(data.Rows[0].Point, "° E") {
		t.Fatalf("coordinate format: %s", data.Rows[0].Point)
	}
}

func TestBuildTableDataPagination(t *testing.T) {
	points, overspeed := tablePoints(t)

	page1 := BuildTableData(points, overspeed, 1, 2, DefaultConfig())
	page2 := BuildTableData(points, overspeed, 2, 2, DefaultConfig())
	page9 := BuildTableData(points, overspeed, 9, 2, DefaultConfig())

	if page1.TotalRows != page2.TotalRows || page1.TotalRows != page9.TotalRows {
		t.Fatalf("totalRows must be stable across pages")
	}
	if len(page1.Rows) != 2 || len(page2.Rows) != 2 {
		t.Fatalf("expected full pages of 2, got %d and %d", len(page1.Rows), len(page2.Rows))
	}
	if len(page9.Rows) != 0 {
		t.Fatalf("out-of-range page must be empty, got %d rows", len(page9.Rows))
	}
	if page1.Rows[0].TimeRange == page2.Rows[0].TimeRange {
		t.Fatalf("pages must not repeat rows")
	}
}

func TestBuildTableDataDefaults(t *testing.T) {
	points, overspeed := tablePoints(t)
	data := BuildTableData(points, overspeed, 0, 0, DefaultConfig())
	if data.CurrentPage != 1 || data.PageSize != 10 {
		t.Fatalf("expected defaults 1/10, got %d/%d", data.CurrentPage, data.PageSize)
	}
}

func TestBuildTableDataEmpty(t *testing.T) {
	data := BuildTableData(nil, nil, 1, 10, DefaultConfig())
	if data.TotalRows != 0 || len(data.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", data)
	}
}

func TestBuildTableDataPriorityStoppageOverIdling(t *testing.T) {
	// Ignition off with zero speed must classify as stoppage, not idling.
	points := []GPSPoint{
		spd(0, 0, IgnitionOff),
		spd(0, 60, IgnitionOff),
	}
	data := BuildTableData(points, nil, 1, 10, DefaultConfig())
	if data.TotalRows != 1 {
		t.Fatalf("expected 1 row, got %d", data.TotalRows)
	}
	if data.Rows[0].Summary.StoppedFrom == "" || data.Rows[0].Summary.IdlingDuration != "" {
		t.Fatalf("stoppage must win over idling: %+v", data.Rows[0].Summary)
	}
}
