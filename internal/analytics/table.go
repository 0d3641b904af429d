package analytics

import (
	"strings"
	"time"
)

// Table row classifications, in priority order.
const (
	eventStoppage     = "stoppage"
	eventIdling       = "idling"
	eventOverspeeding = "overspeeding"
	eventTravel       = "travel"
)

// RowSummary is the per-row detail block. Exactly one group of fields is
// populated, selected by the row's classification.
type RowSummary struct {
	TravelDuration       string `json:"travelDuration,omitempty"`
	StoppedFrom          string `json:"stoppedFrom,omitempty"`
	Distance             string `json:"distance,omitempty"`
	OverspeedingDuration string `json:"overspeedingDuration,omitempty"`
	IdlingDuration       string `json:"idlingDuration,omitempty"`
}

type TableRow struct {
	TimeRange string     `json:"timeRange"`
	Point     string     `json:"point"`
	Ignition  string     `json:"ignition"`
	Speed     string     `json:"speed"`
	Summary   RowSummary `json:"summary"`
}

type TableData struct {
	Rows        []TableRow `json:"rows"`
	TotalRows   int        `json:"totalRows"`
	CurrentPage int        `json:"currentPage"`
	PageSize    int        `json:"pageSize"`
}

// eventSegment is a run of consecutive samples sharing one classification.
type eventSegment struct {
	kind       string
	startIndex int
	endIndex   int
	startTime  time.Time
	endTime    time.Time
	distance   float64
	duration   float64
	location   Location
}

// BuildTableData classifies every sample (stoppage beats idling beats
// overspeeding beats travel), groups consecutive same-class samples into
// rows and paginates the result. This is a second segmentation independent
// of the detected intervals: the table partitions the whole trip with no
// gaps, while the intervals only label notable spans.
func BuildTableData(points []GPSPoint, overspeed []OverspeedSegment, page, pageSize int, cfg Config) TableData {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	if len(points) == 0 {
		return TableData{Rows: []TableRow{}, TotalRows: 0, CurrentPage: page, PageSize: pageSize}
	}

	segments := classifySegments(points, overspeed, cfg)

	rows := []TableRow{}
	for _, seg := range segments {
		// Momentary travel or overspeeding runs carry no information; a
		// single-sample stoppage or idling moment is still worth a row.
		if seg.duration == 0 && seg.kind != eventIdling && seg.kind != eventStoppage {
			continue
		}

		startPoint := points[seg.startIndex]
		avgSpeed := startPoint.Speed
		if seg.endIndex > seg.startIndex {
			sum := 0.0
			for i := seg.startIndex; i <= seg.endIndex; i++ {
				sum += points[i].Speed
			}
			avgSpeed = sum / float64(seg.endIndex-seg.startIndex+1)
		}

		rows = append(rows, TableRow{
			TimeRange: FormatTimeRange(seg.startTime, seg.endTime),
			Point:     FormatCoordinate(seg.location.Latitude, seg.location.Longitude),
			Ignition:  strings.ToUpper(startPoint.Ignition),
			Speed:     FormatSpeed(avgSpeed),
			Summary:   rowSummary(seg),
		})
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(rows) {
		start = len(rows)
	}
	if end > len(rows) {
		end = len(rows)
	}

	return TableData{
		Rows:        rows[start:end],
		TotalRows:   len(rows),
		CurrentPage: page,
		PageSize:    pageSize,
	}
}

func classifySegments(points []GPSPoint, overspeed []OverspeedSegment, cfg Config) []eventSegment {
	inOverspeed := func(ts time.Time) bool {
		for _, seg := range overspeed {
			if !ts.Before(seg.StartTime) && !ts.After(seg.EndTime) {
				return true
			}
		}
		return false
	}

	segments := []eventSegment{}
	var current *eventSegment

	for i, p := range points {
		var kind string
		switch {
		case p.Ignition == IgnitionOff:
			kind = eventStoppage
		case p.Speed < cfg.IdleSpeedThresholdKmh:
			kind = eventIdling
		case inOverspeed(p.Timestamp):
			kind = eventOverspeeding
		default:
			kind = eventTravel
		}

		if current == nil || current.kind != kind {
			if current != nil {
				segments = append(segments, *current)
			}
			current = &eventSegment{
				kind:       kind,
				startIndex: i,
				endIndex:   i,
				startTime:  p.Timestamp,
				endTime:    p.Timestamp,
				location:   Location{Latitude: p.Latitude, Longitude: p.Longitude},
			}
		} else {
			current.endIndex = i
			current.endTime = p.Timestamp
			if i > 0 {
				current.distance += pointDistance(points[i-1], points[i])
			}
		}
	}
	if current != nil {
		segments = append(segments, *current)
	}

	for i := range segments {
		segments[i].duration = segments[i].endTime.Sub(segments[i].startTime).Seconds()
	}
	return segments
}

func rowSummary(seg eventSegment) RowSummary {
	switch seg.kind {
	case eventStoppage:
		return RowSummary{StoppedFrom: FormatDuration(seg.duration)}
	case eventIdling:
		return RowSummary{IdlingDuration: FormatDuration(seg.duration)}
	case eventOverspeeding:
		return RowSummary{
			TravelDuration:       FormatDuration(seg.duration),
			Distance:             FormatDistance(seg.distance),
			OverspeedingDuration: FormatDuration(seg.duration),
		}
	default:
		return RowSummary{
			TravelDuration: FormatDuration(seg.duration),
			Distance:       FormatDistance(seg.distance),
		}
	}
}
