package analytics

import "time"

// Path segment classifications.
const (
	SegmentNormal       = "normal"
	SegmentOverspeeding = "overspeeding"
)

// Marker types.
const (
	MarkerStart    = "start"
	MarkerEnd      = "end"
	MarkerStoppage = "stoppage"
	MarkerIdling   = "idling"
)

// DefaultZoom is the initial map zoom used when rendering a single trip.
const DefaultZoom = 13

// Colors carries every color token the renderer emits, so alternate schemes
// can be injected in tests or when embedding.
type Colors struct {
	Normal    string
	Overspeed string
	StartEnd  string
	Stoppage  string
	Idling    string
	// Palette is cycled by trip index in multi-trip overlays.
	Palette []string
}

func DefaultColors() Colors {
	return Colors{
		Normal:    "blue",
		Overspeed: "cyan",
		StartEnd:  "red",
		Stoppage:  "blue",
		Idling:    "magenta",
		Palette:   []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899"},
	}
}

// PathSegment is one polyline of the rendered trip. Consecutive samples
// sharing the same classification belong to the same segment, so segments
// partition the full point list.
type PathSegment struct {
	Points    []Location `json:"points"`
	Color     string     `json:"color"`
	Type      string     `json:"type"`
	StartTime time.Time  `json:"startTime"`
	EndTime   time.Time  `json:"endTime"`
	MaxSpeed  float64    `json:"maxSpeed"`
}

type Marker struct {
	Type      string     `json:"type"`
	Location  Location   `json:"location"`
	Label     string     `json:"label"`
	Duration  float64    `json:"duration,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Color     string     `json:"color"`
}

type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

type MapData struct {
	Center       Location      `json:"center"`
	Zoom         int           `json:"zoom"`
	Bounds       Bounds        `json:"bounds"`
	PathSegments []PathSegment `json:"pathSegments"`
	Markers      []Marker      `json:"markers"`
}

// FormattedSummary is the human-readable trip total block shown above the
// map and table.
type FormattedSummary struct {
	TotalDistanceTravelled string `json:"totalDistanceTravelled"`
	TotalTravelledDuration string `json:"totalTravelledDuration"`
	OverspeedingDuration   string `json:"overspeedingDuration"`
	OverspeedingDistance   string `json:"overspeedingDistance"`
	StoppedDuration        string `json:"stoppedDuration"`
	IdlingDuration         string `json:"idlingDuration"`
}

// Visualization is the full render payload for one trip.
type Visualization struct {
	TripID     string           `json:"tripId"`
	TripName   string           `json:"tripName"`
	UploadDate time.Time        `json:"uploadDate"`
	Summary    FormattedSummary `json:"summary"`
	MapData    MapData          `json:"mapData"`
	TableData  TableData        `json:"tableData"`
}

// BuildVisualization derives the map, table and formatted summary for a
// stored trip. It only reshapes persisted data; no event detection runs.
func BuildVisualization(trip Trip, page, pageSize int, cfg Config, colors Colors) Visualization {
	bounds := calculateBounds(trip.Points)
	return Visualization{
		TripID:     trip.ID,
		TripName:   trip.Name,
		UploadDate: trip.UploadDate,
		Summary:    BuildFormattedSummary(trip, cfg),
		MapData: MapData{
			Center: Location{
				Latitude:  (bounds.North + bounds.South) / 2,
				Longitude: (bounds.East + bounds.West) / 2,
			},
			Zoom:         DefaultZoom,
			Bounds:       bounds,
			PathSegments: BuildPathSegments(trip.Points, trip.OverspeedSegments, colors),
			Markers:      BuildMarkers(trip, colors),
		},
		TableData: BuildTableData(trip.Points, trip.OverspeedSegments, page, pageSize, cfg),
	}
}

// BuildPathSegments splits the point list into alternating normal and
// overspeeding polylines. A point is overspeeding when its timestamp falls
// inside any detected overspeed interval, so segment boundaries line up with
// the stored intervals rather than raw per-point speeds.
func BuildPathSegments(points []GPSPoint, overspeed []OverspeedSegment, colors Colors) []PathSegment {
	segments := []PathSegment{}
	if len(points) < 2 {
		return segments
	}

	member := overspeedMembership(points, overspeed)

	var current *PathSegment
	for _, p := range points {
		segType := SegmentNormal
		if member[p.Timestamp.UnixMilli()] {
			segType = SegmentOverspeeding
		}

		if current == nil || current.Type != segType {
			if current != nil {
				segments = append(segments, *current)
			}
			color := colors.Normal
			if segType == SegmentOverspeeding {
				color = colors.Overspeed
			}
			current = &PathSegment{
				Points:    []Location{{Latitude: p.Latitude, Longitude: p.Longitude}},
				Color:     color,
				Type:      segType,
				StartTime: p.Timestamp,
				EndTime:   p.Timestamp,
				MaxSpeed:  p.Speed,
			}
		} else {
			current.Points = append(current.Points, Location{Latitude: p.Latitude, Longitude: p.Longitude})
			current.EndTime = p.Timestamp
			if p.Speed > current.MaxSpeed {
				current.MaxSpeed = p.Speed
			}
		}
	}
	if current != nil {
		segments = append(segments, *current)
	}
	return segments
}

// overspeedMembership collects the timestamps of points lying within any
// overspeed interval, inclusive at both ends.
func overspeedMembership(points []GPSPoint, overspeed []OverspeedSegment) map[int64]bool {
	member := map[int64]bool{}
	for _, seg := range overspeed {
		for _, p := range points {
			if !p.Timestamp.Before(seg.StartTime) && !p.Timestamp.After(seg.EndTime) {
				member[p.Timestamp.UnixMilli()] = true
			}
		}
	}
	return member
}

// BuildMarkers places start/end pins plus one pin per stoppage and idling
// interval at its anchor location.
func BuildMarkers(trip Trip, colors Colors) []Marker {
	markers := []Marker{}
	points := trip.Points
	if len(points) == 0 {
		return markers
	}

	markers = append(markers, Marker{
		Type:     MarkerStart,
		Location: Location{Latitude: points[0].Latitude, Longitude: points[0].Longitude},
		Label:    "Start",
		Color:    colors.StartEnd,
	})
	last := points[len(points)-1]
	markers = append(markers, Marker{
		Type:     MarkerEnd,
		Location: Location{Latitude: last.Latitude, Longitude: last.Longitude},
		Label:    "End",
		Color:    colors.StartEnd,
	})

	for _, stop := range trip.Stoppages {
		start, end := stop.StartTime, stop.EndTime
		markers = append(markers, Marker{
			Type:      MarkerStoppage,
			Location:  stop.Location,
			Label:     "Stopped for " + FormatDuration(stop.Duration),
			Duration:  stop.Duration,
			StartTime: &start,
			EndTime:   &end,
			Color:     colors.Stoppage,
		})
	}

	for _, idle := range trip.Idlings {
		start, end := idle.StartTime, idle.EndTime
		markers = append(markers, Marker{
			Type:      MarkerIdling,
			Location:  idle.Location,
			Label:     "Idle for " + FormatDuration(idle.Duration),
			Duration:  idle.Duration,
			StartTime: &start,
			EndTime:   &end,
			Color:     colors.Idling,
		})
	}
	return markers
}

// BuildFormattedSummary formats the stored totals plus two render-time
// derivations: overspeeding duration summed over the stored intervals, and
// overspeeding distance accumulated over sample pairs whose arriving sample
// exceeds the threshold.
func BuildFormattedSummary(trip Trip, cfg Config) FormattedSummary {
	overspeedDuration := 0.0
	for _, seg := range trip.OverspeedSegments {
		overspeedDuration += seg.EndTime.Sub(seg.StartTime).Seconds()
	}

	overspeedDistance := 0.0
	for i := 1; i < len(trip.Points); i++ {
		if trip.Points[i].Speed > cfg.OverspeedThresholdKmh {
			overspeedDistance += pointDistance(trip.Points[i-1], trip.Points[i])
		}
	}

	return FormattedSummary{
		TotalDistanceTravelled: FormatDistance(trip.Summary.TotalDistance),
		TotalTravelledDuration: FormatDuration(trip.Summary.TotalDuration),
		OverspeedingDuration:   FormatDuration(overspeedDuration),
		OverspeedingDistance:   FormatDistance(overspeedDistance),
		StoppedDuration:        FormatDuration(trip.Summary.StoppageDuration),
		IdlingDuration:         FormatDuration(trip.Summary.IdlingDuration),
	}
}

func calculateBounds(points []GPSPoint) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{
		North: points[0].Latitude,
		South: points[0].Latitude,
		East:  points[0].Longitude,
		West:  points[0].Longitude,
	}
	for _, p := range points[1:] {
		if p.Latitude > b.North {
			b.North = p.Latitude
		}
		if p.Latitude < b.South {
			b.South = p.Latitude
		}
		if p.Longitude > b.East {
			b.East = p.Longitude
		}
		if p.Longitude < b.West {
			b.West = p.Longitude
		}
	}
	return b
}
