package analytics

import "errors"

// ErrNoTrips is returned when a multi-trip overlay is requested for an
// empty trip set.
var ErrNoTrips = errors.New("no trips to visualize")

// MultiTripView is one trip's layer in a multi-trip overlay.
type MultiTripView struct {
	TripID       string           `json:"tripId"`
	TripName     string           `json:"tripName"`
	Color        string           `json:"color"`
	PathSegments []PathSegment    `json:"pathSegments"`
	Markers      []Marker         `json:"markers"`
	Summary      FormattedSummary `json:"summary"`
}

type MultiVisualization struct {
	Trips     []MultiTripView `json:"trips"`
	MapBounds Bounds          `json:"mapBounds"`
}

// BuildMultiVisualization overlays several trips on one map. Each trip takes
// a palette color by index; overspeeding segments keep the fixed overspeed
// color so the highlight survives recoloring. Bounds cover the union of all
// trips' points.
func BuildMultiVisualization(trips []Trip, cfg Config, colors Colors) (MultiVisualization, error) {
	if len(trips) == 0 {
		return MultiVisualization{}, ErrNoTrips
	}

	var allPoints []GPSPoint
	for _, trip := range trips {
		allPoints = append(allPoints, trip.Points...)
	}

	views := make([]MultiTripView, 0, len(trips))
	for i, trip := range trips {
		tripColor := colors.Palette[i%len(colors.Palette)]

		segments := BuildPathSegments(trip.Points, trip.OverspeedSegments, colors)
		for j := range segments {
			if segments[j].Type == SegmentOverspeeding {
				segments[j].Color = colors.Overspeed
			} else {
				segments[j].Color = tripColor
			}
		}

		views = append(views, MultiTripView{
			TripID:       trip.ID,
			TripName:     trip.Name,
			Color:        tripColor,
			PathSegments: segments,
			Markers:      BuildMarkers(trip, colors),
			Summary:      BuildFormattedSummary(trip, cfg),
		})
	}

	return MultiVisualization{
		Trips:     views,
		MapBounds: calculateBounds(allPoints),
	}, nil
}
