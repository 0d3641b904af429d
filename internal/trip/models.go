package trip

import (
	"time"

	"backend-tripsight/internal/analytics"
)

// Trip is the persisted trip record: the enriched samples plus every
// derived list, stored verbatim at upload time. Render calls reshape this
// data without re-running detection.
type Trip struct {
	ID                string                       `json:"id"`
	UserID            string                       `json:"user_id"`
	Name              string                       `json:"tripName"`
	UploadDate        time.Time                    `json:"uploadDate"`
	Points            []analytics.GPSPoint         `json:"gpsPoints"`
	Summary           analytics.TripSummary        `json:"summary"`
	Stoppages         []analytics.Interval         `json:"stoppages"`
	Idlings           []analytics.Interval         `json:"idlings"`
	OverspeedSegments []analytics.OverspeedSegment `json:"overspeedSegments"`
	IsProcessed       bool                         `json:"isProcessed"`
	CreatedAt         time.Time                    `json:"created_at"`
}

// ListItem is the trimmed shape returned by the paginated trip list.
type ListItem struct {
	ID          string                `json:"id"`
	Name        string                `json:"tripName"`
	UploadDate  time.Time             `json:"uploadDate"`
	Summary     analytics.TripSummary `json:"summary"`
	IsProcessed bool                  `json:"isProcessed"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

func (t Trip) toAnalytics() analytics.Trip {
	return analytics.Trip{
		ID:                t.ID,
		Name:              t.Name,
		UploadDate:        t.UploadDate,
		Points:            t.Points,
		Summary:           t.Summary,
		Stoppages:         t.Stoppages,
		Idlings:           t.Idlings,
		OverspeedSegments: t.OverspeedSegments,
	}
}
