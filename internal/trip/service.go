package trip

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"backend-tripsight/internal/analytics"
	"backend-tripsight/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound covers both a missing trip and one owned by another user.
var ErrNotFound = errors.New("trip not found")

type Service struct {
	db     db.Querier
	cache  *Cache
	cfg    analytics.Config
	colors analytics.Colors
}

func NewService(querier db.Querier, cache *Cache) *Service {
	return &Service{
		db:     querier,
		cache:  cache,
		cfg:    analytics.DefaultConfig(),
		colors: analytics.DefaultColors(),
	}
}

// Upload runs the analytics engine over validated samples and persists the
// enriched trip in one shot. Derived data is never patched afterwards; a
// re-upload replaces it wholesale.
func (s *Service) Upload(ctx context.Context, userID, name string, points []analytics.GPSPoint) (Trip, error) {
	result := analytics.ComputeTrip(points, s.cfg)

	trip := Trip{
		ID:                uuid.NewString(),
		UserID:            userID,
		Name:              name,
		UploadDate:        time.Now().UTC(),
		Points:            result.Points,
		Summary:           result.Summary,
		Stoppages:         result.Stoppages,
		Idlings:           result.Idlings,
		OverspeedSegments: result.OverspeedSegments,
		IsProcessed:       true,
	}

	pointsJSON, err := json.Marshal(trip.Points)
	if err != nil {
		return Trip{}, err
	}
	summaryJSON, err := json.Marshal(trip.Summary)
	if err != nil {
		return Trip{}, err
	}
	stoppagesJSON, err := json.Marshal(trip.Stoppages)
	if err != nil {
		return Trip{}, err
	}
	idlingsJSON, err := json.Marshal(trip.Idlings)
	if err != nil {
		return Trip{}, err
	}
	overspeedJSON, err := json.Marshal(trip.OverspeedSegments)
	if err != nil {
		return Trip{}, err
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO trips (id, user_id, trip_name, upload_date, gps_points, summary, stoppages, idlings, overspeed_segments, is_processed)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at
	`, trip.ID, trip.UserID, trip.Name, trip.UploadDate, pointsJSON, summaryJSON, stoppagesJSON, idlingsJSON, overspeedJSON, trip.IsProcessed)
	if err := row.Scan(&trip.CreatedAt); err != nil {
		return Trip{}, err
	}
	return trip, nil
}

func (s *Service) List(ctx context.Context, userID string, page, limit int) ([]ListItem, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var totalCount int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE user_id=$1`, userID).Scan(&totalCount); err != nil {
		return nil, Pagination{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, trip_name, upload_date, summary, is_processed
		FROM trips WHERE user_id=$1
		ORDER BY upload_date DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, err
	}
	defer rows.Close()

	items := []ListItem{}
	for rows.Next() {
		var item ListItem
		var summaryJSON []byte
		if err := rows.Scan(&item.ID, &item.Name, &item.UploadDate, &summaryJSON, &item.IsProcessed); err != nil {
			return nil, Pagination{}, err
		}
		if err := json.Unmarshal(summaryJSON, &item.Summary); err != nil {
			return nil, Pagination{}, err
		}
		items = append(items, item)
	}

	totalPages := (totalCount + limit - 1) / limit
	return items, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

func (s *Service) Get(ctx context.Context, tripID, userID string) (Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, trip_name, upload_date, gps_points, summary, stoppages, idlings, overspeed_segments, is_processed, created_at
		FROM trips WHERE id=$1 AND user_id=$2
	`, tripID, userID)

	trip, err := scanTrip(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Trip{}, ErrNotFound
	}
	if err != nil {
		return Trip{}, err
	}
	return trip, nil
}

func (s *Service) Delete(ctx context.Context, tripID, userID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id=$1 AND user_id=$2`, tripID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.cache.InvalidateTrip(ctx, tripID)
	return nil
}

// Visualization renders map and table structures for one stored trip,
// serving repeated page loads from the cache.
func (s *Service) Visualization(ctx context.Context, tripID, userID string, page, pageSize int) (analytics.Visualization, error) {
	if vis, ok := s.cache.GetVisualization(ctx, tripID, userID, page, pageSize); ok {
		return vis, nil
	}

	trip, err := s.Get(ctx, tripID, userID)
	if err != nil {
		return analytics.Visualization{}, err
	}

	vis := analytics.BuildVisualization(trip.toAnalytics(), page, pageSize, s.cfg, s.colors)
	s.cache.SetVisualization(ctx, tripID, userID, page, pageSize, vis)
	return vis, nil
}

// MultiVisualization overlays several of the user's trips on one map.
// An empty id list or no matching trips surfaces analytics.ErrNoTrips.
func (s *Service) MultiVisualization(ctx context.Context, tripIDs []string, userID string) (analytics.MultiVisualization, error) {
	if len(tripIDs) == 0 {
		return analytics.MultiVisualization{}, analytics.ErrNoTrips
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, trip_name, upload_date, gps_points, summary, stoppages, idlings, overspeed_segments, is_processed, created_at
		FROM trips WHERE id = ANY($1) AND user_id=$2
		ORDER BY upload_date
	`, tripIDs, userID)
	if err != nil {
		return analytics.MultiVisualization{}, err
	}
	defer rows.Close()

	var trips []analytics.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return analytics.MultiVisualization{}, err
		}
		trips = append(trips, trip.toAnalytics())
	}

	return analytics.BuildMultiVisualization(trips, s.cfg, s.colors)
}

func scanTrip(row pgx.Row) (Trip, error) {
	var trip Trip
	var pointsJSON, summaryJSON, stoppagesJSON, idlingsJSON, overspeedJSON []byte
	err := row.Scan(&trip.ID, &trip.UserID, &trip.Name, &trip.UploadDate,
		&pointsJSON, &summaryJSON, &stoppagesJSON, &idlingsJSON, &overspeedJSON,
		&trip.IsProcessed, &trip.CreatedAt)
	if err != nil {
		return Trip{}, err
	}

	for _, field := range []struct {
		data []byte
		dst  any
	}{
		{pointsJSON, &trip.Points},
		{summaryJSON, &trip.Summary},
		{stoppagesJSON, &trip.Stoppages},
		{idlingsJSON, &trip.Idlings},
		{overspeedJSON, &trip.OverspeedSegments},
	} {
		if len(field.data) == 0 {
			continue
		}
		if err := json.Unmarshal(field.data, field.dst); err != nil {
			return Trip{}, err
		}
	}
	return trip, nil
}
