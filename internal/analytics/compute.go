package analytics

import (
	"math"
	"sort"

	"backend-tripsight/internal/shared/geo"
)

// Result is everything derived from one upload. Points is the enriched
// sample list; the caller persists all of it verbatim.
type Result struct {
	Summary           TripSummary        `json:"summary"`
	Stoppages         []Interval         `json:"stoppages"`
	Idlings           []Interval         `json:"idlings"`
	OverspeedSegments []OverspeedSegment `json:"overspeedSegments"`
	Points            []GPSPoint         `json:"gpsPoints"`
}

// SpeedBetween derives the speed in km/h of the movement from prev to curr,
// rounded to 2 decimals. Identical timestamps yield 0 rather than a division
// by zero.
func SpeedBetween(prev, curr GPSPoint) float64 {
	dt := curr.Timestamp.Sub(prev.Timestamp).Seconds()
	if dt == 0 {
		return 0
	}
	d := geo.DistanceMeters(prev.Latitude, prev.Longitude, curr.Latitude, curr.Longitude)
	return round2(d / dt * 3.6)
}

// ComputeTrip sorts the samples by timestamp, derives per-sample speeds and
// runs the three event scans plus the summary. Fewer than 2 samples is a
// degenerate trip: zeroed summary, empty event lists, input echoed back.
func ComputeTrip(points []GPSPoint, cfg Config) Result {
	if len(points) < 2 {
		return Result{
			Stoppages:         []Interval{},
			Idlings:           []Interval{},
			OverspeedSegments: []OverspeedSegment{},
			Points:            points,
		}
	}

	enriched := enrichSpeeds(points)

	totalDistance := 0.0
	for i := 1; i < len(enriched); i++ {
		totalDistance += pointDistance(enriched[i-1], enriched[i])
	}
	totalDuration := enriched[len(enriched)-1].Timestamp.Sub(enriched[0].Timestamp).Seconds()

	stoppages := detectStoppages(enriched)
	idlings := detectIdlings(enriched)
	overspeed := detectOverspeedSegments(enriched, cfg.OverspeedThresholdKmh)

	return Result{
		Summary:           summarize(totalDistance, totalDuration, stoppages, idlings, overspeed, enriched),
		Stoppages:         stoppages,
		Idlings:           idlings,
		OverspeedSegments: overspeed,
		Points:            enriched,
	}
}

// enrichSpeeds returns a time-sorted copy of the samples with derived
// speeds. The first sample has no predecessor and gets speed 0.
func enrichSpeeds(points []GPSPoint) []GPSPoint {
	sorted := append([]GPSPoint(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	sorted[0].Speed = 0
	for i := 1; i < len(sorted); i++ {
		sorted[i].Speed = SpeedBetween(sorted[i-1], sorted[i])
	}
	return sorted
}

// detectStoppages opens an interval on an ignition on->off transition and
// closes it on off->on, ending at the last "off" sample before ignition
// resumed. A trailing stoppage closes at the final sample.
func detectStoppages(points []GPSPoint) []Interval {
	stoppages := []Interval{}
	var open *GPSPoint

	for i := 1; i < len(points); i++ {
		prev := points[i-1]
		curr := points[i]

		if prev.Ignition == IgnitionOn && curr.Ignition == IgnitionOff {
			p := curr
			open = &p
		}

		if prev.Ignition == IgnitionOff && curr.Ignition == IgnitionOn && open != nil {
			stoppages = append(stoppages, closedInterval(*open, prev))
			open = nil
		}
	}

	if open != nil {
		stoppages = append(stoppages, closedInterval(*open, points[len(points)-1]))
	}
	return stoppages
}

// detectIdlings opens an interval when the engine is running but the vehicle
// is not moving, and closes it on movement or ignition off, ending at the
// previous sample. Spans that close with no elapsed time are discarded.
func detectIdlings(points []GPSPoint) []Interval {
	idlings := []Interval{}
	var open *GPSPoint

	for i := 0; i < len(points); i++ {
		curr := points[i]

		if curr.Ignition == IgnitionOn && curr.Speed == 0 && open == nil {
			p := curr
			open = &p
		}

		if open != nil && (curr.Speed > 0 || curr.Ignition == IgnitionOff) {
			iv := closedInterval(*open, points[i-1])
			if iv.Duration > 0 {
				idlings = append(idlings, iv)
			}
			open = nil
		}
	}

	if open != nil {
		iv := closedInterval(*open, points[len(points)-1])
		if iv.Duration > 0 {
			idlings = append(idlings, iv)
		}
	}
	return idlings
}

// detectOverspeedSegments opens a segment when speed exceeds the threshold,
// tracks the running maximum, and closes at the previous sample once speed
// drops back under. A trailing segment closes at the final sample.
func detectOverspeedSegments(points []GPSPoint, thresholdKmh float64) []OverspeedSegment {
	segments := []OverspeedSegment{}
	var open *GPSPoint
	maxSpeed := 0.0

	for i := 0; i < len(points); i++ {
		curr := points[i]

		if curr.Speed > thresholdKmh && open == nil {
			p := curr
			open = &p
			maxSpeed = curr.Speed
		}

		if open != nil && curr.Speed > maxSpeed {
			maxSpeed = curr.Speed
		}

		if open != nil && curr.Speed <= thresholdKmh {
			end := points[i-1]
			segments = append(segments, OverspeedSegment{
				StartTime:     open.Timestamp,
				EndTime:       end.Timestamp,
				StartLocation: Location{Latitude: open.Latitude, Longitude: open.Longitude},
				EndLocation:   Location{Latitude: end.Latitude, Longitude: end.Longitude},
				MaxSpeed:      maxSpeed,
			})
			open = nil
			maxSpeed = 0
		}
	}

	if open != nil {
		end := points[len(points)-1]
		segments = append(segments, OverspeedSegment{
			StartTime:     open.Timestamp,
			EndTime:       end.Timestamp,
			StartLocation: Location{Latitude: open.Latitude, Longitude: open.Longitude},
			EndLocation:   Location{Latitude: end.Latitude, Longitude: end.Longitude},
			MaxSpeed:      maxSpeed,
		})
	}
	return segments
}

func summarize(totalDistance, totalDuration float64, stoppages, idlings []Interval, overspeed []OverspeedSegment, points []GPSPoint) TripSummary {
	stoppageDuration := 0.0
	for _, s := range stoppages {
		stoppageDuration += s.Duration
	}
	idlingDuration := 0.0
	for _, idle := range idlings {
		idlingDuration += idle.Duration
	}

	// Max and average speed consider moving samples only; the first sample
	// and stationary fixes carry speed 0 and are excluded.
	maxSpeed := 0.0
	speedSum := 0.0
	speedCount := 0
	for _, p := range points {
		if p.Speed > 0 {
			speedSum += p.Speed
			speedCount++
			if p.Speed > maxSpeed {
				maxSpeed = p.Speed
			}
		}
	}
	avgSpeed := 0.0
	if speedCount > 0 {
		avgSpeed = round2(speedSum / float64(speedCount))
	}

	return TripSummary{
		TotalDistance:    math.Round(totalDistance),
		TotalDuration:    math.Round(totalDuration),
		StoppageDuration: math.Round(stoppageDuration),
		IdlingDuration:   math.Round(idlingDuration),
		OverspeedCount:   len(overspeed),
		MaxSpeed:         round2(maxSpeed),
		AvgSpeed:         avgSpeed,
	}
}

func closedInterval(start, end GPSPoint) Interval {
	return Interval{
		StartTime: start.Timestamp,
		EndTime:   end.Timestamp,
		Duration:  end.Timestamp.Sub(start.Timestamp).Seconds(),
		Location:  Location{Latitude: start.Latitude, Longitude: start.Longitude},
	}
}

func pointDistance(a, b GPSPoint) float64 {
	return geo.DistanceMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
