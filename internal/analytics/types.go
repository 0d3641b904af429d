package analytics

import "time"

// Ignition states carried by raw GPS samples.
const (
	IgnitionOn  = "on"
	IgnitionOff = "off"
)

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GPSPoint is one GPS fix. Speed is derived in km/h; the first point of a
// trip always carries speed 0.
type GPSPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
	Ignition  string    `json:"ignition"`
	Speed     float64   `json:"speed"`
}

// Interval is a contiguous stoppage or idling span. Location anchors the
// interval at its first sample.
type Interval struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Duration  float64   `json:"duration"`
	Location  Location  `json:"location"`
}

type OverspeedSegment struct {
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	StartLocation Location  `json:"startLocation"`
	EndLocation   Location  `json:"endLocation"`
	MaxSpeed      float64   `json:"maxSpeed"`
}

// TripSummary holds whole-trip statistics. Distances are meters, durations
// seconds, speeds km/h.
type TripSummary struct {
	TotalDistance    float64 `json:"totalDistance"`
	TotalDuration    float64 `json:"totalDuration"`
	StoppageDuration float64 `json:"stoppageDuration"`
	IdlingDuration   float64 `json:"idlingDuration"`
	OverspeedCount   int     `json:"overspeedCount"`
	MaxSpeed         float64 `json:"maxSpeed"`
	AvgSpeed         float64 `json:"avgSpeed"`
}

// Trip is the persisted, already-enriched trip record the render functions
// operate on. No event detection happens at render time.
type Trip struct {
	ID                string             `json:"id"`
	Name              string             `json:"tripName"`
	UploadDate        time.Time          `json:"uploadDate"`
	Points            []GPSPoint         `json:"gpsPoints"`
	Summary           TripSummary        `json:"summary"`
	Stoppages         []Interval         `json:"stoppages"`
	Idlings           []Interval         `json:"idlings"`
	OverspeedSegments []OverspeedSegment `json:"overspeedSegments"`
}

// Config carries the engine thresholds so tests can run with alternate
// values without source edits.
type Config struct {
	// OverspeedThresholdKmh is the speed above which a sample counts as
	// overspeeding, both for interval detection and trip-level totals.
	OverspeedThresholdKmh float64
	// IdleSpeedThresholdKmh is the table classifier's cutoff below which an
	// ignition-on sample counts as idling.
	IdleSpeedThresholdKmh float64
}

func DefaultConfig() Config {
	return Config{
		OverspeedThresholdKmh: 60,
		IdleSpeedThresholdKmh: 0.1,
	}
}
