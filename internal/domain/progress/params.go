package progress

import (
	"time"

	"github.com/masteryapp/mastery-api/internal/domain"
)

// Params defines all configurable parameters for the progress engine.
type Params struct {
	// Stability handling
	StabilityBoost int // Added on every completion or revision toggle
	DecayPerDay    int // Base daily penalty for overdue topics
	MaxStability   int

	// Revision scheduling
	FirstRevisionDelay time.Duration            // Delay before the first revision
	OverdueGrace       time.Duration            // Slack after the due date before decay starts
	IntensityDays      map[domain.Intensity]int // Days per revision unit, keyed by intensity

	// Windows
	Day  time.Duration
	Week time.Duration // Goal window and velocity unit
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	StabilityBoost int
	DecayPerDay    int

	LowIntensityDays    int
	MediumIntensityDays int
	HighIntensityDays   int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		StabilityBoost: 20,
		DecayPerDay:    10,
		MaxStability:   100,

		FirstRevisionDelay: 24 * time.Hour,
		OverdueGrace:       24 * time.Hour,
		IntensityDays: map[domain.Intensity]int{
			domain.IntensityLow:    9,
			domain.IntensityMedium: 6,
			domain.IntensityHigh:   3,
		},

		Day:  24 * time.Hour,
		Week: 7 * 24 * time.Hour,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.StabilityBoost > 0 {
		params.StabilityBoost = config.StabilityBoost
	}
	if config.DecayPerDay > 0 {
		params.DecayPerDay = config.DecayPerDay
	}
	if config.LowIntensityDays > 0 {
		params.IntensityDays[domain.IntensityLow] = config.LowIntensityDays
	}
	if config.MediumIntensityDays > 0 {
		params.IntensityDays[domain.IntensityMedium] = config.MediumIntensityDays
	}
	if config.HighIntensityDays > 0 {
		params.IntensityDays[domain.IntensityHigh] = config.HighIntensityDays
	}

	return params
}

// intensityDays returns the days-per-revision-unit multiplier for the given
// intensity. Unrecognized values fall back to the Medium multiplier; revision
// scheduling must keep working even if a course row carries a value outside
// the known set.
func (p *Params) intensityDays(intensity domain.Intensity) int {
	if days, ok := p.IntensityDays[intensity]; ok {
		return days
	}
	return p.IntensityDays[domain.IntensityMedium]
}
