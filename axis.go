package ncwms

import (
	"math"
	"time"
)

// VerticalAxis describes the elevation or depth levels available for a
// variable. Levels are stored as the server reports them (absolute values);
// Positive is true when values increase upwards (elevation) and false when
// they increase downwards (depth).
type VerticalAxis struct {
	Positive bool
	Units    string
	Levels   []float64
}

// Label is the human-readable name of the axis.
func (a *VerticalAxis) Label() string {
	if a.Positive {
		return "Elevation"
	}
	return "Depth"
}

// Elevation returns the signed elevation of the level at index i, as sent in
// WMS ELEVATION parameters. It returns 0 if a is nil, has no levels or i is
// out of range.
func (a *VerticalAxis) Elevation(i int) float64 {
	if a == nil || i < 0 || i >= len(a.Levels) {
		return 0
	}
	if a.Positive {
		return a.Levels[i]
	}
	return -a.Levels[i]
}

// Nearest returns the index of the level closest to the signed elevation
// target. Ties resolve to the lowest index. It returns 0 when there are no
// levels.
func (a *VerticalAxis) Nearest(target float64) int {
	if a == nil {
		return 0
	}
	nearest := 0
	best := math.Inf(1)
	for i, z := range a.Levels {
		var diff float64
		if a.Positive {
			diff = math.Abs(z - target)
		} else {
			diff = math.Abs(z + target)
		}
		if diff < best {
			best = diff
			nearest = i
		}
	}
	return nearest
}

// TimeFormat is the ISO 8601 layout used for WMS TIME values.
const TimeFormat = "2006-01-02T15:04:05Z"

// DefaultTime returns midnight UTC on the day of now, the time the viewer
// focuses on when nothing else has been selected.
func DefaultTime(now time.Time) string {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(TimeFormat)
}
