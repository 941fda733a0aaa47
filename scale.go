package ncwms

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Scale holds the data values mapped to the two ends of the color scale.
type Scale struct {
	Min, Max float64
}

// String returns the scale in the "min,max" form used by permalinks.
func (s Scale) String() string {
	return FormatFloat(s.Min) + "," + FormatFloat(s.Max)
}

// ValidateScale parses user-entered scale limits. It returns ErrNotANumber if
// either limit is not a finite number and ErrInvertedRange if min >= max.
func ValidateScale(min, max string) (Scale, error) {
	fMin, err := parseFinite(min)
	if err != nil {
		return Scale{}, fmt.Errorf("%w: minimum %q", ErrNotANumber, min)
	}
	fMax, err := parseFinite(max)
	if err != nil {
		return Scale{}, fmt.Errorf("%w: maximum %q", ErrNotANumber, max)
	}
	if fMin >= fMax {
		return Scale{}, fmt.Errorf("%w: %v >= %v", ErrInvertedRange, fMin, fMax)
	}
	return Scale{Min: fMin, Max: fMax}, nil
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not finite", f)
	}
	return f, nil
}

// ScaleMarkers returns the values one third and two thirds of the way along
// the scale, for labelling the color bar.
func ScaleMarkers(s Scale) (oneThird, twoThirds float64) {
	marks := floats.Span(make([]float64, 4), s.Min, s.Max)
	return marks[1], marks[2]
}
