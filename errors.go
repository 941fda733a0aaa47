package ncwms

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBoundingBox is returned when a bounding box string does not
	// hold four numeric fields.
	ErrMalformedBoundingBox = errors.New("ncwms: malformed bounding box")

	// ErrNotANumber is returned when a scale limit is not a finite number.
	ErrNotANumber = errors.New("scale limits must be set to valid numbers")

	// ErrInvertedRange is returned when the scale minimum is not less than
	// the maximum.
	ErrInvertedRange = errors.New("minimum scale value must be less than the maximum")

	// ErrNoCalendarData is returned by MetadataClient.Calendar when the
	// variable has no time axis.
	ErrNoCalendarData = errors.New("ncwms: no calendar data")

	// ErrNoFeatureInfo is returned when a map click yields no queryable value.
	ErrNoFeatureInfo = errors.New("ncwms: no feature info available for this layer")

	// ErrNoAnimationFrames is returned when an animation is requested without
	// both a first and a last frame.
	ErrNoAnimationFrames = errors.New("must select a first and last frame for the animation")
)

// ParseError reports a metadata response whose shape does not match what the
// named metadata item should return.
type ParseError struct {
	Item string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ncwms: parsing %s response: %v", e.Item, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
