package ncwms

import "context"

// MetadataClient retrieves the metadata that drives the viewer from an ncWMS
// server. Implementations return ErrNoCalendarData from Calendar when the
// variable has no time axis and a *ParseError when a response does not have
// the expected shape.
type MetadataClient interface {
	// ListDatasets returns the datasets whose identifiers start with filter.
	ListDatasets(ctx context.Context, filter string) ([]Dataset, error)
	// ListVariables returns the variables in a dataset.
	ListVariables(ctx context.Context, datasetID string) ([]Variable, error)
	// VariableDetails returns the units, vertical axis and extent of a variable.
	VariableDetails(ctx context.Context, datasetID, variable string) (*VariableDetails, error)
	// Calendar returns the month view around the timestep nearest dateTime.
	Calendar(ctx context.Context, datasetID, variable, dateTime string) (*Calendar, error)
	// Timesteps returns the timesteps on the same day as the timestep tIndex.
	Timesteps(ctx context.Context, datasetID, variable string, tIndex int) ([]Timestep, error)
	// MinMax samples a layer and returns its minimum and maximum values.
	MinMax(ctx context.Context, req MinMaxRequest) (*MinMax, error)
	// FeatureInfo returns the data value under a pixel of a map image.
	FeatureInfo(ctx context.Context, req FeatureInfoRequest) (*FeatureInfo, error)
}

// Dataset is an entry in the dataset menu.
type Dataset struct {
	ID    string
	Title string
}

// Variable is an entry in a dataset's variable list.
type Variable struct {
	ID    string
	Title string
}

// VariableDetails is the response to a variableDetails metadata request.
type VariableDetails struct {
	Dataset string
	// Title is the display name of the variable.
	Title string
	Units string
	// Axis is nil if the variable has no vertical axis.
	Axis *VerticalAxis
	// ValidMin and ValidMax are the server's configured valid range.
	ValidMin, ValidMax float64
	BBox               BoundingBox
}

// Calendar is the month view of a variable's time axis.
type Calendar struct {
	// NearestIndex is the index on the time axis of the timestep nearest the
	// requested time.
	NearestIndex int
	// NearestValue is that timestep in ISO 8601 form.
	NearestValue string
	// PrettyNearestValue is NearestValue formatted for display.
	PrettyNearestValue string
	// Heading is the month title, e.g. "Oct 2006".
	Heading string
	// Navigation targets for the previous/next month and year.
	PrevYear, PrevMonth, NextMonth, NextYear string
	// Days lists the days of the month that have data.
	Days []CalendarDay
}

// CalendarDay is a day of the month for which data exist.
type CalendarDay struct {
	Day    int
	TIndex int
	Value  string
	Pretty string
}

// Timestep is a selectable time on a given day.
type Timestep struct {
	// Value is the ISO 8601 time.
	Value string
	// Label is the time of day, e.g. "12:00:00".
	Label string
}

// Sample grid size used to approximate the data range of a layer.
const (
	MinMaxWidth  = 50
	MinMaxHeight = 50
)

// MinMaxRequest asks for the data range of a layer within BBox.
type MinMaxRequest struct {
	LayerKey  string
	BBox      BoundingBox
	Elevation float64
	Time      string
}

// MinMax is a data range.
type MinMax struct {
	Min, Max float64
}

// FeatureInfoRequest asks for the value at pixel (X, Y) of a Width×Height map
// image covering BBox.
type FeatureInfoRequest struct {
	LayerKey      string
	BBox          BoundingBox
	X, Y          int
	Width, Height int
	Elevation     float64
	Time          string
}

// FeatureInfo is the value at a point. Fields are kept as the server formats
// them so that they can be truncated for display with FormatSignificant.
type FeatureInfo struct {
	Lon, Lat, Value string
}
