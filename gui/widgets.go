package gui

import (
	"github.com/ctessum/geom"
	ncwms "github.com/kwilcox/ncWMS"
)

// MapWidget is the map that shows the data overlay.
type MapWidget interface {
	// SetOverlay creates or updates the WMS overlay layer.
	SetOverlay(p ncwms.OverlayParams)
	// Viewport returns the current extent and pixel size of the map.
	Viewport() ncwms.Viewport
	// ZoomTo moves the map to show b.
	ZoomTo(b *geom.Bounds)
	// ShowAnimation displays the image at url in place of the overlay.
	ShowAnimation(url string)
	// HideAnimation restores the overlay.
	HideAnimation()
}

// Menu lists the datasets and their variables.
type Menu interface {
	SetDatasets(ds []ncwms.Dataset)
	SetVariables(datasetID string, vars []ncwms.Variable)
}

// Links are the URLs offered alongside the map.
type Links struct {
	Permalink string
	// Export opens the view in an external globe viewer. ExportAnimation
	// is true when it covers the animation range rather than a single time.
	Export          string
	ExportAnimation bool
	TestImage       string
}

// Display receives everything the viewer shows besides the map and menu.
// Implementations must not call back into the Viewer from these methods.
type Display interface {
	// SetVariableInfo shows the dataset title, variable title and units.
	SetVariableInfo(dataset, variable, units string)
	// SetLevels fills the level selector and selects a level. A nil axis
	// or one without levels hides the selector.
	SetLevels(axis *ncwms.VerticalAxis, selected int)
	// SetCalendar shows a month of the time axis; nil clears the time
	// controls.
	SetCalendar(cal *ncwms.Calendar)
	// HighlightDay marks the calendar day holding timestep tIndex.
	HighlightDay(tIndex int)
	SetDate(pretty string)
	// SetTimesteps fills the time selector; nil clears it.
	SetTimesteps(steps []ncwms.Timestep, selected int)
	// SetScale shows the color scale limits in the editable fields.
	SetScale(min, max string)
	SetScaleMarkers(oneThird, twoThirds string)
	SetLinks(l Links)
	SetFrames(first, last string)
	// SetFeatureInfo shows the result of a map click. timeSeriesURL is
	// empty unless an animation range is set.
	SetFeatureInfo(text, timeSeriesURL string)
	Alert(msg string)
}
