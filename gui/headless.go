package gui

import (
	"sync"

	"github.com/ctessum/geom"
	ncwms "github.com/kwilcox/ncWMS"
)

// HeadlessMap is an in-memory MapWidget. Zooming replaces the viewport
// extent and keeps its pixel size.
type HeadlessMap struct {
	mu sync.Mutex

	view      ncwms.Viewport
	overlay   ncwms.OverlayParams
	hasLayer  bool
	updates   int
	animation string
}

// NewHeadlessMap returns a map showing vp.
func NewHeadlessMap(vp ncwms.Viewport) *HeadlessMap {
	return &HeadlessMap{view: vp}
}

func (m *HeadlessMap) SetOverlay(p ncwms.OverlayParams) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overlay = p
	m.hasLayer = true
	m.updates++
}

func (m *HeadlessMap) Viewport() ncwms.Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view
}

func (m *HeadlessMap) ZoomTo(b *geom.Bounds) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.BBox = ncwms.BoundingBoxFromBounds(b)
}

func (m *HeadlessMap) ShowAnimation(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animation = url
}

func (m *HeadlessMap) HideAnimation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animation = ""
}

// Pan moves the viewport, as a user dragging the map would.
func (m *HeadlessMap) Pan(b ncwms.BoundingBox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.BBox = b
}

// Overlay returns the current overlay configuration and the number of times
// it has been set. ok is false if no overlay has been created.
func (m *HeadlessMap) Overlay() (p ncwms.OverlayParams, updates int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlay, m.updates, m.hasLayer
}

// Animation returns the URL of the displayed animation, if any.
func (m *HeadlessMap) Animation() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.animation
}

// HeadlessMenu records the menu contents.
type HeadlessMenu struct {
	mu        sync.Mutex
	datasets  []ncwms.Dataset
	datasetID string
	variables []ncwms.Variable
}

func (m *HeadlessMenu) SetDatasets(ds []ncwms.Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets = ds
}

func (m *HeadlessMenu) SetVariables(datasetID string, vars []ncwms.Variable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasetID = datasetID
	m.variables = vars
}

// Datasets returns the listed datasets.
func (m *HeadlessMenu) Datasets() []ncwms.Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.datasets
}

// Variables returns the expanded dataset and its variables.
func (m *HeadlessMenu) Variables() (string, []ncwms.Variable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.datasetID, m.variables
}

// HeadlessDisplay records what would be shown. Fields may be read once the
// Viewer call that set them has returned.
type HeadlessDisplay struct {
	Dataset, Variable, Units string

	Axis  *ncwms.VerticalAxis
	Level int

	Calendar    *ncwms.Calendar
	Highlighted int
	Date        string
	Timesteps   []ncwms.Timestep
	Timestep    int

	ScaleMin, ScaleMax    string
	OneThird, TwoThirds   string
	Links                 Links
	FirstFrame, LastFrame string

	FeatureInfo   string
	TimeSeriesURL string

	Alerts []string
}

func (d *HeadlessDisplay) SetVariableInfo(dataset, variable, units string) {
	d.Dataset, d.Variable, d.Units = dataset, variable, units
}

func (d *HeadlessDisplay) SetLevels(axis *ncwms.VerticalAxis, selected int) {
	d.Axis, d.Level = axis, selected
}

func (d *HeadlessDisplay) SetCalendar(cal *ncwms.Calendar) {
	d.Calendar = cal
	if cal == nil {
		d.Highlighted = -1
	}
}

func (d *HeadlessDisplay) HighlightDay(tIndex int) { d.Highlighted = tIndex }

func (d *HeadlessDisplay) SetDate(pretty string) { d.Date = pretty }

func (d *HeadlessDisplay) SetTimesteps(steps []ncwms.Timestep, selected int) {
	d.Timesteps, d.Timestep = steps, selected
}

func (d *HeadlessDisplay) SetScale(min, max string) { d.ScaleMin, d.ScaleMax = min, max }

func (d *HeadlessDisplay) SetScaleMarkers(oneThird, twoThirds string) {
	d.OneThird, d.TwoThirds = oneThird, twoThirds
}

func (d *HeadlessDisplay) SetLinks(l Links) { d.Links = l }

func (d *HeadlessDisplay) SetFrames(first, last string) { d.FirstFrame, d.LastFrame = first, last }

func (d *HeadlessDisplay) SetFeatureInfo(text, timeSeriesURL string) {
	d.FeatureInfo, d.TimeSeriesURL = text, timeSeriesURL
}

func (d *HeadlessDisplay) Alert(msg string) { d.Alerts = append(d.Alerts, msg) }
