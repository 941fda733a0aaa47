// Package gui implements the Godiva2 map viewer: the selection workflow that
// walks from a dataset to a rendered overlay, and the widgets it drives.
package gui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ncwms "github.com/kwilcox/ncWMS"
	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// ErrNoDatasets is returned by LoadDatasets when the server lists nothing.
var ErrNoDatasets = errors.New("gui: no datasets available")

// featureInfoPrompt is shown in the feature info area after each render.
const featureInfoPrompt = "Click on the map to get more information"

// SelectionState is the viewer's current selection.
type SelectionState struct {
	DatasetID    string
	DatasetTitle string
	Variable     string
	// LayerKey is empty unless both DatasetID and Variable are set.
	LayerKey string

	// Axis is nil if the variable has no vertical axis.
	Axis       *ncwms.VerticalAxis
	LevelIndex int

	Time          string
	TimestepIndex int
	// TimeAvailable is false when the variable has no time axis.
	TimeAvailable bool

	// NewVariable is set when a variable is chosen and cleared by the first
	// render that follows.
	NewVariable bool

	Scale    ncwms.Scale
	ScaleSet bool

	FirstFrame, LastFrame string
	Animating             bool

	Opacity   int
	LayerBBox *ncwms.BoundingBox

	Stage string
}

// Elevation returns the signed elevation of the selected level, or 0 if
// there is no vertical axis.
func (s SelectionState) Elevation() float64 {
	return s.Axis.Elevation(s.LevelIndex)
}

func (s SelectionState) overlay() ncwms.OverlayState {
	o := ncwms.OverlayState{
		Dataset:    s.DatasetID,
		Variable:   s.Variable,
		Elevation:  s.Elevation(),
		FirstFrame: s.FirstFrame,
		LastFrame:  s.LastFrame,
		Animating:  s.Animating,
		Scale:      s.Scale,
		ScaleSet:   s.ScaleSet,
		Opacity:    s.Opacity,
		LayerBBox:  s.LayerBBox,
	}
	if s.TimeAvailable {
		o.Time = s.Time
	}
	return o
}

// Viewer holds the selection and runs the workflow that keeps the widgets in
// step with it. Operations may be called from several goroutines. Widget
// methods are called with the viewer locked and must not call back into it.
type Viewer struct {
	Client  ncwms.MetadataClient
	Map     MapWidget
	Menu    Menu
	Display Display
	Overlay *ncwms.OverlayBuilder
	Log     logrus.FieldLogger
	// Now returns the current time. It is used to choose a default time.
	Now func() time.Time

	mu       sync.Mutex
	st       SelectionState
	workflow *fsm.FSM
	// generation is incremented each time the dataset list, the dataset or
	// the variable is chosen; responses to older requests are discarded.
	generation uint64
	datasets   []ncwms.Dataset

	deepLink         ncwms.DeepLink
	deepLinkConsumed bool
}

// NewViewer returns a viewer with an empty selection and full opacity.
func NewViewer(client ncwms.MetadataClient, m MapWidget, menu Menu, display Display, overlay *ncwms.OverlayBuilder) *Viewer {
	log := logrus.StandardLogger()
	return &Viewer{
		Client:   client,
		Map:      m,
		Menu:     menu,
		Display:  display,
		Overlay:  overlay,
		Log:      log,
		Now:      time.Now,
		st:       SelectionState{Opacity: 100},
		workflow: newWorkflow(log),
	}
}

// SetDeepLink seeds the selection from a shared link. The link is applied
// during the next workflow run and then discarded.
func (v *Viewer) SetDeepLink(dl ncwms.DeepLink) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, p := range dl.Problems {
		v.Log.WithField("link", "deep").Warn(p)
	}
	v.deepLink = dl
	v.deepLinkConsumed = dl.IsZero()
}

// Snapshot returns a copy of the current selection.
func (v *Viewer) Snapshot() SelectionState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.st
	if s.Axis != nil {
		a := *s.Axis
		a.Levels = append([]float64(nil), s.Axis.Levels...)
		s.Axis = &a
	}
	if s.LayerBBox != nil {
		b := *s.LayerBBox
		s.LayerBBox = &b
	}
	s.Stage = v.workflow.Current()
	return s
}

// pending returns the deep link if it has not yet been applied. v.mu must be
// held.
func (v *Viewer) pending() *ncwms.DeepLink {
	if v.deepLinkConsumed {
		return nil
	}
	return &v.deepLink
}

func (v *Viewer) consumeDeepLink() {
	if !v.deepLinkConsumed {
		v.Log.Debug("deep link consumed")
	}
	v.deepLinkConsumed = true
}

// nextGeneration starts a new workflow run. v.mu must be held.
func (v *Viewer) nextGeneration() uint64 {
	v.generation++
	return v.generation
}

// stale reports whether gen has been superseded. v.mu must be held.
func (v *Viewer) stale(gen uint64) bool {
	if gen == v.generation {
		return false
	}
	v.Log.WithFields(logrus.Fields{"generation": gen, "current": v.generation}).Debug("dropping superseded response")
	return true
}

func (v *Viewer) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

func (v *Viewer) logger() logrus.FieldLogger {
	return v.Log.WithFields(logrus.Fields{
		"dataset":    v.st.DatasetID,
		"variable":   v.st.Variable,
		"stage":      v.workflow.Current(),
		"generation": v.generation,
	})
}

// fail logs err, alerts the user and returns it wrapped.
func (v *Viewer) fail(op string, err error) error {
	err = fmt.Errorf("gui: %s: %w", op, err)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logger().Error(err)
	v.Display.Alert(err.Error())
	return err
}

// setLayer sets the dataset and variable together so that LayerKey and
// DatasetTitle always match them. v.mu must be held.
func (v *Viewer) setLayer(datasetID, variable string) {
	v.st.DatasetID = datasetID
	v.st.DatasetTitle = v.datasetTitle(datasetID)
	v.st.Variable = variable
	v.st.LayerKey = ncwms.LayerKey(datasetID, variable)
}

func (v *Viewer) datasetTitle(id string) string {
	for _, d := range v.datasets {
		if d.ID == id {
			return d.Title
		}
	}
	return id
}

// LoadDatasets fills the dataset menu and selects a dataset: the one named by
// a pending deep link if the server lists it, otherwise the first. An empty
// filter falls back to the deep link's filter.
func (v *Viewer) LoadDatasets(ctx context.Context, filter string) error {
	v.mu.Lock()
	gen := v.nextGeneration()
	if filter == "" {
		filter = v.deepLink.Filter
	}
	v.mu.Unlock()

	datasets, err := v.Client.ListDatasets(ctx, filter)
	if err != nil {
		return v.fail("loading datasets", err)
	}

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		return nil
	}
	v.datasets = datasets
	v.Menu.SetDatasets(datasets)
	if len(datasets) == 0 {
		v.mu.Unlock()
		return v.fail("loading datasets", ErrNoDatasets)
	}
	target := datasets[0].ID
	if dl := v.pending(); dl != nil && dl.Dataset != "" {
		found := false
		for _, d := range datasets {
			if d.ID == dl.Dataset {
				target = d.ID
				found = true
				break
			}
		}
		if !found {
			v.Log.WithField("dataset", dl.Dataset).Warn("linked dataset not available")
			v.consumeDeepLink()
		}
	}
	v.mu.Unlock()
	return v.SelectDataset(ctx, target)
}

// SelectDataset expands a dataset in the menu. If a pending deep link names
// one of its variables, that variable is selected.
func (v *Viewer) SelectDataset(ctx context.Context, datasetID string) error {
	v.mu.Lock()
	gen := v.nextGeneration()
	v.advance(ctx, eventChooseDataset)
	v.logger().WithField("chosen", datasetID).Info("dataset selected")
	v.mu.Unlock()

	vars, err := v.Client.ListVariables(ctx, datasetID)
	if err != nil {
		return v.fail("listing variables", err)
	}

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		return nil
	}
	v.Menu.SetVariables(datasetID, vars)
	dl := v.pending()
	if dl == nil || dl.Variable == "" {
		v.mu.Unlock()
		return nil
	}
	for _, vr := range vars {
		if vr.ID == dl.Variable {
			v.mu.Unlock()
			return v.SelectVariable(ctx, datasetID, vr.ID)
		}
	}
	v.Log.WithField("variable", dl.Variable).Warn("linked variable not available")
	v.consumeDeepLink()
	v.mu.Unlock()
	return nil
}

// SelectVariable chooses a variable and runs the rest of the workflow:
// vertical axis, calendar, timesteps, scale and render. The previously
// selected elevation and time are kept where the new variable allows.
func (v *Viewer) SelectVariable(ctx context.Context, datasetID, variable string) error {
	v.mu.Lock()
	gen := v.nextGeneration()
	prevElevation := v.st.Elevation()
	prevTime := v.st.Time
	v.st.NewVariable = true
	v.resetAnimation()
	v.st.Axis = nil
	v.st.LevelIndex = 0
	v.Display.SetLevels(nil, 0)
	v.setLayer(datasetID, variable)
	v.advance(ctx, eventChooseVariable)
	v.logger().Info("variable selected")
	v.mu.Unlock()

	details, err := v.Client.VariableDetails(ctx, datasetID, variable)
	if err != nil {
		return v.fail("getting variable details", err)
	}

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		return nil
	}
	bbox := details.BBox
	v.st.LayerBBox = &bbox
	v.st.Axis = details.Axis
	v.Display.SetVariableInfo(v.st.DatasetTitle, details.Title, details.Units)

	target := prevElevation
	dl := v.pending()
	if dl != nil && dl.Elevation != nil {
		target = *dl.Elevation
	}
	if v.st.Axis != nil && len(v.st.Axis.Levels) > 0 {
		v.st.LevelIndex = v.st.Axis.Nearest(target)
		v.Display.SetLevels(v.st.Axis, v.st.LevelIndex)
	}

	t := prevTime
	if dl != nil && dl.Time != "" {
		t = dl.Time
	}
	if t == "" {
		t = ncwms.DefaultTime(v.now())
	}
	v.st.Time = t
	v.advance(ctx, eventApplyAxes)
	v.mu.Unlock()

	return v.setCalendar(ctx, gen, t)
}

// SetCalendar shows the month around dateTime, as when the user navigates
// the calendar.
func (v *Viewer) SetCalendar(ctx context.Context, dateTime string) error {
	v.mu.Lock()
	gen := v.generation
	v.mu.Unlock()
	return v.setCalendar(ctx, gen, dateTime)
}

func (v *Viewer) setCalendar(ctx context.Context, gen uint64, dateTime string) error {
	v.mu.Lock()
	ds, vr := v.st.DatasetID, v.st.Variable
	v.mu.Unlock()
	if ncwms.LayerKey(ds, vr) == "" {
		return nil
	}

	cal, err := v.Client.Calendar(ctx, ds, vr, dateTime)
	if errors.Is(err, ncwms.ErrNoCalendarData) {
		v.mu.Lock()
		if v.stale(gen) {
			v.mu.Unlock()
			return nil
		}
		v.logger().Debug("no time axis")
		v.st.TimeAvailable = false
		v.Display.SetCalendar(nil)
		v.Display.SetDate("")
		v.Display.SetTimesteps(nil, 0)
		v.mu.Unlock()
		return v.autoScale(ctx, gen)
	}
	if err != nil {
		return v.fail("getting calendar", err)
	}

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		return nil
	}
	v.st.TimeAvailable = true
	v.Display.SetCalendar(cal)
	v.advance(ctx, eventApplyCalendar)
	if !v.st.NewVariable {
		v.Display.HighlightDay(v.st.TimestepIndex)
		v.mu.Unlock()
		return nil
	}
	v.mu.Unlock()
	return v.showTimesteps(ctx, gen, cal.NearestIndex, cal.PrettyNearestValue)
}

// ShowTimesteps lists the timesteps on the day holding timestep tIndex, as
// when the user clicks a calendar day.
func (v *Viewer) ShowTimesteps(ctx context.Context, tIndex int, pretty string) error {
	v.mu.Lock()
	gen := v.generation
	v.mu.Unlock()
	return v.showTimesteps(ctx, gen, tIndex, pretty)
}

func (v *Viewer) showTimesteps(ctx context.Context, gen uint64, tIndex int, pretty string) error {
	v.mu.Lock()
	ds, vr := v.st.DatasetID, v.st.Variable
	if ncwms.LayerKey(ds, vr) == "" {
		v.mu.Unlock()
		return nil
	}
	v.Display.SetDate(pretty)
	v.mu.Unlock()

	steps, err := v.Client.Timesteps(ctx, ds, vr, tIndex)
	if err != nil {
		return v.fail("getting timesteps", err)
	}

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		return nil
	}
	selected := 0
	dl := v.pending()
	if dl != nil && dl.Time != "" {
		for i, s := range steps {
			if s.Value == dl.Time {
				selected = i
				break
			}
		}
	}
	v.Display.SetTimesteps(steps, selected)
	if len(steps) > 0 {
		v.st.Time = steps[selected].Value
	}
	v.st.TimestepIndex = tIndex
	v.Display.HighlightDay(tIndex)
	v.advance(ctx, eventApplyTimesteps)

	var linkMin, linkMax string
	if dl != nil && dl.HasScale() {
		linkMin, linkMax = dl.ScaleMin, dl.ScaleMax
	}
	newVariable := v.st.NewVariable
	v.mu.Unlock()

	switch {
	case linkMin != "":
		err := v.EditScale(ctx, linkMin, linkMax)
		if err != nil && newVariable {
			return v.autoScale(ctx, gen)
		}
		return err
	case newVariable:
		return v.autoScale(ctx, gen)
	}
	return v.refresh(ctx)
}

// AutoScale sets the color scale to the range of the data in view.
func (v *Viewer) AutoScale(ctx context.Context) error {
	v.mu.Lock()
	gen := v.generation
	v.mu.Unlock()
	return v.autoScale(ctx, gen)
}

// autoScale samples the whole layer for a new variable and the visible part
// of it otherwise. The returned range is applied without validation.
func (v *Viewer) autoScale(ctx context.Context, gen uint64) error {
	v.mu.Lock()
	if v.st.LayerKey == "" || v.st.LayerBBox == nil {
		v.mu.Unlock()
		return nil
	}
	bbox := *v.st.LayerBBox
	if !v.st.NewVariable {
		bbox = ncwms.Intersect(v.Map.Viewport().BBox, bbox)
	}
	if bbox.Empty() {
		v.logger().Info("no visible data")
		v.mu.Unlock()
		return v.refresh(ctx)
	}
	o := v.st.overlay()
	req := ncwms.MinMaxRequest{
		LayerKey:  o.LayerKey(),
		BBox:      bbox,
		Elevation: o.Elevation,
		Time:      o.Time,
	}
	v.mu.Unlock()

	mm, err := v.Client.MinMax(ctx, req)
	if err != nil {
		return v.fail("getting data range", err)
	}

	v.mu.Lock()
	if v.stale(gen) {
		v.mu.Unlock()
		return nil
	}
	v.st.Scale = ncwms.Scale{Min: mm.Min, Max: mm.Max}
	v.st.ScaleSet = true
	v.Display.SetScale(ncwms.FormatFloat(mm.Min), ncwms.FormatFloat(mm.Max))
	v.advance(ctx, eventApplyScale)
	v.mu.Unlock()
	return v.refresh(ctx)
}

// EditScale applies user-entered scale limits. Invalid limits leave the
// scale unchanged, restore the displayed values and alert the user.
func (v *Viewer) EditScale(ctx context.Context, min, max string) error {
	s, err := ncwms.ValidateScale(min, max)
	v.mu.Lock()
	if err != nil {
		if v.st.ScaleSet {
			v.Display.SetScale(ncwms.FormatFloat(v.st.Scale.Min), ncwms.FormatFloat(v.st.Scale.Max))
		} else {
			v.Display.SetScale("", "")
		}
		v.Display.Alert(err.Error())
		v.logger().WithError(err).Warn("invalid scale")
		v.mu.Unlock()
		return err
	}
	v.st.Scale = s
	v.st.ScaleSet = true
	v.Display.SetScale(ncwms.FormatFloat(s.Min), ncwms.FormatFloat(s.Max))
	if v.st.LayerKey != "" {
		v.advance(ctx, eventApplyScale)
	}
	v.mu.Unlock()
	return v.refresh(ctx)
}

func (v *Viewer) refresh(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.render(ctx)
	return nil
}

// render points the overlay at the current selection and refreshes the
// links and scale markers. The first render after a deep link zooms to its
// extent and retires it. v.mu must be held.
func (v *Viewer) render(ctx context.Context) {
	if v.st.LayerKey == "" {
		return
	}
	if dl := v.pending(); dl != nil && dl.BBox != nil {
		v.Map.ZoomTo(dl.BBox.Bounds())
	}
	v.consumeDeepLink()

	oneThird, twoThirds := ncwms.ScaleMarkers(v.st.Scale)
	v.Display.SetScaleMarkers(ncwms.FormatSignificantFloat(oneThird, 4), ncwms.FormatSignificantFloat(twoThirds, 4))

	p := v.Overlay.Params(v.st.overlay())
	v.Map.SetOverlay(p)
	v.Display.SetFeatureInfo(featureInfoPrompt, "")
	v.updateLinks()
	v.st.NewVariable = false
	v.advance(ctx, eventRender)
	v.logger().WithField("overlay", p).Debug("map rendered")
}

// updateLinks refreshes the links that depend on the viewport. v.mu must be
// held.
func (v *Viewer) updateLinks() {
	if v.st.LayerKey == "" {
		return
	}
	o := v.st.overlay()
	vp := v.Map.Viewport()
	v.Display.SetLinks(Links{
		Permalink:       v.Overlay.Permalink(o, vp),
		Export:          v.Overlay.ExportURL(o, vp),
		ExportAnimation: o.TimeSeries(),
		TestImage:       v.Overlay.TestImageURL(o),
	})
}

// SelectLevel chooses a level of the vertical axis.
func (v *Viewer) SelectLevel(ctx context.Context, index int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.st.Axis == nil || index < 0 || index >= len(v.st.Axis.Levels) {
		return fmt.Errorf("gui: level %d out of range", index)
	}
	v.st.LevelIndex = index
	v.render(ctx)
	return nil
}

// SelectTime chooses a timestep of the displayed day.
func (v *Viewer) SelectTime(ctx context.Context, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.Time = value
	v.render(ctx)
	return nil
}

// SetOpacity sets the overlay opacity, clamped to [0, 100].
func (v *Viewer) SetOpacity(ctx context.Context, pct int) error {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.Opacity = pct
	v.render(ctx)
	return nil
}

// SetFirstFrame makes the selected time the start of the animation.
func (v *Viewer) SetFirstFrame() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.FirstFrame = v.st.Time
	v.Display.SetFrames(v.st.FirstFrame, v.st.LastFrame)
	v.updateLinks()
}

// SetLastFrame makes the selected time the end of the animation.
func (v *Viewer) SetLastFrame() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.LastFrame = v.st.Time
	v.Display.SetFrames(v.st.FirstFrame, v.st.LastFrame)
	v.updateLinks()
}

// ResetAnimation clears both frames and removes any animation.
func (v *Viewer) ResetAnimation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	animating := v.st.Animating
	v.resetAnimation()
	if animating {
		v.applyOverlay()
	}
	v.updateLinks()
}

// applyOverlay points the overlay layer at the current selection without a
// full render. v.mu must be held.
func (v *Viewer) applyOverlay() {
	if v.st.LayerKey == "" {
		return
	}
	v.Map.SetOverlay(v.Overlay.Params(v.st.overlay()))
}

// resetAnimation must be called with v.mu held.
func (v *Viewer) resetAnimation() {
	v.st.FirstFrame, v.st.LastFrame = "", ""
	if v.st.Animating {
		v.Map.HideAnimation()
	}
	v.st.Animating = false
	v.Display.SetFrames("", "")
}

// CreateAnimation shows an animation between the first and last frames in
// place of the overlay and returns its URL.
func (v *Viewer) CreateAnimation(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	u, err := v.Overlay.AnimationURL(v.st.overlay(), v.Map.Viewport())
	if err != nil {
		v.Display.Alert(err.Error())
		return "", err
	}
	v.st.Animating = true
	v.applyOverlay()
	v.Map.ShowAnimation(u)
	v.logger().WithField("url", u).Info("animation created")
	return u, nil
}

// HideAnimation returns to the live overlay.
func (v *Viewer) HideAnimation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.st.Animating {
		return
	}
	v.st.Animating = false
	v.Map.HideAnimation()
	v.applyOverlay()
}

// ViewportChanged refreshes the links after the map has been moved.
func (v *Viewer) ViewportChanged() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.updateLinks()
}

// ZoomToLayer fits the map to the selected layer.
func (v *Viewer) ZoomToLayer() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.st.LayerBBox == nil {
		return
	}
	v.Map.ZoomTo(v.st.LayerBBox.Bounds())
	v.updateLinks()
}

// FeatureInfo shows the data value under pixel (x, y) of the map. When an
// animation range is set, a link to a time series plot at that point is
// offered as well.
func (v *Viewer) FeatureInfo(ctx context.Context, x, y int) (*ncwms.FeatureInfo, error) {
	v.mu.Lock()
	if v.st.LayerKey == "" {
		v.mu.Unlock()
		return nil, nil
	}
	o := v.st.overlay()
	vp := v.Map.Viewport()
	req := v.Overlay.FeatureInfoRequest(o, vp, x, y)
	v.mu.Unlock()

	info, err := v.Client.FeatureInfo(ctx, req)
	if errors.Is(err, ncwms.ErrNoFeatureInfo) {
		v.mu.Lock()
		v.Display.SetFeatureInfo("Can't get feature info data for this layer", "")
		v.mu.Unlock()
		return nil, err
	}
	if err != nil {
		return nil, v.fail("getting feature info", err)
	}

	text := "Lon: " + ncwms.FormatSignificant(info.Lon, 4) +
		"  Lat: " + ncwms.FormatSignificant(info.Lat, 4) +
		"  Value: " + ncwms.FormatSignificant(info.Value, 4)
	ts, _ := v.Overlay.TimeSeriesURL(o, vp, x, y)

	v.mu.Lock()
	v.Display.SetFeatureInfo(text, ts)
	v.mu.Unlock()
	return info, nil
}
