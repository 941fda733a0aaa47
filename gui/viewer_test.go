package gui

import (
	"context"
	"errors"
	"io/ioutil"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	ncwms "github.com/kwilcox/ncWMS"
	"github.com/kwilcox/ncWMS/mock_ncwms"
	"github.com/sirupsen/logrus"
)

var world = ncwms.BoundingBox{MinLon: -180, MinLat: -90, MaxLon: 180, MaxLat: 90}

type fixture struct {
	client  *mock_ncwms.MockMetadataClient
	m       *HeadlessMap
	menu    *HeadlessMenu
	display *HeadlessDisplay
	v       *Viewer
}

func newFixture(t *testing.T) (*fixture, func()) {
	ctrl := gomock.NewController(t)
	f := &fixture{
		client:  mock_ncwms.NewMockMetadataClient(ctrl),
		m:       NewHeadlessMap(ncwms.Viewport{BBox: world, Width: 800, Height: 400}),
		menu:    &HeadlessMenu{},
		display: &HeadlessDisplay{},
	}
	f.v = NewViewer(f.client, f.m, f.menu, f.display, &ncwms.OverlayBuilder{
		WMSURL:  "http://example.com/ncWMS/wms",
		PageURL: "http://example.com/ncWMS/godiva2.html",
	})
	log := logrus.New()
	log.Out = ioutil.Discard
	f.v.Log = log
	f.v.Now = func() time.Time { return time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC) }
	return f, ctrl.Finish
}

func foamDetails() *ncwms.VariableDetails {
	return &ncwms.VariableDetails{
		Dataset: "FOAM one degree",
		Title:   "sea_water_temperature",
		Units:   "K",
		Axis:    &ncwms.VerticalAxis{Positive: false, Units: "m", Levels: []float64{5, 10, 20}},
		BBox:    world,
	}
}

func foamCalendar() *ncwms.Calendar {
	return &ncwms.Calendar{
		NearestIndex:       12,
		NearestValue:       "2006-10-01T00:00:00Z",
		PrettyNearestValue: "01 Oct 2006 00:00:00",
		Heading:            "Oct 2006",
		Days: []ncwms.CalendarDay{
			{Day: 1, TIndex: 12, Value: "2006-10-01T00:00:00Z", Pretty: "01 Oct 2006 00:00:00"},
		},
	}
}

func foamTimesteps() []ncwms.Timestep {
	return []ncwms.Timestep{
		{Value: "2006-10-01T00:00:00Z", Label: "00:00:00"},
		{Value: "2006-10-01T12:00:00Z", Label: "12:00:00"},
	}
}

// expectFoam sets up the responses for selecting FOAM_ONE/TMP with no deep
// link, n times.
func (f *fixture) expectFoam(n int) {
	f.client.EXPECT().VariableDetails(gomock.Any(), "FOAM_ONE", "TMP").Return(foamDetails(), nil).Times(n)
	f.client.EXPECT().Calendar(gomock.Any(), "FOAM_ONE", "TMP", gomock.Any()).Return(foamCalendar(), nil).Times(n)
	f.client.EXPECT().Timesteps(gomock.Any(), "FOAM_ONE", "TMP", 12).Return(foamTimesteps(), nil).Times(n)
	f.client.EXPECT().MinMax(gomock.Any(), ncwms.MinMaxRequest{
		LayerKey:  "FOAM_ONE/TMP",
		BBox:      world,
		Elevation: -5,
		Time:      "2006-10-01T00:00:00Z",
	}).Return(&ncwms.MinMax{Min: 270, Max: 300}, nil).Times(n)
}

func TestViewer_Workflow(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	datasets := []ncwms.Dataset{{ID: "FOAM_ONE", Title: "FOAM one degree"}, {ID: "OSTIA", Title: "OSTIA"}}
	vars := []ncwms.Variable{{ID: "TMP", Title: "sea_water_temperature"}}
	gomock.InOrder(
		f.client.EXPECT().ListDatasets(gomock.Any(), "").Return(datasets, nil),
		f.client.EXPECT().ListVariables(gomock.Any(), "FOAM_ONE").Return(vars, nil),
		f.client.EXPECT().VariableDetails(gomock.Any(), "FOAM_ONE", "TMP").Return(foamDetails(), nil),
		f.client.EXPECT().Calendar(gomock.Any(), "FOAM_ONE", "TMP", "2026-10-19T00:00:00Z").Return(foamCalendar(), nil),
		f.client.EXPECT().Timesteps(gomock.Any(), "FOAM_ONE", "TMP", 12).Return(foamTimesteps(), nil),
		f.client.EXPECT().MinMax(gomock.Any(), ncwms.MinMaxRequest{
			LayerKey:  "FOAM_ONE/TMP",
			BBox:      world,
			Elevation: -5,
			Time:      "2006-10-01T00:00:00Z",
		}).Return(&ncwms.MinMax{Min: 270, Max: 300}, nil),
	)

	if err := f.v.LoadDatasets(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if s := f.v.Snapshot(); s.Stage != StageDatasetChosen {
		t.Errorf("%v != %v", s.Stage, StageDatasetChosen)
	}
	if !reflect.DeepEqual(f.menu.Datasets(), datasets) {
		t.Errorf("%v != %v", f.menu.Datasets(), datasets)
	}
	if id, got := f.menu.Variables(); id != "FOAM_ONE" || !reflect.DeepEqual(got, vars) {
		t.Errorf("%s %v != FOAM_ONE %v", id, got, vars)
	}

	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}

	s := f.v.Snapshot()
	if s.Stage != StageMapRendered {
		t.Errorf("%v != %v", s.Stage, StageMapRendered)
	}
	if s.NewVariable {
		t.Error("NewVariable should be cleared after rendering")
	}
	if s.LayerKey != "FOAM_ONE/TMP" {
		t.Errorf("%v != %v", s.LayerKey, "FOAM_ONE/TMP")
	}
	if s.Elevation() != -5 {
		t.Errorf("%v != %v", s.Elevation(), -5)
	}
	wantScale := ncwms.Scale{Min: 270, Max: 300}
	if !s.ScaleSet || s.Scale != wantScale {
		t.Errorf("%v != %v", s.Scale, wantScale)
	}

	p, updates, ok := f.m.Overlay()
	if !ok || updates != 1 {
		t.Fatalf("overlay set %d times", updates)
	}
	wantParams := ncwms.OverlayParams{
		Layers:      "FOAM_ONE/TMP",
		Elevation:   -5,
		Time:        "2006-10-01T00:00:00Z",
		Styles:      "boxfill;scale:270:300;opacity:100",
		Transparent: true,
	}
	if !reflect.DeepEqual(p, wantParams) {
		t.Errorf("%v != %v", p, wantParams)
	}

	d := f.display
	if d.Dataset != "FOAM one degree" || d.Variable != "sea_water_temperature" || d.Units != "K" {
		t.Errorf("variable info: %s %s %s", d.Dataset, d.Variable, d.Units)
	}
	if d.Level != 0 || d.Axis == nil {
		t.Errorf("levels: %v %d", d.Axis, d.Level)
	}
	if d.Date != "01 Oct 2006 00:00:00" {
		t.Errorf("%v != %v", d.Date, "01 Oct 2006 00:00:00")
	}
	if d.Highlighted != 12 {
		t.Errorf("%v != %v", d.Highlighted, 12)
	}
	if d.ScaleMin != "270" || d.ScaleMax != "300" {
		t.Errorf("scale fields: %s %s", d.ScaleMin, d.ScaleMax)
	}
	if d.OneThird != "280" || d.TwoThirds != "290" {
		t.Errorf("markers: %s %s", d.OneThird, d.TwoThirds)
	}
	if d.FeatureInfo != featureInfoPrompt {
		t.Errorf("%v != %v", d.FeatureInfo, featureInfoPrompt)
	}
	wantLink := "http://example.com/ncWMS/godiva2.html?dataset=FOAM_ONE&variable=TMP&elevation=-5" +
		"&time=2006-10-01T00%3A00%3A00Z&scale=270,300&bbox=-180,-90,180,90"
	if d.Links.Permalink != wantLink {
		t.Errorf("%v != %v", d.Links.Permalink, wantLink)
	}
	if d.Links.ExportAnimation {
		t.Error("export should not be an animation without frames")
	}
	if len(d.Alerts) != 0 {
		t.Errorf("unexpected alerts: %v", d.Alerts)
	}
}

func TestViewer_DeepLink(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	dl, err := ncwms.ParseDeepLinkURL("http://example.com/ncWMS/godiva2.html?dataset=OSTIA&variable=analysed_sst" +
		"&elevation=-10&time=2006-10-01T12:00:00Z&scale=-2,30&bbox=-10,40,10,60")
	if err != nil {
		t.Fatal(err)
	}
	f.v.SetDeepLink(dl)

	details := foamDetails()
	datasets := []ncwms.Dataset{{ID: "FOAM_ONE", Title: "FOAM one degree"}, {ID: "OSTIA", Title: "OSTIA"}}
	gomock.InOrder(
		f.client.EXPECT().ListDatasets(gomock.Any(), "").Return(datasets, nil),
		f.client.EXPECT().ListVariables(gomock.Any(), "OSTIA").Return([]ncwms.Variable{{ID: "analysed_sst"}}, nil),
		f.client.EXPECT().VariableDetails(gomock.Any(), "OSTIA", "analysed_sst").Return(details, nil),
		f.client.EXPECT().Calendar(gomock.Any(), "OSTIA", "analysed_sst", "2006-10-01T12:00:00Z").Return(foamCalendar(), nil),
		f.client.EXPECT().Timesteps(gomock.Any(), "OSTIA", "analysed_sst", 12).Return(foamTimesteps(), nil),
	)

	if err := f.v.LoadDatasets(ctx, ""); err != nil {
		t.Fatal(err)
	}
	s := f.v.Snapshot()
	if s.LevelIndex != 1 {
		t.Errorf("%v != %v", s.LevelIndex, 1)
	}
	if s.Time != "2006-10-01T12:00:00Z" {
		t.Errorf("%v != %v", s.Time, "2006-10-01T12:00:00Z")
	}
	if f.display.Timestep != 1 {
		t.Errorf("%v != %v", f.display.Timestep, 1)
	}
	wantScale := ncwms.Scale{Min: -2, Max: 30}
	if s.Scale != wantScale {
		t.Errorf("%v != %v", s.Scale, wantScale)
	}
	wantView := ncwms.BoundingBox{MinLon: -10, MinLat: 40, MaxLon: 10, MaxLat: 60}
	if vp := f.m.Viewport(); vp.BBox != wantView {
		t.Errorf("%v != %v", vp.BBox, wantView)
	}

	// The link has been used up: reselecting keeps the previous level and
	// time only where they are still available, and rescales.
	f.m.Pan(world)
	gomock.InOrder(
		f.client.EXPECT().VariableDetails(gomock.Any(), "OSTIA", "analysed_sst").Return(details, nil),
		f.client.EXPECT().Calendar(gomock.Any(), "OSTIA", "analysed_sst", "2006-10-01T12:00:00Z").Return(foamCalendar(), nil),
		f.client.EXPECT().Timesteps(gomock.Any(), "OSTIA", "analysed_sst", 12).Return(foamTimesteps(), nil),
		f.client.EXPECT().MinMax(gomock.Any(), gomock.Any()).Return(&ncwms.MinMax{Min: 271, Max: 305}, nil),
	)
	if err := f.v.SelectVariable(ctx, "OSTIA", "analysed_sst"); err != nil {
		t.Fatal(err)
	}
	s = f.v.Snapshot()
	if s.LevelIndex != 1 {
		t.Errorf("%v != %v", s.LevelIndex, 1)
	}
	if s.Time != "2006-10-01T00:00:00Z" {
		t.Errorf("%v != %v", s.Time, "2006-10-01T00:00:00Z")
	}
	if vp := f.m.Viewport(); vp.BBox != world {
		t.Errorf("%v != %v", vp.BBox, world)
	}
	wantScale = ncwms.Scale{Min: 271, Max: 305}
	if s.Scale != wantScale {
		t.Errorf("%v != %v", s.Scale, wantScale)
	}
}

func TestViewer_DeepLinkMissingDataset(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	f.v.SetDeepLink(ncwms.ParseDeepLink(map[string][]string{
		"DATASET":  {"GONE"},
		"variable": {"TMP"},
		"filter":   {"FOAM"},
	}))
	gomock.InOrder(
		f.client.EXPECT().ListDatasets(gomock.Any(), "FOAM").Return([]ncwms.Dataset{{ID: "FOAM_ONE"}}, nil),
		f.client.EXPECT().ListVariables(gomock.Any(), "FOAM_ONE").Return([]ncwms.Variable{{ID: "TMP"}}, nil),
	)
	if err := f.v.LoadDatasets(ctx, ""); err != nil {
		t.Fatal(err)
	}
	// The variable must not be loaded automatically.
	if s := f.v.Snapshot(); s.LayerKey != "" {
		t.Errorf("layer %q selected from a discarded link", s.LayerKey)
	}
}

func TestViewer_DeepLinkWithoutDataset(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	f.v.SetDeepLink(ncwms.ParseDeepLink(map[string][]string{
		"variable": {"TMP"},
		"bbox":     {"-10,40,10,60"},
	}))
	f.client.EXPECT().ListDatasets(gomock.Any(), "").Return([]ncwms.Dataset{{ID: "FOAM_ONE"}}, nil)
	f.client.EXPECT().ListVariables(gomock.Any(), "FOAM_ONE").Return([]ncwms.Variable{{ID: "TMP"}}, nil)
	f.expectFoam(1)
	if err := f.v.LoadDatasets(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if s := f.v.Snapshot(); s.LayerKey != "FOAM_ONE/TMP" {
		t.Errorf("%v != %v", s.LayerKey, "FOAM_ONE/TMP")
	}
	want := ncwms.BoundingBox{MinLon: -10, MinLat: 40, MaxLon: 10, MaxLat: 60}
	if vp := f.m.Viewport(); vp.BBox != want {
		t.Errorf("%v != %v", vp.BBox, want)
	}
}

func TestViewer_SelectDatasetKeepsLayer(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	datasets := []ncwms.Dataset{{ID: "FOAM_ONE", Title: "FOAM one degree"}, {ID: "OSTIA", Title: "OSTIA analysis"}}
	f.client.EXPECT().ListDatasets(gomock.Any(), "").Return(datasets, nil)
	f.client.EXPECT().ListVariables(gomock.Any(), "FOAM_ONE").Return([]ncwms.Variable{{ID: "TMP"}}, nil)
	f.client.EXPECT().ListVariables(gomock.Any(), "OSTIA").Return([]ncwms.Variable{{ID: "analysed_sst"}}, nil)
	f.expectFoam(2)

	if err := f.v.LoadDatasets(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}

	// Expanding another dataset leaves the displayed layer as it is.
	if err := f.v.SelectDataset(ctx, "OSTIA"); err != nil {
		t.Fatal(err)
	}
	s := f.v.Snapshot()
	if s.DatasetID != "FOAM_ONE" || s.DatasetTitle != "FOAM one degree" {
		t.Errorf("%s %q != FOAM_ONE %q", s.DatasetID, s.DatasetTitle, "FOAM one degree")
	}
	if s.Stage != StageDatasetChosen {
		t.Errorf("%v != %v", s.Stage, StageDatasetChosen)
	}
	if err := f.v.SetOpacity(ctx, 60); err != nil {
		t.Fatal(err)
	}
	if s := f.v.Snapshot(); s.Stage != StageMapRendered {
		t.Errorf("%v != %v", s.Stage, StageMapRendered)
	}

	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}
	if f.display.Dataset != "FOAM one degree" {
		t.Errorf("%v != %v", f.display.Dataset, "FOAM one degree")
	}
	if s := f.v.Snapshot(); s.DatasetTitle != "FOAM one degree" {
		t.Errorf("%v != %v", s.DatasetTitle, "FOAM one degree")
	}
}

func TestViewer_NoDatasets(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	f.client.EXPECT().ListDatasets(gomock.Any(), "").Return(nil, nil)
	err := f.v.LoadDatasets(context.Background(), "")
	if !errors.Is(err, ErrNoDatasets) {
		t.Errorf("%v != %v", err, ErrNoDatasets)
	}
	if len(f.display.Alerts) != 1 {
		t.Errorf("alerts: %v", f.display.Alerts)
	}
}

func TestViewer_ReselectConverges(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()
	f.expectFoam(2)

	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}
	first := f.v.Snapshot()
	p1, _, _ := f.m.Overlay()
	links1 := f.display.Links

	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}
	second := f.v.Snapshot()
	p2, updates, _ := f.m.Overlay()

	if updates != 2 {
		t.Errorf("%v != %v", updates, 2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("%+v != %+v", second, first)
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Errorf("%v != %v", p2, p1)
	}
	if links1 != f.display.Links {
		t.Errorf("%v != %v", f.display.Links, links1)
	}
}

func TestViewer_NoCalendar(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	details := &ncwms.VariableDetails{Title: "bathymetry", Units: "m", BBox: ncwms.BoundingBox{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10}}
	gomock.InOrder(
		f.client.EXPECT().VariableDetails(gomock.Any(), "BATHY", "depth").Return(details, nil),
		f.client.EXPECT().Calendar(gomock.Any(), "BATHY", "depth", "2026-10-19T00:00:00Z").Return(nil, ncwms.ErrNoCalendarData),
		f.client.EXPECT().MinMax(gomock.Any(), ncwms.MinMaxRequest{
			LayerKey: "BATHY/depth",
			BBox:     details.BBox,
		}).Return(&ncwms.MinMax{Min: 0, Max: 6000}, nil),
	)
	if err := f.v.SelectVariable(ctx, "BATHY", "depth"); err != nil {
		t.Fatal(err)
	}

	s := f.v.Snapshot()
	if s.TimeAvailable {
		t.Error("time should be unavailable")
	}
	if s.Elevation() != 0 {
		t.Errorf("%v != %v", s.Elevation(), 0)
	}
	if f.display.Axis != nil {
		t.Error("level selector should be hidden")
	}
	if f.display.Calendar != nil || f.display.Timesteps != nil {
		t.Error("time controls should be cleared")
	}
	p, _, _ := f.m.Overlay()
	if p.Time != "" {
		t.Errorf("overlay time %q", p.Time)
	}
	if p.Styles != "boxfill;scale:0:6000;opacity:100" {
		t.Errorf("%v != %v", p.Styles, "boxfill;scale:0:6000;opacity:100")
	}
}

func TestViewer_AutoScaleNoVisibleData(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()
	f.expectFoam(1)
	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}

	// Entirely outside the layer; no request is made.
	f.m.Pan(ncwms.BoundingBox{MinLon: 200, MinLat: 0, MaxLon: 210, MaxLat: 10})
	if err := f.v.AutoScale(ctx); err != nil {
		t.Fatal(err)
	}
	if _, updates, _ := f.m.Overlay(); updates != 2 {
		t.Errorf("%v != %v", updates, 2)
	}

	f.m.Pan(ncwms.BoundingBox{MinLon: 0, MinLat: 0, MaxLon: 200, MaxLat: 10})
	f.client.EXPECT().MinMax(gomock.Any(), ncwms.MinMaxRequest{
		LayerKey:  "FOAM_ONE/TMP",
		BBox:      ncwms.BoundingBox{MinLon: 0, MinLat: 0, MaxLon: 180, MaxLat: 10},
		Elevation: -5,
		Time:      "2006-10-01T00:00:00Z",
	}).Return(&ncwms.MinMax{Min: 290, Max: 280}, nil)
	if err := f.v.AutoScale(ctx); err != nil {
		t.Fatal(err)
	}
	// Server ranges are applied as they are.
	want := ncwms.Scale{Min: 290, Max: 280}
	if s := f.v.Snapshot(); s.Scale != want {
		t.Errorf("%v != %v", s.Scale, want)
	}
}

func TestViewer_NoScaleYet(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	// A layer without area has no data to sample, so no scale is committed.
	details := foamDetails()
	details.BBox = ncwms.BoundingBox{MinLon: 10, MinLat: 10, MaxLon: 10, MaxLat: 10}
	f.client.EXPECT().VariableDetails(gomock.Any(), "FOAM_ONE", "TMP").Return(details, nil)
	f.client.EXPECT().Calendar(gomock.Any(), "FOAM_ONE", "TMP", gomock.Any()).Return(foamCalendar(), nil)
	f.client.EXPECT().Timesteps(gomock.Any(), "FOAM_ONE", "TMP", 12).Return(foamTimesteps(), nil)
	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}
	if f.v.Snapshot().ScaleSet {
		t.Error("scale should not be set")
	}
	p, _, ok := f.m.Overlay()
	if !ok {
		t.Fatal("no overlay")
	}
	if p.Styles != "boxfill;opacity:100" {
		t.Errorf("%v != %v", p.Styles, "boxfill;opacity:100")
	}
	if strings.Contains(f.display.Links.Permalink, "scale=") {
		t.Errorf("permalink %q", f.display.Links.Permalink)
	}
}

func TestViewer_EditScale(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()
	f.expectFoam(1)
	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}
	committed := ncwms.Scale{Min: 270, Max: 300}

	for _, test := range []struct {
		min, max string
		err      error
	}{
		{"abc", "2", ncwms.ErrNotANumber},
		{"5", "2", ncwms.ErrInvertedRange},
		{"1", "NaN", ncwms.ErrNotANumber},
	} {
		t.Run(test.min+","+test.max, func(t *testing.T) {
			err := f.v.EditScale(ctx, test.min, test.max)
			if !errors.Is(err, test.err) {
				t.Errorf("%v != %v", err, test.err)
			}
			if s := f.v.Snapshot(); s.Scale != committed {
				t.Errorf("%v != %v", s.Scale, committed)
			}
			if f.display.ScaleMin != "270" || f.display.ScaleMax != "300" {
				t.Errorf("fields not reverted: %s %s", f.display.ScaleMin, f.display.ScaleMax)
			}
			if a := f.display.Alerts; len(a) == 0 || a[len(a)-1] != err.Error() {
				t.Errorf("alerts: %v", a)
			}
		})
	}

	if err := f.v.EditScale(ctx, "0", "10"); err != nil {
		t.Fatal(err)
	}
	p, _, _ := f.m.Overlay()
	if p.Styles != "boxfill;scale:0:10;opacity:100" {
		t.Errorf("%v != %v", p.Styles, "boxfill;scale:0:10;opacity:100")
	}
	if s := f.v.Snapshot(); s.Stage != StageMapRendered {
		t.Errorf("%v != %v", s.Stage, StageMapRendered)
	}
}

func TestViewer_Controls(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()
	f.expectFoam(1)
	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}

	if err := f.v.SelectLevel(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := f.v.SelectLevel(ctx, 3); err == nil {
		t.Error("expected an out of range error")
	}
	if err := f.v.SelectTime(ctx, "2006-10-01T12:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := f.v.SetOpacity(ctx, 150); err != nil {
		t.Fatal(err)
	}
	p, _, _ := f.m.Overlay()
	want := ncwms.OverlayParams{
		Layers:      "FOAM_ONE/TMP",
		Elevation:   -20,
		Time:        "2006-10-01T12:00:00Z",
		Styles:      "boxfill;scale:270:300;opacity:100",
		Transparent: true,
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("%v != %v", p, want)
	}
	if err := f.v.SetOpacity(ctx, 40); err != nil {
		t.Fatal(err)
	}
	if p, _, _ := f.m.Overlay(); !strings.HasSuffix(p.Styles, ";opacity:40") {
		t.Errorf("styles %q", p.Styles)
	}

	f.m.Pan(ncwms.BoundingBox{MinLon: -10, MinLat: -10, MaxLon: 10, MaxLat: 10})
	f.v.ViewportChanged()
	if !strings.HasSuffix(f.display.Links.Permalink, "&bbox=-10,-10,10,10") {
		t.Errorf("permalink %q", f.display.Links.Permalink)
	}
	f.v.ZoomToLayer()
	if vp := f.m.Viewport(); vp.BBox != world {
		t.Errorf("%v != %v", vp.BBox, world)
	}
}

func TestViewer_Animation(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()
	f.expectFoam(1)
	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}

	if _, err := f.v.CreateAnimation(ctx); !errors.Is(err, ncwms.ErrNoAnimationFrames) {
		t.Errorf("%v != %v", err, ncwms.ErrNoAnimationFrames)
	}
	if a := f.display.Alerts; len(a) != 1 || a[0] != "must select a first and last frame for the animation" {
		t.Errorf("alerts: %v", a)
	}

	f.v.SetFirstFrame()
	if err := f.v.SelectTime(ctx, "2006-10-01T12:00:00Z"); err != nil {
		t.Fatal(err)
	}
	f.v.SetLastFrame()
	if f.display.FirstFrame != "2006-10-01T00:00:00Z" || f.display.LastFrame != "2006-10-01T12:00:00Z" {
		t.Errorf("frames: %s %s", f.display.FirstFrame, f.display.LastFrame)
	}
	if !f.display.Links.ExportAnimation {
		t.Error("export should cover the animation")
	}
	if !strings.Contains(f.display.Links.Export, "TIME=2006-10-01T00%3A00%3A00Z%2F2006-10-01T12%3A00%3A00Z") {
		t.Errorf("export %q", f.display.Links.Export)
	}

	u, err := f.v.CreateAnimation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"FORMAT=image%2Fgif", "WIDTH=400", "HEIGHT=200", "TIME=2006-10-01T00%3A00%3A00Z%2F2006-10-01T12%3A00%3A00Z"} {
		if !strings.Contains(u, want) {
			t.Errorf("%s missing %s", u, want)
		}
	}
	if f.m.Animation() != u {
		t.Errorf("%v != %v", f.m.Animation(), u)
	}
	if !f.v.Snapshot().Animating {
		t.Error("should be animating")
	}

	timeRange := "2006-10-01T00:00:00Z/2006-10-01T12:00:00Z"
	if p, _, _ := f.m.Overlay(); p.Time != timeRange {
		t.Errorf("%v != %v", p.Time, timeRange)
	}

	// Redrawing during the animation must not leave the range behind.
	if err := f.v.SetOpacity(ctx, 50); err != nil {
		t.Fatal(err)
	}
	f.v.HideAnimation()
	if f.m.Animation() != "" || f.v.Snapshot().Animating {
		t.Error("animation should be hidden")
	}
	p, _, _ := f.m.Overlay()
	if p.Time != "2006-10-01T12:00:00Z" {
		t.Errorf("%v != %v", p.Time, "2006-10-01T12:00:00Z")
	}
	if p.Styles != "boxfill;scale:270:300;opacity:50" {
		t.Errorf("%v != %v", p.Styles, "boxfill;scale:270:300;opacity:50")
	}

	if _, err := f.v.CreateAnimation(ctx); err != nil {
		t.Fatal(err)
	}
	f.v.ResetAnimation()
	if p, _, _ := f.m.Overlay(); p.Time != "2006-10-01T12:00:00Z" {
		t.Errorf("%v != %v", p.Time, "2006-10-01T12:00:00Z")
	}
	if f.m.Animation() != "" {
		t.Error("animation should be removed by a reset")
	}
	s := f.v.Snapshot()
	if s.FirstFrame != "" || s.LastFrame != "" {
		t.Errorf("frames not reset: %s %s", s.FirstFrame, s.LastFrame)
	}
	if f.display.Links.ExportAnimation {
		t.Error("export should not cover an animation after reset")
	}
}

func TestViewer_SupersededResponse(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()

	varsA := []ncwms.Variable{{ID: "a"}}
	varsB := []ncwms.Variable{{ID: "b"}}
	f.client.EXPECT().ListVariables(gomock.Any(), "B").Return(varsB, nil)
	f.client.EXPECT().ListVariables(gomock.Any(), "A").DoAndReturn(
		func(ctx context.Context, _ string) ([]ncwms.Variable, error) {
			// The user picks another dataset before this response arrives.
			if err := f.v.SelectDataset(ctx, "B"); err != nil {
				t.Fatal(err)
			}
			return varsA, nil
		})

	if err := f.v.SelectDataset(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	id, vars := f.menu.Variables()
	if id != "B" || !reflect.DeepEqual(vars, varsB) {
		t.Errorf("%s %v != B %v", id, vars, varsB)
	}
}

func TestViewer_FeatureInfo(t *testing.T) {
	f, finish := newFixture(t)
	defer finish()
	ctx := context.Background()
	f.expectFoam(1)
	if err := f.v.SelectVariable(ctx, "FOAM_ONE", "TMP"); err != nil {
		t.Fatal(err)
	}

	req := ncwms.FeatureInfoRequest{
		LayerKey:  "FOAM_ONE/TMP",
		BBox:      world,
		X:         100,
		Y:         50,
		Width:     800,
		Height:    400,
		Elevation: -5,
		Time:      "2006-10-01T00:00:00Z",
	}
	f.client.EXPECT().FeatureInfo(gomock.Any(), req).Return(&ncwms.FeatureInfo{
		Lon: "-12.3456789", Lat: "45.678901", Value: "283.123456",
	}, nil)
	if _, err := f.v.FeatureInfo(ctx, 100, 50); err != nil {
		t.Fatal(err)
	}
	want := "Lon: -12.34  Lat: 45.67  Value: 283.1"
	if f.display.FeatureInfo != want {
		t.Errorf("%v != %v", f.display.FeatureInfo, want)
	}
	if f.display.TimeSeriesURL != "" {
		t.Errorf("unexpected time series %q", f.display.TimeSeriesURL)
	}

	f.v.SetFirstFrame()
	f.v.SetLastFrame()
	f.client.EXPECT().FeatureInfo(gomock.Any(), req).Return(&ncwms.FeatureInfo{Lon: "1", Lat: "2", Value: "none"}, nil)
	if _, err := f.v.FeatureInfo(ctx, 100, 50); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.display.TimeSeriesURL, "INFO_FORMAT=image%2Fpng") {
		t.Errorf("time series %q", f.display.TimeSeriesURL)
	}

	f.client.EXPECT().FeatureInfo(gomock.Any(), req).Return(nil, ncwms.ErrNoFeatureInfo)
	if _, err := f.v.FeatureInfo(ctx, 100, 50); !errors.Is(err, ncwms.ErrNoFeatureInfo) {
		t.Errorf("%v != %v", err, ncwms.ErrNoFeatureInfo)
	}
	if f.display.FeatureInfo != "Can't get feature info data for this layer" {
		t.Errorf("feature info %q", f.display.FeatureInfo)
	}
}
