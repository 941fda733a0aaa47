package ncwms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Image formats used by the overlay and its companion links.
const (
	FormatPNG = "image/png"
	FormatGIF = "image/gif"
	FormatKMZ = "application/vnd.google-earth.kmz"
)

// testImageSize is the width and height of the test image, one map tile.
const testImageSize = 256

// LayerKey returns the WMS layer name for a variable in a dataset, or "" if
// either is empty.
func LayerKey(datasetID, variable string) string {
	if datasetID == "" || variable == "" {
		return ""
	}
	return datasetID + "/" + variable
}

// OverlayState is the part of the viewer's selection that determines what the
// overlay layer shows.
type OverlayState struct {
	Dataset  string
	Variable string
	// Elevation is already sign-adjusted, and 0 if there is no vertical axis.
	Elevation float64
	Time      string

	FirstFrame, LastFrame string
	// Animating is true while an animation is displayed in place of the
	// live overlay.
	Animating bool

	Scale    Scale
	ScaleSet bool
	// Opacity is a percentage in [0, 100].
	Opacity   int
	LayerBBox *BoundingBox
}

// LayerKey returns the WMS layer name of the selection.
func (s OverlayState) LayerKey() string { return LayerKey(s.Dataset, s.Variable) }

// scale returns the committed color scale, or nil if there is none yet.
func (s OverlayState) scale() *Scale {
	if !s.ScaleSet {
		return nil
	}
	return &s.Scale
}

// TimeSeries reports whether both animation frames are set.
func (s OverlayState) TimeSeries() bool {
	return s.FirstFrame != "" && s.LastFrame != ""
}

// TimeRange returns the "first/last" WMS TIME value of the animation frames.
func (s OverlayState) TimeRange() string {
	return s.FirstFrame + "/" + s.LastFrame
}

// Viewport is the extent and pixel size of the visible map.
type Viewport struct {
	BBox          BoundingBox
	Width, Height int
}

// OverlayParams configures the map widget's overlay layer.
type OverlayParams struct {
	Layers      string
	Elevation   float64
	Time        string
	Styles      string
	Transparent bool
}

// Values returns p as WMS request parameters.
func (p OverlayParams) Values() url.Values {
	v := url.Values{}
	v.Set("LAYERS", p.Layers)
	v.Set("ELEVATION", FormatFloat(p.Elevation))
	if p.Time != "" {
		v.Set("TIME", p.Time)
	}
	v.Set("STYLES", p.Styles)
	v.Set("TRANSPARENT", strconv.FormatBool(p.Transparent))
	return v
}

// Style returns the boxfill style descriptor carrying the color scale, if
// one is given, and the overlay opacity when it is non-negative. SCALE and
// OPACITY are ncWMS extensions to WMS; without a scale the server uses the
// layer's default range.
func Style(s *Scale, opacity int) string {
	style := "boxfill"
	if s != nil {
		style += ";scale:" + FormatFloat(s.Min) + ":" + FormatFloat(s.Max)
	}
	if opacity >= 0 {
		style += ";opacity:" + strconv.Itoa(opacity)
	}
	return style
}

// OverlayBuilder derives the overlay layer parameters and the URLs that
// accompany it from the viewer's selection.
type OverlayBuilder struct {
	// WMSURL is the server's WMS endpoint, e.g. "http://host/ncWMS/wms".
	WMSURL string
	// PageURL is the address of the viewer page that permalinks point to.
	PageURL string
}

// Params returns the overlay layer configuration for s.
func (b *OverlayBuilder) Params(s OverlayState) OverlayParams {
	t := s.Time
	if s.Animating && s.TimeSeries() {
		t = s.TimeRange()
	}
	return OverlayParams{
		Layers:      s.LayerKey(),
		Elevation:   s.Elevation,
		Time:        t,
		Styles:      Style(s.scale(), s.Opacity),
		Transparent: true,
	}
}

// getMap returns GetMap parameters for s over bbox. An opacity of -1 leaves
// it out of the style.
func (b *OverlayBuilder) getMap(s OverlayState, bbox BoundingBox, width, height int, format string, opacity int) url.Values {
	v := url.Values{}
	v.Set("SERVICE", "WMS")
	v.Set("VERSION", "1.3.0")
	v.Set("REQUEST", "GetMap")
	v.Set("LAYERS", s.LayerKey())
	v.Set("STYLES", Style(s.scale(), opacity))
	v.Set("ELEVATION", FormatFloat(s.Elevation))
	if s.Time != "" {
		v.Set("TIME", s.Time)
	}
	v.Set("CRS", "CRS:84")
	v.Set("BBOX", bbox.String())
	v.Set("WIDTH", strconv.Itoa(width))
	v.Set("HEIGHT", strconv.Itoa(height))
	v.Set("FORMAT", format)
	v.Set("TRANSPARENT", "true")
	return v
}

func (b *OverlayBuilder) url(v url.Values) string {
	sep := "?"
	if strings.Contains(b.WMSURL, "?") {
		sep = "&"
	}
	return b.WMSURL + sep + v.Encode()
}

// Permalink returns a link to the viewer page that restores the selection
// and the current viewport.
func (b *OverlayBuilder) Permalink(s OverlayState, vp Viewport) string {
	q := []string{
		"dataset=" + url.QueryEscape(s.Dataset),
		"variable=" + url.QueryEscape(s.Variable),
		"elevation=" + FormatFloat(s.Elevation),
	}
	if s.Time != "" {
		q = append(q, "time="+url.QueryEscape(s.Time))
	}
	if s.ScaleSet {
		q = append(q, "scale="+s.Scale.String())
	}
	q = append(q, "bbox="+vp.BBox.String())
	return b.PageURL + "?" + strings.Join(q, "&")
}

// exportBBox is the part of the viewport covered by the layer, so that
// exported images have no transparent border.
func exportBBox(s OverlayState, vp Viewport) BoundingBox {
	if s.LayerBBox == nil {
		return vp.BBox
	}
	return Intersect(vp.BBox, *s.LayerBBox)
}

// ExportURL returns a KMZ request for an external globe viewer. Opacity is
// left out since the globe viewer controls it, and the time range of the
// animation frames is used when both are set.
func (b *OverlayBuilder) ExportURL(s OverlayState, vp Viewport) string {
	v := b.getMap(s, exportBBox(s, vp), vp.Width, vp.Height, FormatKMZ, -1)
	if s.TimeSeries() {
		v.Set("TIME", s.TimeRange())
	}
	return b.url(v)
}

// AnimationURL returns an animated GIF request covering the viewport at half
// its resolution. GIFs have no partial transparency so opacity is left out.
func (b *OverlayBuilder) AnimationURL(s OverlayState, vp Viewport) (string, error) {
	if !s.TimeSeries() {
		return "", ErrNoAnimationFrames
	}
	v := b.getMap(s, vp.BBox, vp.Width/2, vp.Height/2, FormatGIF, -1)
	v.Set("TIME", s.TimeRange())
	return b.url(v), nil
}

// TestImageURL returns a single PNG of the whole layer.
func (b *OverlayBuilder) TestImageURL(s OverlayState) string {
	bbox := BoundingBox{MinLon: -180, MinLat: -90, MaxLon: 180, MaxLat: 90}
	if s.LayerBBox != nil {
		bbox = *s.LayerBBox
	}
	return b.url(b.getMap(s, bbox, testImageSize, testImageSize, FormatPNG, s.Opacity))
}

// FeatureInfoRequest returns the request for the value under pixel (x, y)
// of the viewport.
func (b *OverlayBuilder) FeatureInfoRequest(s OverlayState, vp Viewport, x, y int) FeatureInfoRequest {
	return FeatureInfoRequest{
		LayerKey:  s.LayerKey(),
		BBox:      vp.BBox,
		X:         x,
		Y:         y,
		Width:     vp.Width,
		Height:    vp.Height,
		Elevation: s.Elevation,
		Time:      s.Time,
	}
}

// TimeSeriesURL returns a request for a PNG plot of the values under pixel
// (x, y) between the two animation frames.
func (b *OverlayBuilder) TimeSeriesURL(s OverlayState, vp Viewport, x, y int) (string, error) {
	if !s.TimeSeries() {
		return "", ErrNoAnimationFrames
	}
	v := b.FeatureInfoRequest(s, vp, x, y).Values()
	v.Set("TIME", s.TimeRange())
	v.Set("INFO_FORMAT", FormatPNG)
	return b.url(v), nil
}

// Values returns r as WMS 1.3.0 GetFeatureInfo parameters.
func (r FeatureInfoRequest) Values() url.Values {
	v := url.Values{}
	v.Set("SERVICE", "WMS")
	v.Set("VERSION", "1.3.0")
	v.Set("REQUEST", "GetFeatureInfo")
	v.Set("LAYERS", r.LayerKey)
	v.Set("QUERY_LAYERS", r.LayerKey)
	v.Set("STYLES", "")
	v.Set("ELEVATION", FormatFloat(r.Elevation))
	if r.Time != "" {
		v.Set("TIME", r.Time)
	}
	v.Set("CRS", "CRS:84")
	v.Set("BBOX", r.BBox.String())
	v.Set("WIDTH", strconv.Itoa(r.Width))
	v.Set("HEIGHT", strconv.Itoa(r.Height))
	v.Set("I", strconv.Itoa(r.X))
	v.Set("J", strconv.Itoa(r.Y))
	v.Set("INFO_FORMAT", "text/xml")
	return v
}

// Values returns r as parameters of the minmax metadata request.
func (r MinMaxRequest) Values() url.Values {
	v := url.Values{}
	v.Set("REQUEST", "GetMetadata")
	v.Set("item", "minmax")
	v.Set("layers", r.LayerKey)
	v.Set("BBOX", r.BBox.String())
	v.Set("WIDTH", strconv.Itoa(MinMaxWidth))
	v.Set("HEIGHT", strconv.Itoa(MinMaxHeight))
	v.Set("CRS", "CRS:84")
	v.Set("ELEVATION", FormatFloat(r.Elevation))
	if r.Time != "" {
		v.Set("TIME", r.Time)
	}
	return v
}

// String describes the parameters for logging.
func (p OverlayParams) String() string {
	return fmt.Sprintf("%s elevation=%s time=%s styles=%s", p.Layers, FormatFloat(p.Elevation), p.Time, p.Styles)
}
