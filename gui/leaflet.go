//go:build js
// +build js

package gui

import (
	"fmt"
	"syscall/js"

	"github.com/ctessum/geom"
	"github.com/ctessum/go-leaflet"
	ncwms "github.com/kwilcox/ncWMS"
)

// Background layer requested in the same projection as the overlay.
const (
	baseWMSURL   = "https://ows.terrestris.de/osm/service"
	baseWMSLayer = "OSM-WMS"
)

// LeafletMap is a MapWidget backed by a Leaflet map in plate carrée
// (EPSG:4326), the projection ncWMS renders overlays in.
type LeafletMap struct {
	// WMSURL is where overlay tiles are requested from.
	WMSURL string

	doc       js.Value
	mapDiv    js.Value
	lmap      *leaflet.Map
	wms       js.Value
	extent    js.Value
	animation js.Value
}

// NewLeafletMap creates a map in the element with id "mapDiv".
func NewLeafletMap(wmsURL string) *LeafletMap {
	m := &LeafletMap{
		WMSURL:    wmsURL,
		doc:       js.Global().Get("document"),
		wms:       js.Undefined(),
		extent:    js.Undefined(),
		animation: js.Undefined(),
	}
	m.mapDiv = m.doc.Call("getElementById", "mapDiv")
	m.load()
	return m
}

func (m *LeafletMap) load() {
	m.setMapHeight()

	m.lmap = leaflet.NewMap(m.mapDiv, map[string]interface{}{
		"crs":          epsg4326(),
		"preferCanvas": true,
	})
	m.lmap.SetView(leaflet.NewLatLng(0, 0), 1)

	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		m.setMapHeight()
		return nil
	})
	js.Global().Get("window").Call("addEventListener", "resize", cb)

	options := make(map[string]interface{})
	options["layers"] = baseWMSLayer
	options["format"] = "image/png"
	options["attribution"] = `Map data &copy; <a href="http://openstreetmap.org">OpenStreetMap</a> contributors`
	leaflet.L.Get("tileLayer").Call("wms", baseWMSURL, options).Call("addTo", m.lmap.Value)

	leaflet.L.Get("control").Call("scale").Call("addTo", m.lmap.Value)
}

func epsg4326() js.Value {
	return leaflet.L.Get("CRS").Get("EPSG4326")
}

// setMapHeight sets the height of the map to the height of the window.
func (m *LeafletMap) setMapHeight() {
	const mapMargin = 0
	height := js.Global().Get("window").Get("innerHeight")
	m.mapDiv.Get("style").Set("height", fmt.Sprintf("%dpx", height.Int()-mapMargin))
}

// On registers f for a Leaflet map event such as "moveend" or "click".
func (m *LeafletMap) On(event string, f func(e js.Value)) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) > 0 {
			f(args[0])
		} else {
			f(js.Undefined())
		}
		return nil
	})
	m.lmap.Value.Call("on", event, cb)
}

func wmsOptions(p ncwms.OverlayParams) map[string]interface{} {
	o := map[string]interface{}{
		"layers":      p.Layers,
		"styles":      p.Styles,
		"elevation":   ncwms.FormatFloat(p.Elevation),
		"transparent": p.Transparent,
		"format":      ncwms.FormatPNG,
		"version":     "1.3.0",
	}
	if p.Time != "" {
		o["time"] = p.Time
	}
	return o
}

// SetOverlay creates the WMS layer on first use and updates its parameters
// afterwards.
func (m *LeafletMap) SetOverlay(p ncwms.OverlayParams) {
	opts := wmsOptions(p)
	if m.wms.IsUndefined() {
		opts["crs"] = epsg4326()
		m.wms = leaflet.L.Get("tileLayer").Call("wms", m.WMSURL, opts)
		m.wms.Call("addTo", m.lmap.Value)
		return
	}
	m.wms.Call("setParams", opts)
}

// Viewport returns the visible extent and the size of the map in pixels.
func (m *LeafletMap) Viewport() ncwms.Viewport {
	b := m.lmap.Value.Call("getBounds")
	size := m.lmap.Value.Call("getSize")
	return ncwms.Viewport{
		BBox: ncwms.BoundingBox{
			MinLon: b.Call("getWest").Float(),
			MinLat: b.Call("getSouth").Float(),
			MaxLon: b.Call("getEast").Float(),
			MaxLat: b.Call("getNorth").Float(),
		},
		Width:  size.Get("x").Int(),
		Height: size.Get("y").Int(),
	}
}

func latLngBounds(b *geom.Bounds) js.Value {
	ll := leaflet.NewLatLng(b.Min.Y, b.Min.X)
	ur := leaflet.NewLatLng(b.Max.Y, b.Max.X)
	return leaflet.L.Call("latLngBounds", ll.Value, ur.Value)
}

// ZoomTo moves the map to b and outlines it.
func (m *LeafletMap) ZoomTo(b *geom.Bounds) {
	m.lmap.Value.Call("flyToBounds", latLngBounds(b))
	m.outline(b)
}

func (m *LeafletMap) outline(b *geom.Bounds) {
	if !m.extent.IsUndefined() {
		m.extent.Call("remove")
	}
	gj, err := boundsToGeoJSON(b)
	if err != nil {
		m.extent = js.Undefined()
		return
	}
	data := js.Global().Get("JSON").Call("parse", string(gj))
	m.extent = leaflet.L.Call("geoJSON", data, map[string]interface{}{
		"style": map[string]interface{}{"fill": false, "weight": 1},
	})
	m.extent.Call("addTo", m.lmap.Value)
}

// ShowAnimation hides the tiled overlay and shows the image at url over the
// current extent.
func (m *LeafletMap) ShowAnimation(url string) {
	m.HideAnimation()
	if !m.wms.IsUndefined() {
		m.wms.Call("setOpacity", 0)
	}
	bounds := m.lmap.Value.Call("getBounds")
	m.animation = leaflet.L.Call("imageOverlay", url, bounds)
	m.animation.Call("addTo", m.lmap.Value)
}

// HideAnimation removes the animation and restores the tiled overlay.
func (m *LeafletMap) HideAnimation() {
	if m.animation.IsUndefined() {
		return
	}
	m.animation.Call("remove")
	m.animation = js.Undefined()
	if !m.wms.IsUndefined() {
		m.wms.Call("setOpacity", 1)
	}
}
