//go:build js
// +build js

package gui

import (
	"fmt"
	"html"
	"syscall/js"

	ncwms "github.com/kwilcox/ncWMS"
)

func updateSelector(doc, selector js.Value, values, text []string) {
	selector.Set("innerHTML", "")
	for i, value := range values {
		option := doc.Call("createElement", "option")
		option.Set("value", value)
		option.Set("text", text[i])
		selector.Call("appendChild", option)
	}
}

func selectorValue(selector js.Value) (value, text string) {
	options := selector.Get("options")
	selectedIndex := selector.Get("selectedIndex").Int()
	if selectedIndex < 0 {
		return "", ""
	}
	selection := options.Index(selectedIndex)
	value = selection.Get("value").String()
	text = selection.Get("text").String()
	return value, text
}

// elements looks up page elements by id, caching them.
type elements struct {
	doc   js.Value
	cache map[string]js.Value
}

func newElements(doc js.Value) *elements {
	return &elements{doc: doc, cache: make(map[string]js.Value)}
}

func (e *elements) get(id string) js.Value {
	if v, ok := e.cache[id]; ok {
		return v
	}
	v := e.doc.Call("getElementById", id)
	e.cache[id] = v
	return v
}

// set replaces a cached element, for tests and pages that build their
// controls dynamically.
func (e *elements) set(id string, v js.Value) { e.cache[id] = v }

func (e *elements) setHTML(id, s string) {
	if el := e.get(id); !el.IsNull() && !el.IsUndefined() {
		el.Set("innerHTML", s)
	}
}

func (e *elements) setVisible(id string, visible bool) {
	el := e.get(id)
	if el.IsNull() || el.IsUndefined() {
		return
	}
	v := "hidden"
	if visible {
		v = "visible"
	}
	el.Get("style").Set("visibility", v)
}

// DOMMenu fills the "datasetSelector" and "variableSelector" elements.
type DOMMenu struct {
	*elements
}

func NewDOMMenu(doc js.Value) *DOMMenu {
	return &DOMMenu{elements: newElements(doc)}
}

func (m *DOMMenu) SetDatasets(ds []ncwms.Dataset) {
	values := make([]string, len(ds))
	text := make([]string, len(ds))
	for i, d := range ds {
		values[i], text[i] = d.ID, d.Title
	}
	updateSelector(m.doc, m.get("datasetSelector"), values, text)
}

func (m *DOMMenu) SetVariables(datasetID string, vars []ncwms.Variable) {
	sel := m.get("datasetSelector")
	options := sel.Get("options")
	for i := 0; i < options.Length(); i++ {
		if options.Index(i).Get("value").String() == datasetID {
			sel.Set("selectedIndex", i)
			break
		}
	}
	values := make([]string, len(vars))
	text := make([]string, len(vars))
	for i, v := range vars {
		values[i], text[i] = v.ID, v.Title
	}
	updateSelector(m.doc, m.get("variableSelector"), values, text)
	m.get("variableSelector").Set("selectedIndex", -1)
}

// DOMDisplay writes the viewer's state into the page.
type DOMDisplay struct {
	*elements
}

func NewDOMDisplay(doc js.Value) *DOMDisplay {
	return &DOMDisplay{elements: newElements(doc)}
}

func (d *DOMDisplay) SetVariableInfo(dataset, variable, units string) {
	d.setHTML("datasetName", html.EscapeString(dataset))
	d.setHTML("variableName", html.EscapeString(variable))
	d.setHTML("units", "<b>Units: </b>"+html.EscapeString(units))
}

func (d *DOMDisplay) SetLevels(axis *ncwms.VerticalAxis, selected int) {
	if axis == nil || len(axis.Levels) == 0 {
		d.setVisible("zAxis", false)
		d.get("zValues").Set("innerHTML", "")
		return
	}
	values := make([]string, len(axis.Levels))
	for i, z := range axis.Levels {
		values[i] = ncwms.FormatFloat(z)
	}
	d.setHTML("zAxis", "<b>"+axis.Label()+" ("+html.EscapeString(axis.Units)+"): </b>")
	updateSelector(d.doc, d.get("zValues"), values, values)
	d.get("zValues").Set("selectedIndex", selected)
	d.setVisible("zAxis", true)
}

func (d *DOMDisplay) SetCalendar(cal *ncwms.Calendar) {
	if cal == nil {
		d.setHTML("calendar", "")
		d.setVisible("utc", false)
		return
	}
	d.setHTML("calendar", calendarHTML(cal))
}

func (d *DOMDisplay) HighlightDay(tIndex int) {
	cal := d.get("calendar")
	if cal.IsNull() || cal.IsUndefined() {
		return
	}
	cells := cal.Call("querySelectorAll", "td[id^='t']")
	for i := 0; i < cells.Length(); i++ {
		cells.Index(i).Get("style").Set("backgroundColor", "white")
	}
	if el := cal.Call("querySelector", fmt.Sprintf("#t%d", tIndex)); !el.IsNull() {
		el.Get("style").Set("backgroundColor", "#dadee9")
	}
}

func (d *DOMDisplay) SetDate(pretty string) {
	if pretty == "" {
		d.setHTML("date", "")
		return
	}
	d.setHTML("date", "<b>Date/time: </b>"+html.EscapeString(pretty))
	d.setVisible("utc", true)
}

func (d *DOMDisplay) SetTimesteps(steps []ncwms.Timestep, selected int) {
	values := make([]string, len(steps))
	text := make([]string, len(steps))
	for i, s := range steps {
		values[i], text[i] = s.Value, s.Label
	}
	updateSelector(d.doc, d.get("tValues"), values, text)
	if len(steps) > 0 {
		d.get("tValues").Set("selectedIndex", selected)
	}
	d.setVisible("setFrames", len(steps) > 0)
}

func (d *DOMDisplay) SetScale(min, max string) {
	d.get("scaleMin").Set("value", min)
	d.get("scaleMax").Set("value", max)
}

func (d *DOMDisplay) SetScaleMarkers(oneThird, twoThirds string) {
	d.setHTML("scaleOneThird", oneThird)
	d.setHTML("scaleTwoThirds", twoThirds)
}

func (d *DOMDisplay) SetLinks(l Links) {
	d.setHTML("permalink", `<a target="_blank" href="`+html.EscapeString(l.Permalink)+`">Permalink</a>`)
	d.setVisible("permalink", l.Permalink != "")
	label := "Open in Google Earth"
	if l.ExportAnimation {
		label = "Open animation in Google Earth"
	}
	d.setHTML("googleEarth", `<a href="`+html.EscapeString(l.Export)+`">`+label+`</a>`)
	d.setHTML("testImage", `<a href="`+html.EscapeString(l.TestImage)+`">link to test image</a>`)
}

func (d *DOMDisplay) SetFrames(first, last string) {
	d.setHTML("firstFrame", html.EscapeString(first))
	d.setHTML("lastFrame", html.EscapeString(last))
}

func (d *DOMDisplay) SetFeatureInfo(text, timeSeriesURL string) {
	s := html.EscapeString(text)
	if timeSeriesURL != "" {
		s += `<br /><a href="` + html.EscapeString(timeSeriesURL) + `" target="_blank">Create timeseries plot</a>`
	}
	d.setHTML("featureInfo", s)
	d.setVisible("featureInfo", true)
}

func (d *DOMDisplay) Alert(msg string) {
	js.Global().Call("alert", msg)
}
