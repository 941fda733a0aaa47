//go:build js
// +build js

package gui

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"syscall/js"

	ncwms "github.com/kwilcox/ncWMS"
	"github.com/kwilcox/ncWMS/wmsclient"
	"github.com/sirupsen/logrus"
)

// Page connects a Viewer to the Godiva2 page it is running in.
type Page struct {
	*Viewer
	Map *LeafletMap

	doc js.Value
	ctx context.Context
}

// DefaultServer is the address of the ncWMS server that served the page.
func DefaultServer() string {
	doc := js.Global().Get("document")
	u, err := url.Parse(doc.Get("baseURI").String())
	if err != nil {
		logrus.Error(err)
		panic(err)
	}
	u.RawQuery, u.Fragment = "", ""
	u.Path = path.Dir(u.Path)
	return u.String()
}

// NewPage returns a page viewer for the server at server, typically
// DefaultServer().
func NewPage(server string) (*Page, error) {
	cfg := wmsclient.DefaultConfig()
	cfg.Server = server
	client, err := wmsclient.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	doc := js.Global().Get("document")
	m := NewLeafletMap(client.WMSURL())
	loc := js.Global().Get("location")
	overlay := &ncwms.OverlayBuilder{
		WMSURL:  client.WMSURL(),
		PageURL: loc.Get("origin").String() + loc.Get("pathname").String(),
	}
	p := &Page{
		Viewer: NewViewer(client, m, NewDOMMenu(doc), NewDOMDisplay(doc), overlay),
		Map:    m,
		doc:    doc,
		ctx:    context.Background(),
	}
	if search := loc.Get("search").String(); search != "" {
		q, err := url.ParseQuery(search[1:])
		if err != nil {
			p.Log.WithError(err).Warn("ignoring malformed link")
		} else {
			p.SetDeepLink(ncwms.ParseDeepLink(q))
		}
	}
	return p, nil
}

func (p *Page) element(id string) js.Value {
	return p.doc.Call("getElementById", id)
}

// listen calls f in a new goroutine whenever event fires on the element
// with the given id. Missing elements are skipped.
func (p *Page) listen(id, event string, f func(this js.Value, e js.Value)) {
	el := p.element(id)
	if el.IsNull() {
		p.Log.WithField("element", id).Debug("element not found")
		return
	}
	cb := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		e := js.Undefined()
		if len(args) > 0 {
			e = args[0]
			if event == "click" {
				e.Call("preventDefault")
			}
		}
		go f(this, e)
		return nil
	})
	el.Call("addEventListener", event, cb)
}

func (p *Page) logError(err error) {
	if err != nil {
		p.Log.Error(err)
	}
}

// Monitor wires the page controls to the viewer and loads the datasets.
func (p *Page) Monitor() {
	p.listen("datasetSelector", "change", func(this, _ js.Value) {
		id, _ := selectorValue(this)
		p.logError(p.SelectDataset(p.ctx, id))
	})
	p.listen("variableSelector", "change", func(this, _ js.Value) {
		v, _ := selectorValue(this)
		ds, _ := selectorValue(p.element("datasetSelector"))
		p.logError(p.SelectVariable(p.ctx, ds, v))
	})
	p.listen("zValues", "change", func(this, _ js.Value) {
		p.logError(p.SelectLevel(p.ctx, this.Get("selectedIndex").Int()))
	})
	p.listen("tValues", "change", func(this, _ js.Value) {
		v, _ := selectorValue(this)
		p.logError(p.SelectTime(p.ctx, v))
	})
	editScale := func(_, _ js.Value) {
		p.EditScale(p.ctx, p.element("scaleMin").Get("value").String(), p.element("scaleMax").Get("value").String())
	}
	p.listen("scaleMin", "change", editScale)
	p.listen("scaleMax", "change", editScale)
	p.listen("opacityValue", "change", func(this, _ js.Value) {
		pct, err := strconv.Atoi(this.Get("value").String())
		if err != nil {
			p.logError(fmt.Errorf("gui: opacity: %w", err))
			return
		}
		p.logError(p.SetOpacity(p.ctx, pct))
	})
	p.listen("autoScale", "click", func(_, _ js.Value) { p.logError(p.AutoScale(p.ctx)) })
	p.listen("autoZoom", "click", func(_, _ js.Value) { p.ZoomToLayer() })
	p.listen("setFirstFrame", "click", func(_, _ js.Value) { p.SetFirstFrame() })
	p.listen("setLastFrame", "click", func(_, _ js.Value) { p.SetLastFrame() })
	p.listen("resetAnimation", "click", func(_, _ js.Value) { p.ResetAnimation() })
	p.listen("hideAnimation", "click", func(_, _ js.Value) { p.HideAnimation() })
	p.listen("createAnimation", "click", func(_, _ js.Value) {
		if _, err := p.CreateAnimation(p.ctx); err != nil {
			p.Log.Debug(err)
		}
	})
	p.listen("calendar", "click", func(_, e js.Value) {
		target := e.Get("target")
		if d := target.Call("getAttribute", "data-date"); !d.IsNull() {
			p.logError(p.SetCalendar(p.ctx, d.String()))
			return
		}
		ti := target.Call("getAttribute", "data-tindex")
		if ti.IsNull() {
			return
		}
		tIndex, err := strconv.Atoi(ti.String())
		if err != nil {
			p.logError(fmt.Errorf("gui: calendar: %w", err))
			return
		}
		p.logError(p.ShowTimesteps(p.ctx, tIndex, target.Call("getAttribute", "data-pretty").String()))
	})

	p.Map.On("moveend", func(js.Value) { go p.ViewportChanged() })
	p.Map.On("click", func(e js.Value) {
		pt := e.Get("containerPoint")
		x, y := pt.Get("x").Int(), pt.Get("y").Int()
		go func() {
			if _, err := p.FeatureInfo(p.ctx, x, y); err != nil {
				p.Log.Debug(err)
			}
		}()
	})

	go func() {
		p.logError(p.LoadDatasets(p.ctx, ""))
	}()
}
