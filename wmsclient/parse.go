package wmsclient

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	ncwms "github.com/kwilcox/ncWMS"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The metadata items return HTML fragments meant to be injected into the
// viewer page. The identifiers we need are carried in the onclick handlers.
var (
	variableSelectedRE = regexp.MustCompile(`variableSelected\(\s*'([^']*)'\s*,\s*'([^']*)'\s*\)`)
	setCalendarRE      = regexp.MustCompile(`setCalendar\(\s*'[^']*'\s*,\s*'[^']*'\s*,\s*'([^']*)'\s*\)`)
	getTimestepsRE     = regexp.MustCompile(`getTimesteps\(\s*'[^']*'\s*,\s*'[^']*'\s*,\s*'(\d+)'\s*,\s*'([^']*)'\s*,\s*'([^']*)'\s*\)`)
	timestepCellRE     = regexp.MustCompile(`^t\d+$`)
)

func parseError(item string, err error) error {
	return &ncwms.ParseError{Item: item, Err: err}
}

func parseHTML(item string, body []byte) (*html.Node, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, parseError(item, err)
	}
	return doc, nil
}

// walk calls f on n and its descendants in document order.
func walk(n *html.Node, f func(*html.Node)) {
	f(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, f)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}

// parseDatasets reads the datasets item: one "<id>Div" block per dataset
// holding a title div whose id is the dataset identifier.
func parseDatasets(body []byte) ([]ncwms.Dataset, error) {
	doc, err := parseHTML("datasets", body)
	if err != nil {
		return nil, err
	}
	var datasets []ncwms.Dataset
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Div || n.Parent == nil {
			return
		}
		id := attr(n, "id")
		if id == "" || attr(n.Parent, "id") != id+"Div" {
			return
		}
		datasets = append(datasets, ncwms.Dataset{ID: id, Title: text(n)})
	})
	return datasets, nil
}

// parseVariables reads the variables item, a table of links to each variable.
func parseVariables(body []byte) ([]ncwms.Variable, error) {
	doc, err := parseHTML("variables", body)
	if err != nil {
		return nil, err
	}
	var vars []ncwms.Variable
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			return
		}
		m := variableSelectedRE.FindStringSubmatch(attr(n, "onclick"))
		if m == nil {
			return
		}
		vars = append(vars, ncwms.Variable{ID: m[2], Title: text(n)})
	})
	return vars, nil
}

type variableDetailsXML struct {
	XMLName  xml.Name  `xml:"variableDetails"`
	Dataset  string    `xml:"dataset,attr"`
	Variable string    `xml:"variable,attr"`
	Units    string    `xml:"units,attr"`
	Axes     []axisXML `xml:"axes>axis"`
	Min      string    `xml:"range>min"`
	Max      string    `xml:"range>max"`
	BBox     string    `xml:"bbox"`
}

type axisXML struct {
	Type     string   `xml:"type,attr"`
	Units    string   `xml:"units,attr"`
	Positive string   `xml:"positive,attr"`
	Values   []string `xml:"value"`
}

func parseVariableDetails(body []byte) (*ncwms.VariableDetails, error) {
	const item = "variableDetails"
	var x variableDetailsXML
	if err := xml.Unmarshal(body, &x); err != nil {
		return nil, parseError(item, err)
	}
	bbox, err := ncwms.ParseBoundingBox(x.BBox)
	if err != nil {
		return nil, parseError(item, err)
	}
	d := &ncwms.VariableDetails{
		Dataset: x.Dataset,
		Title:   x.Variable,
		Units:   x.Units,
		BBox:    bbox,
	}
	if d.ValidMin, err = parseOptionalFloat(x.Min); err != nil {
		return nil, parseError(item, fmt.Errorf("range min: %v", err))
	}
	if d.ValidMax, err = parseOptionalFloat(x.Max); err != nil {
		return nil, parseError(item, fmt.Errorf("range max: %v", err))
	}
	for _, a := range x.Axes {
		if a.Type != "z" {
			continue
		}
		axis := &ncwms.VerticalAxis{Units: a.Units}
		if a.Positive != "" {
			if axis.Positive, err = strconv.ParseBool(a.Positive); err != nil {
				return nil, parseError(item, fmt.Errorf("axis positive %q", a.Positive))
			}
		}
		for _, v := range a.Values {
			z, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, parseError(item, fmt.Errorf("axis value: %v", err))
			}
			axis.Levels = append(axis.Levels, z)
		}
		d.Axis = axis
	}
	return d, nil
}

func parseOptionalFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

type calendarXML struct {
	NearestValue       string `xml:"nearestValue"`
	PrettyNearestValue string `xml:"prettyNearestValue"`
	NearestIndex       string `xml:"nearestIndex"`
	Calendar           struct {
		Inner string `xml:",innerxml"`
	} `xml:"calendar"`
}

// parseCalendar reads the calendar item. An empty body means the variable
// has no time axis.
func parseCalendar(body []byte) (*ncwms.Calendar, error) {
	const item = "calendar"
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ncwms.ErrNoCalendarData
	}
	var x calendarXML
	if err := xml.Unmarshal(body, &x); err != nil {
		return nil, parseError(item, err)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(x.NearestIndex))
	if err != nil {
		return nil, parseError(item, fmt.Errorf("nearestIndex: %v", err))
	}
	cal := &ncwms.Calendar{
		NearestIndex:       idx,
		NearestValue:       strings.TrimSpace(x.NearestValue),
		PrettyNearestValue: strings.TrimSpace(x.PrettyNearestValue),
	}

	doc, err := parseHTML(item, []byte(x.Calendar.Inner))
	if err != nil {
		return nil, err
	}
	var nav []string
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.DataAtom {
		case atom.A:
			if m := setCalendarRE.FindStringSubmatch(attr(n, "onclick")); m != nil {
				nav = append(nav, m[1])
			}
		case atom.Td:
			if attr(n, "colspan") != "" {
				cal.Heading = text(n)
				return
			}
			if !timestepCellRE.MatchString(attr(n, "id")) {
				return
			}
			walk(n, func(a *html.Node) {
				if a.Type != html.ElementNode || a.DataAtom != atom.A {
					return
				}
				m := getTimestepsRE.FindStringSubmatch(attr(a, "onclick"))
				if m == nil {
					return
				}
				tIndex, _ := strconv.Atoi(m[1])
				day, err := strconv.Atoi(text(a))
				if err != nil {
					return
				}
				cal.Days = append(cal.Days, ncwms.CalendarDay{
					Day:    day,
					TIndex: tIndex,
					Value:  m[2],
					Pretty: m[3],
				})
			})
		}
	})
	if len(nav) == 4 {
		cal.PrevYear, cal.PrevMonth, cal.NextMonth, cal.NextYear = nav[0], nav[1], nav[2], nav[3]
	}
	return cal, nil
}

// parseTimesteps reads the timesteps item, a select box with one option per
// timestep on the chosen day.
func parseTimesteps(body []byte) ([]ncwms.Timestep, error) {
	doc, err := parseHTML("timesteps", body)
	if err != nil {
		return nil, err
	}
	var steps []ncwms.Timestep
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.DataAtom != atom.Option {
			return
		}
		steps = append(steps, ncwms.Timestep{Value: attr(n, "value"), Label: text(n)})
	})
	return steps, nil
}

type minMaxXML struct {
	Min *string `xml:"min"`
	Max *string `xml:"max"`
}

func parseMinMax(body []byte) (*ncwms.MinMax, error) {
	const item = "minmax"
	var x minMaxXML
	if err := xml.Unmarshal(body, &x); err != nil {
		return nil, parseError(item, err)
	}
	if x.Min == nil || x.Max == nil {
		return nil, parseError(item, fmt.Errorf("missing min or max"))
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(*x.Min), 64)
	if err != nil {
		return nil, parseError(item, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(*x.Max), 64)
	if err != nil {
		return nil, parseError(item, err)
	}
	return &ncwms.MinMax{Min: lo, Max: hi}, nil
}

type featureInfoXML struct {
	Longitude *string `xml:"longitude"`
	Latitude  *string `xml:"latitude"`
	Value     *string `xml:"value"`
}

// parseFeatureInfo reads a text/xml GetFeatureInfo response. A well-formed
// response without a position, such as a service exception, means the layer
// cannot be queried.
func parseFeatureInfo(body []byte) (*ncwms.FeatureInfo, error) {
	var x featureInfoXML
	if err := xml.Unmarshal(body, &x); err != nil {
		return nil, parseError("featureinfo", err)
	}
	if x.Longitude == nil || x.Latitude == nil || x.Value == nil {
		return nil, ncwms.ErrNoFeatureInfo
	}
	return &ncwms.FeatureInfo{
		Lon:   strings.TrimSpace(*x.Longitude),
		Lat:   strings.TrimSpace(*x.Latitude),
		Value: strings.TrimSpace(*x.Value),
	}, nil
}
