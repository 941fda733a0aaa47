package ncwms

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseDeepLink(t *testing.T) {
	q := url.Values{
		"DATASET":   {"FOAM_ONE"},
		"variable":  {"TMP"},
		"elevation": {"-5"},
		"time":      {"2006-10-01T00:00:00Z"},
		"scale":     {"-2,30"},
		"bbox":      {"-10,40,10,60"},
		"filter":    {"FOAM"},
		"other":     {"ignored"},
	}
	d := ParseDeepLink(q)
	z := -5.0
	want := DeepLink{
		Dataset:   "FOAM_ONE",
		Variable:  "TMP",
		Elevation: &z,
		Time:      "2006-10-01T00:00:00Z",
		BBox:      &BoundingBox{MinLon: -10, MinLat: 40, MaxLon: 10, MaxLat: 60},
		ScaleMin:  "-2",
		ScaleMax:  "30",
		Filter:    "FOAM",
	}
	if !reflect.DeepEqual(d, want) {
		t.Errorf("%+v != %+v", d, want)
	}
	if !d.HasScale() || d.IsZero() {
		t.Errorf("HasScale %v, IsZero %v", d.HasScale(), d.IsZero())
	}
}

func TestParseDeepLinkProblems(t *testing.T) {
	q := url.Values{
		"dataset":   {"FOAM_ONE"},
		"elevation": {"deep"},
		"bbox":      {"1,2,3"},
		"scale":     {"7"},
	}
	d := ParseDeepLink(q)
	if d.Dataset != "FOAM_ONE" {
		t.Errorf("%v != %v", d.Dataset, "FOAM_ONE")
	}
	if d.Elevation != nil || d.BBox != nil || d.HasScale() {
		t.Errorf("bad parameters should be dropped: %+v", d)
	}
	if len(d.Problems) != 3 {
		t.Errorf("problems: %v", d.Problems)
	}
}

func TestParseDeepLinkEmpty(t *testing.T) {
	d, err := ParseDeepLinkURL("http://example.com/godiva2.html")
	if err != nil {
		t.Fatal(err)
	}
	if !d.IsZero() {
		t.Errorf("%+v should be zero", d)
	}
	if _, err := ParseDeepLinkURL("http://[::1"); err == nil {
		t.Error("expected error for malformed URL")
	}
}
