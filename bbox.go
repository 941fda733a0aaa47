package ncwms

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
)

// BoundingBox is a rectangular geographic extent in CRS:84 longitude/latitude.
type BoundingBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// ParseBoundingBox parses a string of the form "minlon,minlat,maxlon,maxlat".
// Fields beyond the fourth are ignored.
func ParseBoundingBox(s string) (BoundingBox, error) {
	fields := strings.Split(s, ",")
	if len(fields) < 4 {
		return BoundingBox{}, fmt.Errorf("%w: %q has %d fields", ErrMalformedBoundingBox, s, len(fields))
	}
	var v [4]float64
	for i := 0; i < 4; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil || math.IsNaN(f) {
			return BoundingBox{}, fmt.Errorf("%w: %q field %d", ErrMalformedBoundingBox, s, i)
		}
		v[i] = f
	}
	return BoundingBox{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}, nil
}

// Intersect returns the component-wise intersection of a and b. The result
// is inverted (min > max) when the boxes do not overlap; use Empty to check.
func Intersect(a, b BoundingBox) BoundingBox {
	return BoundingBox{
		MinLon: math.Max(a.MinLon, b.MinLon),
		MinLat: math.Max(a.MinLat, b.MinLat),
		MaxLon: math.Min(a.MaxLon, b.MaxLon),
		MaxLat: math.Min(a.MaxLat, b.MaxLat),
	}
}

// Empty reports whether b has no positive area, i.e. there is no visible data
// inside it.
func (b BoundingBox) Empty() bool {
	return b.MaxLon <= b.MinLon || b.MaxLat <= b.MinLat
}

// String returns b as "minlon,minlat,maxlon,maxlat", the form used in WMS
// BBOX parameters.
func (b BoundingBox) String() string {
	return FormatFloat(b.MinLon) + "," + FormatFloat(b.MinLat) + "," +
		FormatFloat(b.MaxLon) + "," + FormatFloat(b.MaxLat)
}

// Bounds converts b to a geom.Bounds with X as longitude and Y as latitude.
func (b BoundingBox) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: b.MinLon, Y: b.MinLat},
		Max: geom.Point{X: b.MaxLon, Y: b.MaxLat},
	}
}

// Bound converts b to an orb.Bound.
func (b BoundingBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.MinLon, b.MinLat},
		Max: orb.Point{b.MaxLon, b.MaxLat},
	}
}

// BoundingBoxFromBounds is the inverse of BoundingBox.Bounds.
func BoundingBoxFromBounds(g *geom.Bounds) BoundingBox {
	return BoundingBox{MinLon: g.Min.X, MinLat: g.Min.Y, MaxLon: g.Max.X, MaxLat: g.Max.Y}
}

// FormatFloat formats f in the shortest decimal form, as used in WMS
// parameters and permalinks.
func FormatFloat(f float64) string {
	if f == 0 {
		// Drop the sign of negative zero, e.g. a depth of 0.
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
