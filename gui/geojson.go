package gui

import (
	"github.com/ctessum/geom"
	ncwms "github.com/kwilcox/ncWMS"
	"github.com/paulmach/orb/geojson"
)

// boundsToGeoJSON returns the outline of b as an encoded feature collection.
func boundsToGeoJSON(b *geom.Bounds) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(ncwms.BoundingBoxFromBounds(b).Bound().ToPolygon())
	f.Properties["name"] = "extent"
	fc.Append(f)
	return fc.MarshalJSON()
}
