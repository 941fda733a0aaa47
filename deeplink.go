package ncwms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DeepLink is a selection restored from a shared link. It is parsed once and
// never modified; consumers track separately whether it has been applied.
type DeepLink struct {
	Dataset  string
	Variable string
	// Elevation is the signed elevation, if one was given.
	Elevation *float64
	Time      string
	BBox      *BoundingBox
	// ScaleMin and ScaleMax are kept as given so that they go through the
	// same validation as user-entered limits.
	ScaleMin, ScaleMax string
	// Filter restricts the dataset menu to identifiers with this prefix.
	Filter string

	// Problems lists parameters that were present but could not be used.
	Problems []string
}

// HasScale reports whether the link carries both scale limits.
func (d DeepLink) HasScale() bool {
	return d.ScaleMin != "" && d.ScaleMax != ""
}

// IsZero reports whether the link selects nothing.
func (d DeepLink) IsZero() bool {
	return d.Dataset == "" && d.Variable == "" && d.Elevation == nil &&
		d.Time == "" && d.BBox == nil && !d.HasScale()
}

// ParseDeepLink extracts a DeepLink from query parameters. Keys are matched
// case-insensitively; unrecognised keys are ignored.
func ParseDeepLink(q url.Values) DeepLink {
	var d DeepLink
	for k, vals := range q {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		v := vals[0]
		switch strings.ToLower(k) {
		case "dataset":
			d.Dataset = v
		case "variable":
			d.Variable = v
		case "elevation":
			z, err := strconv.ParseFloat(v, 64)
			if err != nil {
				d.Problems = append(d.Problems, fmt.Sprintf("elevation %q is not a number", v))
				continue
			}
			d.Elevation = &z
		case "time":
			d.Time = v
		case "bbox":
			b, err := ParseBoundingBox(v)
			if err != nil {
				d.Problems = append(d.Problems, err.Error())
				continue
			}
			d.BBox = &b
		case "scale":
			parts := strings.Split(v, ",")
			if len(parts) < 2 {
				d.Problems = append(d.Problems, fmt.Sprintf("scale %q needs min,max", v))
				continue
			}
			d.ScaleMin, d.ScaleMax = parts[0], parts[1]
		case "filter":
			d.Filter = v
		}
	}
	return d
}

// ParseDeepLinkURL parses the query string of a permalink.
func ParseDeepLinkURL(raw string) (DeepLink, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return DeepLink{}, fmt.Errorf("ncwms: parsing link: %w", err)
	}
	return ParseDeepLink(u.Query()), nil
}
