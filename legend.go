package ncwms

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Legend draws a color bar spanning s as a PNG image of the given size in
// points.
func Legend(s Scale, width, height float64) ([]byte, error) {
	if s.Min >= s.Max {
		return nil, fmt.Errorf("ncwms: legend: %w", ErrInvertedRange)
	}
	cm := moreland.ExtendedBlackBody()
	cm.SetMin(s.Min)
	cm.SetMax(s.Max)

	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Add(&plotter.ColorBar{ColorMap: cm})
	p.HideY()
	p.X.Padding = 0

	img := vgimg.New(vg.Length(width), vg.Length(height))
	p.Draw(draw.New(img))
	b := new(bytes.Buffer)
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
