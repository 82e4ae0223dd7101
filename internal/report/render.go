package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	imgdraw "image/draw"
	"image/png"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// CanvasOptions fixes the raster size of a rendered plot.
type CanvasOptions struct {
	Width     vg.Length
	Height    vg.Length
	DPI       int
	PadInches float64 // margin kept around the drawn content after cropping
}

// DefaultCanvas is an 8x6 inch figure at 300 DPI, cropped to its content with
// a 0.1 inch margin.
var DefaultCanvas = CanvasOptions{
	Width:     8 * vg.Inch,
	Height:    6 * vg.Inch,
	DPI:       300,
	PadInches: 0.1,
}

// RenderedPlot is an encoded image kept in memory until it is saved.
type RenderedPlot struct {
	PNG    []byte
	Width  int // pixels
	Height int // pixels
}

// RenderPNG draws chart onto a fixed-size canvas, crops it to the bounding box of
// the drawn content, surrounds that with PadInches of background and encodes it
// as PNG. Nothing touches the filesystem.
func RenderPNG(chart *BoxChart, opts CanvasOptions) (rendered *RenderedPlot, err error) {
	if chart == nil || chart.Plot == nil {
		return nil, &RenderError{Stage: "draw", Err: fmt.Errorf("no chart to render")}
	}
	defer func() {
		if r := recover(); r != nil {
			rendered = nil
			err = &RenderError{Stage: "draw", Err: fmt.Errorf("panic recovered: %v", r)}
		}
	}()

	c := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	chart.Plot.Draw(draw.New(c))

	img := image.Image(c.Image())
	background := chart.Plot.BackgroundColor
	if background == nil {
		background = color.White
	}
	pad := int(math.Round(opts.PadInches * float64(opts.DPI)))
	out := padToContent(img, background, pad)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out); err != nil {
		return nil, &RenderError{Stage: "encode", Err: err}
	}
	b := out.Bounds()
	return &RenderedPlot{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// padToContent copies the drawn content of img onto a fresh background image
// with exactly pad pixels of margin on every side. gonum fills nearly the whole
// canvas, so the margin is added rather than carved out of the canvas.
func padToContent(img image.Image, background color.Color, pad int) *image.RGBA {
	content := contentBounds(img, background)
	out := image.NewRGBA(image.Rect(0, 0, content.Dx()+2*pad, content.Dy()+2*pad))
	imgdraw.Draw(out, out.Bounds(), image.NewUniform(background), image.Point{}, imgdraw.Src)
	dst := image.Rect(pad, pad, pad+content.Dx(), pad+content.Dy())
	imgdraw.Draw(out, dst, img, content.Min, imgdraw.Src)
	return out
}

// contentBounds returns the smallest rectangle holding every pixel that differs
// from the background. A blank image yields its full bounds.
func contentBounds(img image.Image, background color.Color) image.Rectangle {
	br, bg, bb, ba := background.RGBA()
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == br && g == bg && bl == bb && a == ba {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return b
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
