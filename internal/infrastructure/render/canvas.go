package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vision-kit/internal/domain/entity"
	"vision-kit/internal/domain/port"
)

const (
	defaultThickness = 2
	labelPadding     = 5
)

// Canvas рисует рамки и подписи средствами image/draw, без OpenCV.
type Canvas struct {
	Thickness int
	Face      font.Face
}

// NewCanvas создаёт рисовальщик с рамкой в 2 пикселя и моноширинным шрифтом 7x13.
func NewCanvas() *Canvas {
	return &Canvas{
		Thickness: defaultThickness,
		Face:      basicfont.Face7x13,
	}
}

// Render копирует кадр и рисует на копии рамку и подпись для каждого объекта.
func (c *Canvas) Render(img image.Image, detections []entity.Detection) (image.Image, error) {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, img, bounds.Min, draw.Src)

	for _, d := range detections {
		rect := d.PixelRect(bounds.Dx(), bounds.Dy()).Canon().Add(bounds.Min)
		col := d.DrawColor()
		c.strokeRect(out, rect, col)
		c.drawLabel(out, rect.Min, d.Color, col)
	}

	return out, nil
}

// strokeRect рисует контур, углы rect.Min и rect.Max входят в рамку.
func (c *Canvas) strokeRect(dst draw.Image, r image.Rectangle, col color.RGBA) {
	t := c.Thickness
	if t < 1 {
		t = 1
	}
	src := image.NewUniform(col)
	x1, y1, x2, y2 := r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1

	bars := []image.Rectangle{
		image.Rect(x1, y1, x2, y1+t),
		image.Rect(x1, y2-t, x2, y2),
		image.Rect(x1, y1, x1+t, y2),
		image.Rect(x2-t, y1, x2, y2),
	}
	for _, bar := range bars {
		draw.Draw(dst, bar, src, image.Point{}, draw.Src)
	}
}

// drawLabel рисует залитую плашку над левым верхним углом и белый текст на ней.
func (c *Canvas) drawLabel(dst draw.Image, corner image.Point, text string, col color.RGBA) {
	width := font.MeasureString(c.Face, text).Ceil()
	height := c.Face.Metrics().Ascent.Ceil()

	tag := image.Rect(corner.X, corner.Y-height-labelPadding, corner.X+width, corner.Y)
	draw.Draw(dst, tag, image.NewUniform(col), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: c.Face,
		Dot:  fixed.P(corner.X, corner.Y-labelPadding),
	}
	d.DrawString(text)
}

var _ port.DetectionRenderer = (*Canvas)(nil)
