package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-kit/internal/domain/entity"
)

var gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

func grayFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(gray), image.Point{}, draw.Src)
	return img
}

func TestCanvasRender_BoxCorners(t *testing.T) {
	src := grayFrame(100, 100)
	detections := []entity.Detection{{Color: "red", BBox: [4]float64{0.1, 0.1, 0.5, 0.5}}}

	out, err := NewCanvas().Render(src, detections)
	require.NoError(t, err)

	red := color.RGBA{R: 255, A: 255}
	rgba := out.(*image.RGBA)
	require.Equal(t, red, rgba.RGBAAt(10, 10))
	require.Equal(t, red, rgba.RGBAAt(50, 50))
	require.Equal(t, red, rgba.RGBAAt(10, 50))
	require.Equal(t, red, rgba.RGBAAt(50, 30))
	require.Equal(t, red, rgba.RGBAAt(11, 30))

	// снаружи и внутри рамки кадр не тронут
	require.Equal(t, gray, rgba.RGBAAt(51, 51))
	require.Equal(t, gray, rgba.RGBAAt(9, 30))
	require.Equal(t, gray, rgba.RGBAAt(30, 30))
	require.Equal(t, gray, rgba.RGBAAt(12, 12))
	require.Equal(t, gray, rgba.RGBAAt(48, 48))
}

func TestCanvasRender_LabelAboveBox(t *testing.T) {
	src := grayFrame(100, 100)
	detections := []entity.Detection{{Color: "blue", BBox: [4]float64{0.2, 0.5, 0.8, 0.9}}}

	out, err := NewCanvas().Render(src, detections)
	require.NoError(t, err)

	rgba := out.(*image.RGBA)
	// плашка шириной в 4 символа по 7 пикселей над левым верхним углом (20,50)
	nonGray := 0
	for x := 20; x < 48; x++ {
		for y := 34; y < 50; y++ {
			if rgba.RGBAAt(x, y) != gray {
				nonGray++
			}
		}
	}
	require.Equal(t, 28*16, nonGray)
	require.Equal(t, gray, rgba.RGBAAt(48, 40))
	require.Equal(t, gray, rgba.RGBAAt(20, 33))
}

func TestCanvasRender_UnknownColorIsGreen(t *testing.T) {
	src := grayFrame(50, 50)
	detections := []entity.Detection{{Color: "purple", BBox: [4]float64{0.2, 0.6, 0.6, 0.8}}}

	out, err := NewCanvas().Render(src, detections)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{G: 255, A: 255}, out.(*image.RGBA).RGBAAt(10, 40))
}

func TestCanvasRender_DoesNotModifySource(t *testing.T) {
	src := grayFrame(40, 40)
	before := append([]uint8(nil), src.Pix...)

	_, err := NewCanvas().Render(src, []entity.Detection{{Color: "yellow", BBox: [4]float64{0, 0, 1, 1}}})
	require.NoError(t, err)
	require.Equal(t, before, src.Pix)
}

func TestCanvasRender_OutOfBoundsBoxIsClipped(t *testing.T) {
	src := grayFrame(20, 20)

	out, err := NewCanvas().Render(src, []entity.Detection{{Color: "red", BBox: [4]float64{-0.5, -0.5, 1.5, 1.5}}})
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), out.Bounds())
	require.Equal(t, gray, out.(*image.RGBA).RGBAAt(10, 10))
}

func TestCanvasRender_NoDetections(t *testing.T) {
	src := grayFrame(10, 10)

	out, err := NewCanvas().Render(src, nil)
	require.NoError(t, err)
	require.Equal(t, src.Pix, out.(*image.RGBA).Pix)
}
