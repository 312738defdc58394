package entity

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"strings"
)

var (
	// ErrNoJSON в ответе модели нет ни одного JSON-объекта.
	ErrNoJSON = errors.New("no valid JSON found in response")
	// ErrNoObjects JSON разобран, но ключа "objects" в нём нет.
	ErrNoObjects = errors.New("no 'objects' key in JSON response")
)

// Цвета объектов, которые ищет модель.
const (
	ColorRed    = "red"
	ColorBlue   = "blue"
	ColorYellow = "yellow"
)

var (
	colorRed     = color.RGBA{R: 255, A: 255}
	colorBlue    = color.RGBA{B: 255, A: 255}
	colorYellow  = color.RGBA{R: 255, G: 255, A: 255}
	colorUnknown = color.RGBA{G: 255, A: 255}
)

// Detection один найденный объект: цвет и рамка в нормированных координатах [0,1].
type Detection struct {
	Color string     // имя цвета в нижнем регистре
	BBox  [4]float64 // x1, y1, x2, y2
}

// PixelRect переводит нормированную рамку в пиксели кадра width×height.
// Углы Min и Max оба входят в рамку; дробная часть отбрасывается.
func (d Detection) PixelRect(width, height int) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(int(d.BBox[0]*float64(width)), int(d.BBox[1]*float64(height))),
		Max: image.Pt(int(d.BBox[2]*float64(width)), int(d.BBox[3]*float64(height))),
	}
}

// DrawColor возвращает цвет рамки, неизвестные цвета рисуются зелёным.
func (d Detection) DrawColor() color.RGBA {
	switch d.Color {
	case ColorRed:
		return colorRed
	case ColorBlue:
		return colorBlue
	case ColorYellow:
		return colorYellow
	default:
		return colorUnknown
	}
}

type rawDetection struct {
	Color *string         `json:"color"`
	BBox  json.RawMessage `json:"bbox"`
}

// ParseDetections вырезает JSON между первой '{' и последней '}' и разбирает
// список объектов. Некорректные элементы списка молча пропускаются.
func ParseDetections(text string) ([]Detection, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, ErrNoJSON
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &doc); err != nil {
		return nil, err
	}

	rawObjects, ok := doc["objects"]
	if !ok {
		return nil, ErrNoObjects
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawObjects, &items); err != nil {
		return nil, nil
	}

	detections := make([]Detection, 0, len(items))
	for _, item := range items {
		var raw rawDetection
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		if raw.Color == nil || len(raw.BBox) == 0 {
			continue
		}

		var coords []float64
		if err := json.Unmarshal(raw.BBox, &coords); err != nil || len(coords) != 4 {
			continue
		}

		detections = append(detections, Detection{
			Color: strings.ToLower(*raw.Color),
			BBox:  [4]float64{coords[0], coords[1], coords[2], coords[3]},
		})
	}

	return detections, nil
}
