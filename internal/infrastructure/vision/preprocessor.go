package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
)

// Filter алгоритм интерполяции при масштабировании
type Filter string

const (
	FilterBilinear   Filter = "bilinear"
	FilterCatmullRom Filter = "catmullrom" // бикубическая
	FilterLanczos    Filter = "lanczos"
)

// ParseFilter разбирает имя фильтра из конфигурации.
func ParseFilter(name string) (Filter, error) {
	switch f := Filter(name); f {
	case FilterBilinear, FilterCatmullRom, FilterLanczos:
		return f, nil
	case "":
		return FilterCatmullRom, nil
	default:
		return "", fmt.Errorf("unknown resize filter %q", name)
	}
}

// ImagePreprocessor готовит тензоры на чистом Go.
type ImagePreprocessor struct {
	Filter Filter
}

// NewImagePreprocessor создаёт препроцессор с заданным фильтром.
func NewImagePreprocessor(filter Filter) *ImagePreprocessor {
	return &ImagePreprocessor{Filter: filter}
}

// Prepare декодирует снимок, масштабирует до spec и нормирует пиксели в [0, 1].
func (p *ImagePreprocessor) Prepare(ctx context.Context, imageData []byte, spec entity.InputSpec) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(imageData) == 0 {
		return nil, entity.ErrEmptyImage
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", entity.ErrUnexpectedShape, spec.Width, spec.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return Tensor(p.scale(dropAlpha(img), spec.Width, spec.Height), spec)
}

// dropAlpha делает изображение непрозрачным, сохраняя исходные R, G, B.
// Фильтры смешивают пиксели с premultiplied альфой, поэтому альфу убираем до масштабирования.
func dropAlpha(src image.Image) image.Image {
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		return src
	}

	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			c.A = 0xff
			dst.SetNRGBA(x, y, c)
		}
	}
	return dst
}

// scale приводит изображение к размеру w×h выбранным фильтром.
func (p *ImagePreprocessor) scale(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return src
	}

	if p.Filter == FilterLanczos {
		return resize.Resize(uint(w), uint(h), src, resize.Lanczos3)
	}

	var scaler draw.Scaler = draw.CatmullRom
	if p.Filter == FilterBilinear {
		scaler = draw.BiLinear
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	scaler.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return dst
}

// Tensor раскладывает изображение размера spec в плоский float32 тензор.
// Для 3 каналов берутся R, G, B без учёта альфы, для 1 канала яркость по ITU-R 601.
func Tensor(img image.Image, spec entity.InputSpec) ([]float32, error) {
	b := img.Bounds()
	if b.Dx() != spec.Width || b.Dy() != spec.Height {
		return nil, fmt.Errorf("%w: image %dx%d, want %dx%d",
			entity.ErrUnexpectedShape, b.Dx(), b.Dy(), spec.Width, spec.Height)
	}
	if spec.Channels != 1 && spec.Channels != 3 {
		return nil, fmt.Errorf("%w: %d channels", entity.ErrUnexpectedShape, spec.Channels)
	}

	out := make([]float32, spec.Size())
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if spec.Channels == 1 {
				opaque := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
				gray := color.GrayModel.Convert(opaque).(color.Gray)
				out[spec.Index(x, y, 0)] = float32(gray.Y) / 255.0
				continue
			}
			out[spec.Index(x, y, 0)] = float32(c.R) / 255.0
			out[spec.Index(x, y, 1)] = float32(c.G) / 255.0
			out[spec.Index(x, y, 2)] = float32(c.B) / 255.0
		}
	}

	return out, nil
}

// Проверка реализации интерфейса
var _ port.Preprocessor = (*ImagePreprocessor)(nil)
