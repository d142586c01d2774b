package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"xray-bot/internal/domain/entity"
)

var (
	rgbSpec  = entity.InputSpec{Width: 8, Height: 6, Channels: 3, Layout: entity.LayoutNHWC}
	graySpec = entity.InputSpec{Width: 8, Height: 6, Channels: 1, Layout: entity.LayoutNHWC}
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	require.Equal(t, FilterCatmullRom, f)

	f, err = ParseFilter("lanczos")
	require.NoError(t, err)
	require.Equal(t, FilterLanczos, f)

	_, err = ParseFilter("nearest")
	require.Error(t, err)
}

func TestPrepare_RGBUniform(t *testing.T) {
	data := encodePNG(t, 40, 30, color.NRGBA{R: 255, G: 0, B: 51, A: 255})

	for _, filter := range []Filter{FilterBilinear, FilterCatmullRom, FilterLanczos} {
		t.Run(string(filter), func(t *testing.T) {
			p := NewImagePreprocessor(filter)
			out, err := p.Prepare(context.Background(), data, rgbSpec)
			require.NoError(t, err)
			require.Len(t, out, rgbSpec.Size())

			for i := 0; i < len(out); i += 3 {
				require.InDelta(t, 1.0, out[i], 0.01)
				require.InDelta(t, 0.0, out[i+1], 0.01)
				require.InDelta(t, 0.2, out[i+2], 0.01)
			}
		})
	}
}

func TestPrepare_GrayscaleFromJPEG(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))

	p := NewImagePreprocessor(FilterCatmullRom)
	out, err := p.Prepare(context.Background(), buf.Bytes(), graySpec)
	require.NoError(t, err)
	require.Len(t, out, graySpec.Size())
	for _, v := range out {
		require.InDelta(t, 128.0/255.0, v, 0.02)
	}
}

func TestPrepare_NCHWLayout(t *testing.T) {
	data := encodePNG(t, 16, 12, color.NRGBA{R: 255, A: 255})
	spec := rgbSpec
	spec.Layout = entity.LayoutNCHW

	out, err := NewImagePreprocessor(FilterBilinear).Prepare(context.Background(), data, spec)
	require.NoError(t, err)

	plane := spec.Width * spec.Height
	for i := 0; i < plane; i++ {
		require.InDelta(t, 1.0, out[i], 0.01)
		require.InDelta(t, 0.0, out[plane+i], 0.01)
		require.InDelta(t, 0.0, out[2*plane+i], 0.01)
	}
}

func TestPrepare_SameSizeSkipsResize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	img.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	out, err := NewImagePreprocessor(FilterCatmullRom).Prepare(context.Background(), buf.Bytes(), graySpec)
	require.NoError(t, err)
	require.Equal(t, float32(1), out[0])
	require.Equal(t, float32(0), out[1])
}

func TestPrepare_Errors(t *testing.T) {
	p := NewImagePreprocessor(FilterCatmullRom)
	ctx := context.Background()

	_, err := p.Prepare(ctx, nil, rgbSpec)
	require.ErrorIs(t, err, entity.ErrEmptyImage)

	_, err = p.Prepare(ctx, []byte("not an image"), rgbSpec)
	require.Error(t, err)

	data := encodePNG(t, 4, 4, color.White)
	_, err = p.Prepare(ctx, data, entity.InputSpec{Width: 4, Height: 4, Channels: 2})
	require.ErrorIs(t, err, entity.ErrUnexpectedShape)

	_, err = p.Prepare(ctx, data, entity.InputSpec{Channels: 3})
	require.ErrorIs(t, err, entity.ErrUnexpectedShape)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.Prepare(cancelled, data, rgbSpec)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTensor_SizeMismatch(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 3))
	_, err := Tensor(img, graySpec)
	require.ErrorIs(t, err, entity.ErrUnexpectedShape)
}

func TestPrepare_TransparentPixelsKeepColour(t *testing.T) {
	cases := []struct {
		name  string
		pixel color.NRGBA
		want  [3]float64
	}{
		{"invisible white", color.NRGBA{R: 255, G: 255, B: 255, A: 0}, [3]float64{1, 1, 1}},
		{"almost invisible", color.NRGBA{R: 200, G: 100, B: 50, A: 3}, [3]float64{200.0 / 255, 100.0 / 255, 50.0 / 255}},
	}

	for _, tc := range cases {
		// 16x12 → 8x6, масштабирование обязательно
		data := encodePNG(t, 16, 12, tc.pixel)
		for _, filter := range []Filter{FilterBilinear, FilterCatmullRom, FilterLanczos} {
			t.Run(tc.name+"/"+string(filter), func(t *testing.T) {
				out, err := NewImagePreprocessor(filter).Prepare(context.Background(), data, rgbSpec)
				require.NoError(t, err)
				for i := 0; i < len(out); i += 3 {
					require.InDelta(t, tc.want[0], out[i], 0.01)
					require.InDelta(t, tc.want[1], out[i+1], 0.01)
					require.InDelta(t, tc.want[2], out[i+2], 0.01)
				}
			})
		}
	}
}

func TestPrepare_TransparentGrayscale(t *testing.T) {
	data := encodePNG(t, 16, 12, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	out, err := NewImagePreprocessor(FilterLanczos).Prepare(context.Background(), data, graySpec)
	require.NoError(t, err)
	for _, v := range out {
		require.InDelta(t, 1.0, v, 0.01)
	}
}

func TestDropAlpha_OpaqueUnchanged(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	require.Same(t, img, dropAlpha(img))
}
