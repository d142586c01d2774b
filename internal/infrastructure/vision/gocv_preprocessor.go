//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
)

// GoCVPreprocessor готовит тензоры через OpenCV, как это делает cv2 при обучении.
type GoCVPreprocessor struct {
	Interpolation gocv.InterpolationFlags
}

// NewGoCVPreprocessor создаёт препроцессор на OpenCV.
func NewGoCVPreprocessor() *GoCVPreprocessor {
	return &GoCVPreprocessor{Interpolation: gocv.InterpolationLinear}
}

// Prepare декодирует снимок, масштабирует до spec и нормирует пиксели в [0, 1].
func (p *GoCVPreprocessor) Prepare(ctx context.Context, imageData []byte, spec entity.InputSpec) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(imageData) == 0 {
		return nil, entity.ErrEmptyImage
	}

	flags := gocv.IMReadColor
	if spec.Channels == 1 {
		flags = gocv.IMReadGrayScale
	} else if spec.Channels != 3 {
		return nil, fmt.Errorf("%w: %d channels", entity.ErrUnexpectedShape, spec.Channels)
	}

	mat, err := decodeToMat(imageData, flags)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	src := mat
	if spec.Channels == 3 {
		// OpenCV хранит BGR, модель обучалась на RGB.
		rgb := gocv.NewMat()
		defer rgb.Close()
		gocv.CvtColor(mat, &rgb, gocv.ColorBGRToRGB)
		src = rgb
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, image.Pt(spec.Width, spec.Height), 0, 0, p.Interpolation)

	if resized.Cols() != spec.Width || resized.Rows() != spec.Height {
		return nil, fmt.Errorf("%w: image %dx%d, want %dx%d",
			entity.ErrUnexpectedShape, resized.Cols(), resized.Rows(), spec.Width, spec.Height)
	}

	out := make([]float32, spec.Size())
	for y := 0; y < spec.Height; y++ {
		for x := 0; x < spec.Width; x++ {
			if spec.Channels == 1 {
				out[spec.Index(x, y, 0)] = float32(resized.GetUCharAt(y, x)) / 255.0
				continue
			}
			for c := 0; c < 3; c++ {
				out[spec.Index(x, y, c)] = float32(resized.GetUCharAt(y, x*3+c)) / 255.0
			}
		}
	}

	return out, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte, flags gocv.IMReadFlag) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, flags)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

// Проверка реализации интерфейса
var _ port.Preprocessor = (*GoCVPreprocessor)(nil)
