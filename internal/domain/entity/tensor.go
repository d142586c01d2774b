package entity

// TensorLayout порядок осей входного тензора
type TensorLayout string

const (
	LayoutNHWC TensorLayout = "NHWC" // Keras по умолчанию
	LayoutNCHW TensorLayout = "NCHW"
)

// InputSpec описывает вход модели для одного изображения (batch = 1).
type InputSpec struct {
	Width    int
	Height   int
	Channels int // 1: оттенки серого, 3: RGB
	Layout   TensorLayout
}

// Size возвращает число элементов тензора.
func (s InputSpec) Size() int {
	return s.Width * s.Height * s.Channels
}

// Index возвращает позицию элемента (x, y, c) в плоском тензоре.
func (s InputSpec) Index(x, y, c int) int {
	if s.Layout == LayoutNCHW {
		return c*s.Width*s.Height + y*s.Width + x
	}
	return (y*s.Width+x)*s.Channels + c
}
