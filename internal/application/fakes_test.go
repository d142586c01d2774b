package app

import (
	"context"
	"errors"

	"xray-bot/internal/domain/entity"
)

// fakePreprocessor возвращает тензор нужного размера и запоминает запрошенные формы.
type fakePreprocessor struct {
	specs []entity.InputSpec
	err   error
	size  int // если > 0, подменяет длину тензора
}

func (p *fakePreprocessor) Prepare(ctx context.Context, imageData []byte, spec entity.InputSpec) ([]float32, error) {
	p.specs = append(p.specs, spec)
	if p.err != nil {
		return nil, p.err
	}
	if len(imageData) == 0 {
		return nil, entity.ErrEmptyImage
	}
	n := spec.Size()
	if p.size > 0 {
		n = p.size
	}
	return make([]float32, n), nil
}

// fakeClassifier отдаёт заранее заданные выходы по очереди.
type fakeClassifier struct {
	spec    entity.InputSpec
	outputs [][]float32
	err     error
	calls   int
}

func (c *fakeClassifier) InputSpec() entity.InputSpec {
	return c.spec
}

func (c *fakeClassifier) Predict(ctx context.Context, tensor []float32) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if len(c.outputs) == 0 {
		return nil, errors.New("no more outputs")
	}
	out := c.outputs[0]
	if len(c.outputs) > 1 {
		c.outputs = c.outputs[1:]
	}
	return out, nil
}

type failingHistory struct{}

func (failingHistory) Record(ctx context.Context, diagnosis *entity.Diagnosis) error {
	return errors.New("disk full")
}

func (failingHistory) ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Diagnosis, error) {
	return nil, errors.New("disk full")
}

var (
	rgbSpec  = entity.InputSpec{Width: 4, Height: 4, Channels: 3, Layout: entity.LayoutNHWC}
	graySpec = entity.InputSpec{Width: 4, Height: 4, Channels: 1, Layout: entity.LayoutNHWC}
)
