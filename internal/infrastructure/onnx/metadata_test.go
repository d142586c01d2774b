package onnx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"xray-bot/internal/domain/entity"
)

func TestDefaults_InputSpec(t *testing.T) {
	spec, err := ValidityDefaults().InputSpec()
	require.NoError(t, err)
	require.Equal(t, entity.InputSpec{Width: 224, Height: 224, Channels: 3, Layout: entity.LayoutNHWC}, spec)

	spec, err = CovidDefaults().InputSpec()
	require.NoError(t, err)
	require.Equal(t, entity.InputSpec{Width: 224, Height: 224, Channels: 1, Layout: entity.LayoutNHWC}, spec)
	require.Equal(t, 2, CovidDefaults().OutputSize())
}

func TestLoadMetadata_MissingFileUsesDefaults(t *testing.T) {
	meta, err := LoadMetadata("", CovidDefaults())
	require.NoError(t, err)
	require.Equal(t, CovidDefaults(), meta)

	meta, err = LoadMetadata(filepath.Join(t.TempDir(), "absent.json"), ValidityDefaults())
	require.NoError(t, err)
	require.Equal(t, ValidityDefaults(), meta)
}

func TestLoadMetadata_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	raw := `{"input_shape":[1,1,128,96],"layout":"NCHW","input_name":"conv2d_input"}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	meta, err := LoadMetadata(path, CovidDefaults())
	require.NoError(t, err)
	require.Equal(t, "conv2d_input", meta.InputName)
	require.Equal(t, "output", meta.OutputName)

	spec, err := meta.InputSpec()
	require.NoError(t, err)
	require.Equal(t, entity.InputSpec{Width: 96, Height: 128, Channels: 1, Layout: entity.LayoutNCHW}, spec)
}

func TestLoadMetadata_Invalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	_, err := LoadMetadata(broken, CovidDefaults())
	require.Error(t, err)

	badShape := filepath.Join(dir, "shape.json")
	require.NoError(t, os.WriteFile(badShape, []byte(`{"input_shape":[224,224]}`), 0o644))
	_, err = LoadMetadata(badShape, CovidDefaults())
	require.ErrorIs(t, err, entity.ErrUnexpectedShape)

	badLayout := filepath.Join(dir, "layout.json")
	require.NoError(t, os.WriteFile(badLayout, []byte(`{"layout":"HWCN"}`), 0o644))
	_, err = LoadMetadata(badLayout, CovidDefaults())
	require.Error(t, err)
}

func TestOutputSize_Empty(t *testing.T) {
	require.Zero(t, Metadata{}.OutputSize())
}
