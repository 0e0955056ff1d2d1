package consoleimg

import (
	"errors"
	"fmt"
	"image"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertErrorIs(t *testing.T) {
	err := fmt.Errorf("render failed: %w", newImageError("png.Encode", io.ErrShortWrite))

	assert.True(t, errors.Is(err, ErrImage))
	assert.False(t, errors.Is(err, ErrEmptyData))
	assert.True(t, errors.Is(err, io.ErrShortWrite))

	var ce *ConvertError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ImageError, ce.Kind)
	assert.Equal(t, "png.Encode", ce.Context.Function)
}

func TestConvertErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "empty", err: ErrEmptyData, want: "empty data"},
		{
			name: "wrong type",
			err:  newWrongImageType(ImageColor, ImageNoColor),
			want: "wrong image type: expected Color, got NoColor",
		},
		{
			name: "above max length",
			err:  &ConvertError{Kind: AboveMaxLength, Limit: 10},
			want: "above max length: limit is 10",
		},
		{
			name: "pixel context",
			err:  &ConvertError{Kind: ImageError, Context: ErrorContext{Pixel: &image.Point{X: 1, Y: 2}}},
			want: "image error at pixel (1, 2)",
		},
		{
			name: "lock",
			err:  newLockError("sixelConvert", "boom"),
			want: "lock error at sixelConvert: worker panicked: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
