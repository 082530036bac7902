package scanner

import (
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// qrFrame renders content as a QR code into a luminance frame
func qrFrame(t *testing.T, content string) Frame {
	t.Helper()

	writer := qrcode.NewQRCodeWriter()
	matrix, err := writer.Encode(content, gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)

	width, height := matrix.GetWidth(), matrix.GetHeight()
	data := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if matrix.Get(x, y) {
				data[y*width+x] = 0x00
			} else {
				data[y*width+x] = 0xff
			}
		}
	}
	return Frame{Data: data, Width: width, Height: height}
}

func TestDecodeQRFrame(t *testing.T) {
	dec := NewDecoder()

	code, err := dec.Decode(qrFrame(t, "PT-042"))
	require.NoError(t, err)
	assert.Equal(t, "PT-042", code)
}

func TestDecodeBlankFrameIsMiss(t *testing.T) {
	dec := NewDecoder()

	data := make([]byte, 240*240)
	for i := range data {
		data[i] = 0xff
	}

	_, err := dec.Decode(Frame{Data: data, Width: 240, Height: 240})
	assert.ErrorIs(t, err, ErrNoCode)
}

func TestDecodeMalformedFrameIsMiss(t *testing.T) {
	dec := NewDecoder()

	cases := []Frame{
		{Data: nil, Width: 0, Height: 0},
		{Data: []byte{1, 2, 3}, Width: 100, Height: 100},
		{Data: make([]byte, 100), Width: -10, Height: 10},
	}
	for _, frame := range cases {
		_, err := dec.Decode(frame)
		assert.ErrorIs(t, err, ErrNoCode)
	}
}
