package scanner

import (
	"errors"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ErrNoCode means the frame holds no decodable code. Routine under a live
// camera feed; never logged as an error.
var ErrNoCode = errors.New("no code in frame")

// Frame is one camera frame: the luminance (Y) plane, row-major
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// Decoder extracts a QR payload from a single frame. It is a pure function
// over the frame plus an immutable format configuration; the coordinator
// guarantees at most one concurrent call.
type Decoder struct {
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

// NewDecoder creates a decoder configured for the QR code family
func NewDecoder() *Decoder {
	return &Decoder{
		reader: qrcode.NewQRCodeReader(),
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_POSSIBLE_FORMATS: []gozxing.BarcodeFormat{
				gozxing.BarcodeFormat_QR_CODE,
			},
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode returns the code embedded in the frame, or ErrNoCode. Malformed
// frames and decoder failures are indistinguishable from a miss.
func (d *Decoder) Decode(frame Frame) (string, error) {
	if frame.Width <= 0 || frame.Height <= 0 || len(frame.Data) < frame.Width*frame.Height {
		return "", ErrNoCode
	}

	img := &image.Gray{
		Pix:    frame.Data[:frame.Width*frame.Height],
		Stride: frame.Width,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}

	source := gozxing.NewLuminanceSourceFromImage(img)
	bitmap, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(source))
	if err != nil {
		return "", ErrNoCode
	}

	result, err := d.reader.Decode(bitmap, d.hints)
	if err != nil {
		return "", ErrNoCode
	}
	return result.GetText(), nil
}
