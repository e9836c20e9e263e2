// Package barcode loads ID card images and decodes the barcodes printed on
// them. Decoding is backed by gozxing: every QR code, then one Code 128.
package barcode

import (
	"errors"
	"fmt"
	"image"
	"os"
	"unicode/utf8"

	// Registered image formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/rs/zerolog/log"
)

// Barcode is one decoded symbol.
type Barcode struct {
	Format  string
	Payload []byte
}

// Text returns the payload as a string, failing when it is not valid UTF-8.
func (b Barcode) Text() (string, error) {
	if !utf8.Valid(b.Payload) {
		return "", errors.New("barcode payload is not valid UTF-8")
	}
	return string(b.Payload), nil
}

// Decoder finds and decodes every barcode in an image, in detection order.
// An image without barcodes yields an empty slice and no error.
type Decoder interface {
	Decode(img image.Image) ([]Barcode, error)
}

// LoadImage reads and decodes the image at path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	log.Debug().Str("path", path).Str("format", format).
		Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).
		Msg("image loaded")
	return img, nil
}

type multipleReader interface {
	DecodeMultiple(image *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error)
}

// singleReader adapts a one-symbol reader to multipleReader.
type singleReader struct {
	gozxing.Reader
}

func (r singleReader) DecodeMultiple(image *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error) {
	res, err := r.Decode(image, hints)
	if err != nil {
		return nil, err
	}
	return []*gozxing.Result{res}, nil
}

// ZXingDecoder decodes every QR code and at most one Code 128 symbol.
type ZXingDecoder struct {
	// TryHarder trades speed for accuracy on skewed or low-contrast photos.
	TryHarder bool
}

func (d ZXingDecoder) hints() map[gozxing.DecodeHintType]interface{} {
	h := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	if d.TryHarder {
		h[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	return h
}

func (d ZXingDecoder) Decode(img image.Image) ([]Barcode, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("binarize image: %w", err)
	}
	readers := []struct {
		name   string
		reader multipleReader
	}{
		{"qr", multiqr.NewQRCodeMultiReader()},
		{"code128", singleReader{oned.NewCode128Reader()}},
	}
	var out []Barcode
	for _, r := range readers {
		results, err := r.reader.DecodeMultiple(bmp, d.hints())
		if err != nil {
			var rex gozxing.ReaderException
			if errors.As(err, &rex) {
				// not found, or found but unreadable
				log.Debug().Str("reader", r.name).Err(err).Msg("no symbols")
				continue
			}
			return nil, fmt.Errorf("%s reader: %w", r.name, err)
		}
		for _, res := range results {
			out = append(out, Barcode{
				Format:  res.GetBarcodeFormat().String(),
				Payload: []byte(res.GetText()),
			})
		}
	}
	return out, nil
}
