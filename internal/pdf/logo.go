package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"invoicegen/internal/layout"
)

// ErrUnsupportedImage is returned for logo files that are not PNG, JPEG or GIF.
var ErrUnsupportedImage = errors.New("unsupported image format")

var logoFormats = map[string]string{
	"png": "PNG",
	"jpg": "JPG",
	"gif": "GIF",
}

// LoadLogo reads an image file and prepares it for Surface.Image. The type
// is detected from the file content, not its extension.
func LoadLogo(path string) (*layout.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}
	return DecodeLogo(filepath.Base(path), data)
}

// DecodeLogo validates in-memory image data under the given name.
func DecodeLogo(name string, data []byte) (*layout.Image, error) {
	kind, err := filetype.Image(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedImage, name, err)
	}
	format, ok := logoFormats[kind.Extension]
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedImage, name, kind.MIME.Value)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", name, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("decode logo %s: empty image", name)
	}

	return &layout.Image{Name: "logo-" + name, Format: format, Data: data}, nil
}
