package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

type ImageMetadata struct {
	Width     int    `json:"image_width"`
	Height    int    `json:"image_height"`
	Channels  int    `json:"image_channels"`
	SizeBytes int64  `json:"image_size_bytes"`
	Format    string `json:"image_format"`
}

func AllowedFile(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ReadImageMetadata decodes only the image header. An image/* contentType
// from the upload is reported as the format; otherwise the decoded format is.
func ReadImageMetadata(data []byte, contentType string) (ImageMetadata, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageMetadata{}, fmt.Errorf("decode image: %w", err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		contentType = "image/" + format
	}

	return ImageMetadata{
		Width:     cfg.Width,
		Height:    cfg.Height,
		Channels:  channels(cfg.ColorModel),
		SizeBytes: int64(len(data)),
		Format:    contentType,
	}, nil
}

func channels(m color.Model) int {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.CMYKModel:
		return 4
	default:
		return 3
	}
}
