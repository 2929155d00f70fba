package client

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"tradein-estimator/internal/dto"

	"github.com/gabriel-vasile/mimetype"
)

// LoadImages reads up to max photos and encodes them as inline image parts.
// Extra paths are ignored; a file that is not an image is an error.
func LoadImages(paths []string, max int) ([]dto.ImagePart, error) {
	if max > 0 && len(paths) > max {
		paths = paths[:max]
	}

	parts := make([]dto.ImagePart, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read photo %s: %w", path, err)
		}
		mtype := mimetype.Detect(data)
		if !strings.HasPrefix(mtype.String(), "image/") {
			return nil, fmt.Errorf("photo %s is %s, not an image", path, mtype.String())
		}
		parts = append(parts, dto.ImagePart{
			MimeType: mtype.String(),
			Data:     base64.StdEncoding.EncodeToString(data),
		})
	}
	return parts, nil
}
