package blob

import (
	"fmt"
	"strings"

	"github.com/sakif/mini-diary/internal/apperror"
)

// MaxImageSize is the largest accepted upload, 5 MiB.
const MaxImageSize = 5 << 20

// CheckImage validates an upload's declared type and size. Failures are
// validation errors on the "image" field.
func CheckImage(contentType string, size int64, allowWebP bool) error {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch ct {
	case "image/jpeg", "image/png", "image/gif":
	case "image/webp":
		if !allowWebP {
			return apperror.ValidationFailed("image", "only JPEG, PNG and GIF images are allowed")
		}
	default:
		if allowWebP {
			return apperror.ValidationFailed("image", "only JPEG, PNG, GIF and WebP images are allowed")
		}
		return apperror.ValidationFailed("image", "only JPEG, PNG and GIF images are allowed")
	}

	if size <= 0 {
		return apperror.ValidationFailed("image", "image file is empty")
	}
	if size > MaxImageSize {
		return apperror.ValidationFailed("image",
			fmt.Sprintf("image must be at most %d MB", MaxImageSize>>20))
	}
	return nil
}
