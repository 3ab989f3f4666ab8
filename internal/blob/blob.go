// Package blob stores diary images outside the diary collection.
//
// A diary only keeps the URL that Save returned. The same URL is later passed
// to Delete when the diary goes away. Two backends exist: Local (files under
// an upload directory, served by the HTTP server) and Cloudinary.
package blob

import (
	"context"
	"io"
	"mime"
	"strings"
)

// Upload is one image received from a client.
type Upload struct {
	Filename    string // client-side name, for logs only
	ContentType string
	Size        int64
	Body        io.Reader
}

// Store persists uploaded images and addresses them by URL.
type Store interface {
	// Save stores u under a fresh unique name and returns its public URL.
	Save(ctx context.Context, u Upload) (string, error)

	// Delete removes the image at url. An image that is already gone is not
	// an error.
	Delete(ctx context.Context, url string) error
}

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// extension derives the file extension from the checked content type. The
// client's file name is ignored so that a stored file is always served with
// an image type.
func extension(u Upload) string {
	mediaType, _, err := mime.ParseMediaType(u.ContentType)
	if err != nil {
		return ""
	}
	return extByType[strings.ToLower(mediaType)]
}
