package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// uploadAPI is the part of the Cloudinary upload API this store needs.
// *uploader.API satisfies it.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

var _ Store = (*Cloudinary)(nil)

// Cloudinary stores images in a Cloudinary folder.
type Cloudinary struct {
	api    uploadAPI
	folder string
}

// NewCloudinary builds a store from account credentials.
func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("blob: initializing cloudinary: %w", err)
	}
	return &Cloudinary{api: &cld.Upload, folder: folder}, nil
}

func (c *Cloudinary) Save(ctx context.Context, u Upload) (string, error) {
	res, err := c.api.Upload(ctx, u.Body, uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("blob: uploading to cloudinary: %w", err)
	}
	// The SDK reports API-level failures in the result, not as err.
	if res.Error.Message != "" {
		return "", fmt.Errorf("blob: uploading to cloudinary: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", errors.New("blob: cloudinary returned no url")
	}
	return res.SecureURL, nil
}

func (c *Cloudinary) Delete(ctx context.Context, rawURL string) error {
	publicID, err := publicIDFromURL(rawURL)
	if err != nil {
		return err
	}

	res, err := c.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("blob: destroying %s: %w", publicID, err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("blob: destroying %s: %s", publicID, res.Error.Message)
	}
	// "not found" means it is already gone.
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("blob: destroying %s: unexpected result %q", publicID, res.Result)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// publicIDFromURL recovers the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/diary/3f2a.jpg, which
// yields "diary/3f2a".
func publicIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("blob: parsing %q: %w", raw, err)
	}

	_, rest, ok := strings.Cut(u.Path, "/upload/")
	if !ok || rest == "" {
		return "", fmt.Errorf("blob: %q is not a cloudinary upload url", raw)
	}

	parts := strings.Split(rest, "/")
	if len(parts) > 1 && versionSegment.MatchString(parts[0]) {
		parts = parts[1:]
	}
	id := strings.Join(parts, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", fmt.Errorf("blob: %q has no public id", raw)
	}
	return id, nil
}
