package lib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var ErrForeignObjectURL = errors.New("url does not belong to the configured storage")

// ObjectStorage stores images and payment slips. Upload returns the public
// URL; Delete takes that URL back.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectURL string) error
}

func PublicObjectURL(baseURL, key string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), strings.TrimLeft(key, "/"))
}

// ObjectKeyFromURL recovers the storage key from a URL built by PublicObjectURL.
func ObjectKeyFromURL(baseURL, objectURL string) (string, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", err
	}
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", err
	}
	if u.Host != base.Host || !strings.HasPrefix(u.Path, base.Path+"/") {
		return "", ErrForeignObjectURL
	}
	key := strings.TrimPrefix(u.Path, base.Path+"/")
	if key == "" {
		return "", ErrForeignObjectURL
	}
	return key, nil
}
