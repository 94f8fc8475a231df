package utils

import (
	"camphub/src/config"
	"camphub/src/lib"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
)

type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

var imageContentTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

func validateImage(file *FileUpload) error {
	if file == nil || file.Body == nil {
		return newActionError(ErrValidation, "an image file is required")
	}
	if file.Size > config.MAX_UPLOAD_BYTES {
		return newActionError(ErrValidation, "file is larger than %d MB", config.MAX_UPLOAD_BYTES>>20)
	}
	if !slices.Contains(imageContentTypes, strings.ToLower(file.ContentType)) {
		return newActionError(ErrValidation, "unsupported file type %q", file.ContentType)
	}
	return nil
}

// ObjectKey builds <prefix>/<owner>/<uuid><ext>.
func ObjectKey(prefix string, owner uint, filename string) string {
	return fmt.Sprintf("%s/%d/%s%s", prefix, owner, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}

func uploadImage(ctx context.Context, storage lib.ObjectStorage, key string, file *FileUpload) (string, error) {
	if storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	if err := validateImage(file); err != nil {
		return "", err
	}
	url, err := storage.Upload(ctx, key, file.ContentType, file.Body)
	if err != nil {
		return "", fmt.Errorf("error uploading %s: %w", key, err)
	}
	return url, nil
}

// discardUpload removes an object whose database row never got written.
func discardUpload(storage lib.ObjectStorage, url string) {
	if err := storage.Delete(context.Background(), url); err != nil {
		log.Printf("[Storage] could not remove orphaned object %s: %s\n", url, err.Error())
	}
}
