package storage

import (
	"context"
	"errors"
	"mime"
	"path"
	"strings"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var (
	// ErrForeignURL means the URL does not point into this store's bucket.
	ErrForeignURL = errors.New("url does not belong to this storage")
	// ErrUnsupportedContentType is returned for uploads that are not images.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// PublicURL is the stable URL an uploaded object is served from.
	PublicURL(objectKey string) string

	// ObjectKeyFromURL reverses PublicURL. Returns ErrForeignURL for URLs
	// outside this store.
	ObjectKeyFromURL(rawURL string) (string, error)

	// DeleteObjects removes objects; missing keys are not an error.
	DeleteObjects(ctx context.Context, objectKeys ...string) error
}

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/heic": "heic",
	"image/gif":  "gif",
}

// ImageExtension maps an upload content type to the object extension.
func ImageExtension(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", ErrUnsupportedContentType
	}
	ext, ok := imageExtensions[strings.ToLower(mediaType)]
	if !ok {
		return "", ErrUnsupportedContentType
	}
	return ext, nil
}

// AvatarKey is the object key of a user's avatar: <uid>/avatar.<ext>.
func AvatarKey(userID, ext string) string {
	return path.Join(userID, "avatar."+ext)
}

// ExerciseImageKey is <uid>/<exerciseID>/<unix-millis>_<index>.<ext>.
func ExerciseImageKey(userID, exerciseID string, at time.Time, index int, ext string) string {
	return path.Join(userID, exerciseID, formatImageName(at.UnixMilli(), index, ext))
}
