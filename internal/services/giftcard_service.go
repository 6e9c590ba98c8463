package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"golang.org/x/exp/slog"
)

var _ GiftCardImageService = (*GiftCardImageServiceImpl)(nil)

// ErrInvalidImage is returned for uploads that do not decode as an image
var ErrInvalidImage = errors.New("invalid image")

const (
	maxImageEdge = 1280
	jpegQuality  = 85
)

// ObjectStorage stores blobs and returns their public URL
type ObjectStorage interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

type GiftCardImageServiceImpl struct {
	storage ObjectStorage
}

func NewGiftCardImageService(storage ObjectStorage) *GiftCardImageServiceImpl {
	return &GiftCardImageServiceImpl{storage: storage}
}

// Upload shrinks the photo to fit 1280x1280, re-encodes it as JPEG and stores it under the session
func (s *GiftCardImageServiceImpl) Upload(ctx context.Context, sessionID string, r io.Reader) (string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	resized := resize.Thumbnail(maxImageEdge, maxImageEdge, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	name := fmt.Sprintf("giftcards/%s/%s.jpg", sessionID, uuid.Must(uuid.NewV7()))
	size := int64(buf.Len())
	url, err := s.storage.Put(ctx, name, &buf, size, "image/jpeg")
	if err != nil {
		slog.Error("Failed to store gift card image", "sessionId", sessionID, "object", name, "error", err)
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	b := resized.Bounds()
	slog.Info("Gift card image stored", "sessionId", sessionID, "sourceFormat", format, "width", b.Dx(), "height", b.Dy(), "bytes", size)
	return url, nil
}
