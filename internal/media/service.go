package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"
	"time"

	"github.com/rohanmalik/boutique-backend/internal/imaging"
	pkgerrors "github.com/rohanmalik/boutique-backend/pkg/errors"
	"github.com/rohanmalik/boutique-backend/pkg/logger"
	"github.com/rohanmalik/boutique-backend/pkg/storage/gcs"
)

const objectPrefix = "products"

var allowedMimeTypes = []string{"image/jpeg", "image/png", "image/webp"}

type storageClient interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service handles product image uploads and the edit-then-save flow.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (string, error)
	UploadAll(ctx context.Context, inputs []UploadInput) ([]string, error)
	Delete(ctx context.Context, publicURL string)
	RenderEdit(ctx context.Context, source io.Reader, state imaging.EditState) ([]byte, error)
}

type service struct {
	storage        storageClient
	logg           *logger.Logger
	bucket         string
	maxUploadBytes int64
}

// NewService constructs a media service backed by the provided object store.
func NewService(storage storageClient, logg *logger.Logger, bucket string, maxUploadMB int) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		storage:        storage,
		logg:           logg,
		bucket:         bucket,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}, nil
}

// UploadInput models one file submitted from the admin product form.
type UploadInput struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// Upload validates and stores a single file, returning its public URL. Object
// names are generated, never taken from the client, so repeated uploads of the
// same file cannot collide.
func (s *service) Upload(ctx context.Context, input UploadInput) (string, error) {
	if input.Body == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}
	if input.SizeBytes <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file size must be positive")
	}
	if input.SizeBytes > s.maxUploadBytes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
	}

	contentType := strings.TrimSpace(input.ContentType)
	if !isAllowedMime(contentType) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "only jpeg, png, and webp images are accepted")
	}

	object := buildObjectName(input.FileName)
	publicURL, err := s.storage.UploadObject(ctx, s.bucket, object, contentType, input.Body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}
	return publicURL, nil
}

// UploadAll stores the files one at a time, in order. On failure it stops and
// returns the URLs uploaded so far alongside the error so the caller can show
// partial progress.
func (s *service) UploadAll(ctx context.Context, inputs []UploadInput) ([]string, error) {
	urls := make([]string, 0, len(inputs))
	for _, input := range inputs {
		url, err := s.Upload(ctx, input)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Delete removes the object behind a public URL. Cleanup is best effort; a
// failure is logged and swallowed because the product row is already updated.
func (s *service) Delete(ctx context.Context, publicURL string) {
	object := gcs.ObjectFromPublicURL(s.bucket, publicURL)
	if object == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, s.bucket, object); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "object", object), "failed to delete stored image")
	}
}

// RenderEdit decodes the source image, applies the edit session, and returns
// the JPEG bytes ready for upload. A session without a finalized crop is a
// validation problem, not a pipeline failure.
func (s *service) RenderEdit(ctx context.Context, source io.Reader, state imaging.EditState) ([]byte, error) {
	if source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source image is required")
	}

	img, _, err := image.Decode(source)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode source image")
	}

	out, err := imaging.Render(img, state)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "render edit")
	}
	if out == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no crop to save")
	}

	var buf bytes.Buffer
	if err := imaging.EncodeJPEG(&buf, out); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode jpeg")
	}
	return buf.Bytes(), nil
}

func isAllowedMime(contentType string) bool {
	for _, candidate := range allowedMimeTypes {
		if strings.EqualFold(candidate, contentType) {
			return true
		}
	}
	return false
}

// buildObjectName yields "<prefix>/<unix-ms>-<rand>.<ext>". The extension is
// the only part kept from the original file name.
func buildObjectName(fileName string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%d-%s%s", objectPrefix, time.Now().UnixMilli(), randomSuffix(), ext)
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(buf)
}
