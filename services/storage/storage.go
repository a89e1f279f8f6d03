package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"courtside/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ThumbnailTransformation is applied to every uploaded image for list views.
const ThumbnailTransformation = "c_fill,h_200,w_200"

var ErrEmptyUpload = errors.New("no public ID returned for upload")

// ImageStore keeps listing and profile pictures.
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, folder string) (*models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// Uploader is the part of the Cloudinary upload API the store calls.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore implements ImageStore on Cloudinary.
type CloudinaryStore struct {
	cld      *cloudinary.Cloudinary
	uploads  Uploader
	rootPath string
}

// NewCloudinaryStore uploads through cld.Upload. Folders passed to Upload are
// nested under root.
func NewCloudinaryStore(cld *cloudinary.Cloudinary, root string) *CloudinaryStore {
	return &CloudinaryStore{cld: cld, uploads: &cld.Upload, rootPath: root}
}

// WithUploader swaps the upload API, keeping URL building on cld.
func (s *CloudinaryStore) WithUploader(u Uploader) *CloudinaryStore {
	s.uploads = u
	return s
}

func (s *CloudinaryStore) folder(sub string) string {
	switch {
	case s.rootPath == "":
		return sub
	case sub == "":
		return s.rootPath
	default:
		return s.rootPath + "/" + sub
	}
}

// Upload stores the image and returns its delivery URL and a square thumbnail URL.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, folder string) (*models.Image, error) {
	result, err := s.uploads.Upload(ctx, file, uploader.UploadParams{Folder: s.folder(folder)})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	if result.PublicID == "" {
		if result.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyUpload, result.Error.Message)
		}
		return nil, ErrEmptyUpload
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	thumb, err := s.thumbnailURL(result.PublicID)
	if err != nil {
		return nil, err
	}
	return &models.Image{URL: url, ThumbnailURL: thumb, PublicID: result.PublicID}, nil
}

func (s *CloudinaryStore) thumbnailURL(publicID string) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("failed to build image asset: %w", err)
	}
	img.Transformation = ThumbnailTransformation
	url, err := img.String()
	if err != nil {
		return "", fmt.Errorf("failed to build thumbnail URL: %w", err)
	}
	return url, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if _, err := s.uploads.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}
	return nil
}
