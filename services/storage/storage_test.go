package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/services/storage"
)

type fakeUploader struct {
	params    uploader.UploadParams
	destroyed string
	publicID  string
	err       error
}

func (f *fakeUploader) Upload(_ context.Context, _ interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &uploader.UploadResult{
		PublicID:  f.publicID,
		SecureURL: "https://res.cloudinary.com/demo/image/upload/v1/" + f.publicID + ".jpg",
	}, nil
}

func (f *fakeUploader) Destroy(_ context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = params.PublicID
	return &uploader.DestroyResult{Result: "ok"}, nil
}

func newStore(t *testing.T, up *fakeUploader) *storage.CloudinaryStore {
	t.Helper()
	cld, err := cloudinary.NewFromParams("demo", "key", "secret")
	require.NoError(t, err)
	return storage.NewCloudinaryStore(cld, "courtside").WithUploader(up)
}

func TestUpload(t *testing.T) {
	up := &fakeUploader{publicID: "courtside/listings/court1"}
	store := newStore(t, up)

	img, err := store.Upload(context.Background(), strings.NewReader("jpeg bytes"), "listings")
	require.NoError(t, err)

	assert.Equal(t, "courtside/listings", up.params.Folder)
	assert.Equal(t, "courtside/listings/court1", img.PublicID)
	assert.Contains(t, img.URL, "court1.jpg")
	assert.Contains(t, img.ThumbnailURL, storage.ThumbnailTransformation)
	assert.Contains(t, img.ThumbnailURL, "courtside/listings/court1")
}

func TestUpload_Errors(t *testing.T) {
	store := newStore(t, &fakeUploader{err: errors.New("network")})
	_, err := store.Upload(context.Background(), strings.NewReader("x"), "")
	assert.ErrorContains(t, err, "network")

	store = newStore(t, &fakeUploader{})
	_, err = store.Upload(context.Background(), strings.NewReader("x"), "")
	assert.ErrorIs(t, err, storage.ErrEmptyUpload)
}

func TestDelete(t *testing.T) {
	up := &fakeUploader{}
	store := newStore(t, up)

	require.NoError(t, store.Delete(context.Background(), "courtside/listings/court1"))
	assert.Equal(t, "courtside/listings/court1", up.destroyed)
}
