package handlers

import (
	"net/http"
	"path"
	"strings"

	"courtside/services/storage"
	"courtside/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// StorageHandler accepts image uploads for listings and profiles.
type StorageHandler struct {
	Images storage.ImageStore
}

func NewStorageHandler(images storage.ImageStore) *StorageHandler {
	return &StorageHandler{Images: images}
}

// UploadImage handles POST /api/partners/me/uploads with multipart field "file".
func (h *StorageHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing file", err.Error())
		return
	}
	contentType := strings.ToLower(fh.Header.Get("Content-Type"))
	if !allowedImageTypes[contentType] {
		utils.JSONError(c, http.StatusUnsupportedMediaType, "Unsupported image type", contentType)
		return
	}

	f, err := fh.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Could not read file", err.Error())
		return
	}
	defer f.Close()

	img, err := h.Images.Upload(c.Request.Context(), f, path.Join("partners", callerID(c)))
	if err != nil {
		getLogger(c).Error("Image upload failed", zap.String("filename", fh.Filename), zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Upload failed", "")
		return
	}
	c.JSON(http.StatusCreated, img)
}
