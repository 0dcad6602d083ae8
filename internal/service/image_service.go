package service

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"plume/internal/config"
	"plume/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageUploadDir       = "/tmp/plume/uploads/images"
	DefaultImageMaxUploadSizeMB = 10
	MasterMaxSize               = 2048
	ThumbnailSize               = 256
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// ImageService validates post image uploads and writes the master copy plus a
// WebP thumbnail to disk. Validation happens before any bytes touch disk, so
// a rejected upload leaves nothing behind.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			uploadDir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Save validates the uploaded bytes as an image and stores them. It returns
// the relative path of the master copy for the post record. Any validation
// failure comes back as a ValidationError so the write pipeline can refuse
// the whole post.
func (s *ImageService) Save(content []byte, contentType string) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedImageMIME(detectedType) {
		return "", models.NewValidationError("invalid image")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("invalid image")
	}
	if !isSupportedDecodedFormat(format) {
		return "", models.NewValidationError("invalid image")
	}
	if provided := normalizeContentType(contentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return "", models.NewValidationError("invalid image")
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)
	encodedMaster, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	thumb := resizeToFit(master, ThumbnailSize, ThumbnailSize)
	encodedThumb, err := encodeWebP(thumb, WebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	dir := uuid.NewString()
	masterRel := filepath.ToSlash(filepath.Join(dir, "master.jpg"))
	thumbRel := filepath.ToSlash(filepath.Join(dir, "thumb.webp"))
	masterAbs := filepath.Join(s.uploadDir, masterRel)
	thumbAbs := filepath.Join(s.uploadDir, thumbRel)

	if err := writeBytesToFile(masterAbs, encodedMaster); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writeBytesToFile(thumbAbs, encodedThumb); err != nil {
		_ = os.Remove(masterAbs)
		return "", models.NewInternalError(err)
	}

	return masterRel, nil
}

// Remove deletes the stored master and thumbnail for the given master path.
// Removal is best-effort: the caller's write has already been decided and a
// leftover file is preferable to failing it.
func (s *ImageService) Remove(relPath string) {
	if relPath == "" {
		return
	}
	dir := filepath.Dir(filepath.Clean("/" + relPath))
	if dir == "/" || dir == "." {
		return
	}
	_ = os.RemoveAll(filepath.Join(s.uploadDir, dir))
}

// Resolve maps a stored relative path back to the absolute file on disk.
func (s *ImageService) Resolve(relPath string) (string, error) {
	cleaned := filepath.Clean("/" + relPath)
	fullPath := filepath.Join(s.uploadDir, cleaned)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Image", relPath)
		}
		return "", models.NewInternalError(err)
	}
	return fullPath, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
