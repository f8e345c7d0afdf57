package uploadController

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/storage"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// HandleImageUpload stores an uploaded image and returns its public URL.
func HandleImageUpload(blobs storage.Blobs, maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize+1<<20)
		file, err := c.FormFile("file")
		if err != nil {
			httperr.BadRequest(c, "No file uploaded")
			return
		}
		if file.Size > maxSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
			return
		}

		src, err := file.Open()
		if err != nil {
			httperr.BadRequest(c, "Failed to read file")
			return
		}
		defer src.Close()

		// content type is sniffed, not taken from the part header
		head := make([]byte, 512)
		n, _ := src.Read(head)
		contentType := http.DetectContentType(head[:n])
		if !allowedImageTypes[strings.Split(contentType, ";")[0]] {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{"error": "Only jpeg, png, webp and gif images are allowed"})
			return
		}
		if _, err := src.Seek(0, 0); err != nil {
			httperr.Write(c, err)
			return
		}

		ctx := c.Request.Context()
		fileURL, err := blobs.Save(ctx, storage.ObjectName(file.Filename), contentType, src)
		if err != nil {
			httperr.Write(c, err)
			return
		}

		logger.Ctx(ctx).Info().Str("user_id", middleware.UserID(c)).Str("url", fileURL).Msg("image uploaded")
		c.JSON(http.StatusOK, gin.H{
			"file_url": fileURL,
			"message":  "File uploaded successfully",
		})
	}
}
