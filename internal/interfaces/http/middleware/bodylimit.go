package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shipstack/backend/internal/interfaces/http/dto"
)

// BodyLimit rejects request bodies over maxBytes. Declared lengths are
// rejected up front; chunked bodies are capped by MaxBytesReader, which
// fails the handler's read when the cap is crossed.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size"))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
