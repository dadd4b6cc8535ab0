package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/errors"
)

// CredentialRewriteMiddleware turns 403 responses into 401 for requests
// that carried no Authorization header at all.
func CredentialRewriteMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Writer = &credentialRewriteWriter{ResponseWriter: c.Writer}
		}
		c.Next()
	}
}

type credentialRewriteWriter struct {
	gin.ResponseWriter
	rewriting bool
	replaced  bool
}

func (w *credentialRewriteWriter) WriteHeader(code int) {
	if code == http.StatusForbidden {
		w.rewriting = true
		w.Header().Set("WWW-Authenticate", "Bearer")
		code = http.StatusUnauthorized
	}
	w.ResponseWriter.WriteHeader(code)
}

// Write swaps the forbidden body for the unauthenticated one.
func (w *credentialRewriteWriter) Write(data []byte) (int, error) {
	if !w.rewriting {
		return w.ResponseWriter.Write(data)
	}
	if !w.replaced {
		w.replaced = true
		body, err := json.Marshal(errors.ErrorResponse{
			Error:   errors.AuthUnauthorized,
			Message: errors.MsgCouldNotValidate,
		})
		if err != nil {
			return 0, err
		}
		if _, err := w.ResponseWriter.Write(body); err != nil {
			return 0, err
		}
	}
	return len(data), nil
}

func (w *credentialRewriteWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}
