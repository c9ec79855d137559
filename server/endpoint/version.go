package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/cryptlib/version"
)

// VersionResponse is the body of the version endpoint.
type VersionResponse struct {
	*version.Info
	Envelope string `json:"envelope,omitempty"`
	KDF      string `json:"kdf,omitempty"`
}

// Version returns a handler that reports build information together with
// the active random-IV envelope and key derivation.
func Version(envelope, kdf string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, VersionResponse{
			Info:     version.GetVersionInfo(),
			Envelope: envelope,
			KDF:      kdf,
		})
	}
}
