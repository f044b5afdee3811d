package response

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/larissaOjeda/thesis-canvas/pkg/errors"
)

// Envelope is the JSON contract every endpoint responds with.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON writes a success envelope. Responses are marked uncacheable at
// the HTTP layer; caching happens server-side keyed by semester.
func JSON(c *gin.Context, status int, data interface{}, meta map[string]interface{}) {
	noStore(c)
	c.JSON(status, Envelope{Data: data, Meta: meta})
}

// Error writes an error envelope using the error's own HTTP status.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
