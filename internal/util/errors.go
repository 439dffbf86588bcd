package util

import (
	"log"

	"github.com/gin-gonic/gin"

	"consultaplaca/internal/config"
)

// ErrorResponder funnels handler failures into the API's JSON error
// envelope. The detailed error is always logged but only echoed to clients
// outside release mode.
type ErrorResponder struct {
	verbose bool
}

// NewErrorResponder builds the funnel from configuration. Release mode
// suppresses error details in responses.
func NewErrorResponder(cfg *config.Config) *ErrorResponder {
	return &ErrorResponder{verbose: !cfg.IsRelease()}
}

// Error writes the error envelope with a user-facing message.
func (r *ErrorResponder) Error(c *gin.Context, statusCode int, userMessage string, err error) {
	if err != nil {
		log.Printf("[ERROR] %s: %v", c.Request.URL.Path, err)
	}

	response := gin.H{
		"success": false,
		"message": userMessage,
	}
	if r.verbose && err != nil {
		response["error"] = err.Error()
	}

	c.JSON(statusCode, response)
}
