package response

import (
	"github.com/gin-gonic/gin"

	"go-jobboard-backend/pkg/apperror"
)

// Response standardizes the API JSON response
type Response struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message"`
	Data      interface{}                `json:"data,omitempty"`
	Code      string                     `json:"code,omitempty"`
	Fields    []apperror.FieldViolation  `json:"fields,omitempty"`
	RequestID string                     `json:"request_id,omitempty"`
}

// Success sends a success response
func Success(c *gin.Context, status int, message string, data interface{}) {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string)

	c.JSON(status, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: idStr,
	})
}

// Error sends an error response with a stable machine-readable code
func Error(c *gin.Context, status int, code, message string, fields []apperror.FieldViolation) {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string)

	c.JSON(status, Response{
		Success:   false,
		Message:   message,
		Code:      code,
		Fields:    fields,
		RequestID: idStr,
	})
}
