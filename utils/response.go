package utils

import (
	"errors"
	"net/http"

	"headlines/model"
	"headlines/scraper"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  int         `json:"-"`                 // HTTP status code
	Message string      `json:"message,omitempty"` // Optional message
	Error   string      `json:"error,omitempty"`   // Error message
	Data    interface{} `json:"data,omitempty"`    // Response data
}

// ErrorBody is an error serialized as-is for the client: its kind, its
// message and, for validation failures, the rejected fields.
type ErrorBody struct {
	Name    string            `json:"name"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func ErrorPayload(err error) ErrorBody {
	body := ErrorBody{Name: "Error", Message: err.Error()}

	var verr *model.ValidationError
	var nerr *scraper.NetworkError
	switch {
	case errors.As(err, &verr):
		body.Name = "ValidationError"
		body.Errors = verr.Fields
	case errors.As(err, &nerr):
		body.Name = "NetworkError"
	case errors.Is(err, model.ErrArticleNotFound):
		body.Name = "NotFound"
	}
	return body
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status: http.StatusOK,
		Data:   data,
	})
}

// StoreError responds with the error payload passed straight through
func StoreError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, ErrorPayload(err))
}

// UpstreamError responds to a failed fetch of the source page
func UpstreamError(c *gin.Context, err error) {
	c.JSON(http.StatusBadGateway, ErrorPayload(err))
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &Response{
		Status: http.StatusNotFound,
		Error:  message,
	})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &Response{
		Status: http.StatusBadRequest,
		Error:  message,
	})
}

func PayloadTooLarge(c *gin.Context, message string) {
	c.JSON(http.StatusRequestEntityTooLarge, &Response{
		Status: http.StatusRequestEntityTooLarge,
		Error:  message,
	})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, &Response{
		Status: http.StatusInternalServerError,
		Error:  message,
	})
}
