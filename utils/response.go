package utils

import "github.com/gin-gonic/gin"

// JSONResponse is the uniform envelope every endpoint answers with. Code
// zero means success; error codes group by the HTTP status they ship with.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes an enveloped JSON response with the given HTTP status.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}
