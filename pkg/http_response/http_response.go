package http_response

import "github.com/gin-gonic/gin"

// Error response
func ErrorResponse(statusCode int, message string) gin.H {
	return gin.H{
		"statusCode": statusCode,
		"message":    message,
		"data":       nil,
	}
}

// Success response
func SuccessResponse(data interface{}, message string) gin.H {
	return gin.H{
		"statusCode": 200,
		"message":    message,
		"data":       data,
	}
}

// StateResponse carries data alongside a non-success status, so a client can
// render the current state next to the error that produced it.
func StateResponse(statusCode int, data interface{}, message string) gin.H {
	return gin.H{
		"statusCode": statusCode,
		"message":    message,
		"data":       data,
	}
}
