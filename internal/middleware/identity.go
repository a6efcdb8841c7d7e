package middleware

import (
	"github.com/gin-gonic/gin"
)

// RequestorHeader carries the acting identity on requests whose operation
// has no body of its own (e.g. removal).
const RequestorHeader = "X-Requestor"

const requestorKey = "requestor"

// RequestorIdentity stores the requestor header value in the request context
// for downstream handlers. Requests without the header pass through; each
// operation decides whether an identity is required.
func RequestorIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if requestor := c.GetHeader(RequestorHeader); requestor != "" {
			c.Set(requestorKey, requestor)
		}
		c.Next()
	}
}

// GetRequestorFromContext returns the requestor identity set by
// RequestorIdentity.
func GetRequestorFromContext(c *gin.Context) (string, bool) {
	requestor, exists := c.Get(requestorKey)
	if !exists {
		return "", false
	}
	str, ok := requestor.(string)
	return str, ok
}
