// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the admin key gate protecting the dashboard API. The
// key may arrive as a "key" or "adminKey" query parameter or as an
// "x-admin-key" header; all three are accepted so dashboards and curl users
// work alike. Comparison is constant time.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderAdminKey is the header carrying the admin dashboard key.
const HeaderAdminKey = "X-Admin-Key"

// AdminAuth returns a Gin middleware that rejects requests lacking the
// configured admin key with a 401 error envelope. An empty configured key
// locks the admin surface entirely; there is no open-by-default mode.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.Query("key")
		if supplied == "" {
			supplied = c.Query("adminKey")
		}
		if supplied == "" {
			supplied = c.GetHeader(HeaderAdminKey)
		}

		authorized := adminKey != "" &&
			subtle.ConstantTimeCompare([]byte(supplied), []byte(adminKey)) == 1
		if !authorized {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "invalid or missing admin key",
			})
			return
		}
		c.Next()
	}
}
