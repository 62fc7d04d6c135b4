package api

import "github.com/gin-gonic/gin"

// ClientIDKey is the gin context key holding the authenticated client ID
const ClientIDKey = "clientID"

// ClientID returns the client set by the client middleware
func ClientID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ClientIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
