package doc

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// swaggerJSON serves the registered swagger document with the servers of
// the environment and the client token scheme filled in
func swaggerJSON(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read Swagger doc"})
			return
		}

		var spec map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Swagger doc"})
			return
		}

		spec["servers"] = serversFor(environment)

		components, _ := spec["components"].(map[string]interface{})
		if components == nil {
			components = make(map[string]interface{})
			spec["components"] = components
		}
		schemes, _ := components["securitySchemes"].(map[string]interface{})
		if schemes == nil {
			schemes = make(map[string]interface{})
			components["securitySchemes"] = schemes
		}
		schemes["BearerAuth"] = map[string]interface{}{
			"type":         "http",
			"scheme":       "bearer",
			"bearerFormat": "PASETO",
			"description":  "Client token from POST /api/v1/clients",
		}

		out, err := json.Marshal(spec)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate modified Swagger doc"})
			return
		}
		c.Data(http.StatusOK, "application/json", out)
	}
}

func serversFor(environment string) []map[string]interface{} {
	servers := []map[string]interface{}{
		{"url": "http://localhost:8080/api/v1", "description": "Local Development Server"},
	}
	switch environment {
	case "staging":
		servers = append(servers, map[string]interface{}{
			"url": "https://staging.atlas.example.com/api/v1", "description": "Staging Server",
		})
	case "production":
		servers = append(servers, map[string]interface{}{
			"url": "https://atlas.example.com/api/v1", "description": "Production Server",
		})
	}
	return servers
}

const elementsHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Atlas API Documentation</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
    <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
    <style>
        body { margin: 0; padding: 0; height: 100vh; }
        elements-api { height: 100%; }
    </style>
</head>
<body>
    <elements-api apiDescriptionUrl="/swagger/doc.json" router="hash" layout="sidebar"></elements-api>
</body>
</html>`

func serveElements(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(elementsHTML))
}

// Init mounts the swagger document and the documentation viewer
func Init(r *gin.Engine, environment string) {
	r.GET("/swagger/doc.json", swaggerJSON(environment))
	r.GET("/docs/*any", serveElements)
}
