package http

import "github.com/gin-gonic/gin"

// Module mounts one area of the API, e.g. leads and their conversions.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module sees of the router.
type RouterContext struct {
	// V1 is /api/v1 behind the rate limiter only.
	V1 *gin.RouterGroup
	// Protected is V1 plus bearer auth, or V1 itself when JWT_ACCESS_SECRET
	// is empty.
	Protected *gin.RouterGroup
}
