package transport

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/Pierocul/DIDAWARDS/api/models"
	"github.com/Pierocul/DIDAWARDS/logging"
	"github.com/Pierocul/DIDAWARDS/voting"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	HeaderAdminToken   = "x-admin-token"
	HeaderSessionToken = "x-session-token"

	sessionKey    = "session"
	adminEmailKey = "adminEmail"
)

func NewRouter(ginMode string) *gin.Engine {
	gin.SetMode(ginMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(CORSMiddleware())

	//Bypass swagger for non-local
	if os.Getenv("APP_ENV") == "local" {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	engine.NoRoute(NoRouteHandler())

	return engine
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+HeaderAdminToken+", "+HeaderSessionToken)

		if c.Request.Method == "OPTIONS" {
			logging.Log.Infof("OPTIONS request received:%s", c.Request.URL.Path)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logging.Log.Infof("No routed request received for:%s", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, gin.H{"code": "PAGE_NOT_FOUND", "message": "Page not found"})
	}
}

// SessionMiddleware resolves the x-session-token header against the registry.
func SessionMiddleware(registry *voting.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderSessionToken)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing session token"})
			return
		}
		session, ok := registry.Get(token)
		if !ok {
			logging.Log.Infof("SESSION: unknown or expired session on %s", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "session expired, start a new one"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// SessionFrom returns the session stored by SessionMiddleware.
func SessionFrom(c *gin.Context) *voting.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*voting.Session); ok {
			return s
		}
	}
	return nil
}

// AdminAuthMiddleware accepts either the configured admin token or the
// session token of a verified admin. An empty expected token disables the
// header check; registry may be nil.
func AdminAuthMiddleware(expected string, registry *voting.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAdminToken)
		if expected != "" && token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1 {
			c.Set(adminEmailKey, "admin-token")
			c.Next()
			return
		}

		if registry != nil {
			if session, ok := registry.Get(c.GetHeader(HeaderSessionToken)); ok && session.IsAdmin() {
				c.Set(adminEmailKey, session.Email())
				c.Next()
				return
			}
		}

		logging.Log.Warnf("ADMIN: Unauthorized access attempt to %s", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
	}
}

// AdminFrom names the caller that passed AdminAuthMiddleware.
func AdminFrom(c *gin.Context) string {
	return c.GetString(adminEmailKey)
}
