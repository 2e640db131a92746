package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kalindafab/eventease-auth/internal/http/handlers"
	"github.com/kalindafab/eventease-auth/internal/http/middleware"
)

// BuildRouter wires the auth flows and the protected application
// surfaces. Which permission gates which surface is decided by the route
// policy, not here.
func BuildRouter(ah *handlers.AuthHandlers, guardMW *middleware.GuardMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/auth")
	auth.POST("/login", ah.Login)
	auth.POST("/otp/verify", ah.VerifyOTP)
	auth.POST("/otp/resend", ah.ResendOTP)
	auth.POST("/refresh", ah.Refresh)
	auth.POST("/logout", ah.Logout)
	auth.GET("/session", ah.Session)

	v := r.Group("/").Use(guardMW.Protect())
	v.GET("/dashboard", func(c *gin.Context) {
		c.JSON(200, gin.H{"surface": "dashboard", "user_id": c.GetString("user_id")})
	})
	v.GET("/events/mine", func(c *gin.Context) {
		c.JSON(200, gin.H{"surface": "my-events", "user_id": c.GetString("user_id")})
	})
	v.POST("/events", func(c *gin.Context) {
		c.JSON(201, gin.H{"surface": "create-event", "user_id": c.GetString("user_id")})
	})
	v.GET("/tickets/mine", func(c *gin.Context) {
		c.JSON(200, gin.H{"surface": "my-tickets", "user_id": c.GetString("user_id")})
	})

	adm := r.Group("/admin").Use(guardMW.Protect())
	adm.GET("/users", func(c *gin.Context) {
		c.JSON(200, gin.H{"surface": "user-management"})
	})
	adm.GET("/approvals", func(c *gin.Context) {
		c.JSON(200, gin.H{"surface": "manager-approvals"})
	})

	return r
}
