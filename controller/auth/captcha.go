package auth

import (
	"net/http"
	"strings"

	"insynchub/dto"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

func CaptchaController(router *gin.Engine, svc *services.CaptchaService) {
	routes := router.Group("/auth")
	{
		routes.POST("/captcha", func(c *gin.Context) {
			VerifyCaptcha(c, svc)
		})
	}
}

func VerifyCaptcha(c *gin.Context, svc *services.CaptchaService) {
	var req dto.CaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Token is required",
		})
		return
	}

	result, err := svc.Assess(c.Request.Context(), req.Token, req.Action, getClientIP(c), c.Request.UserAgent())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}
	if result == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "reCAPTCHA verification failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"score":   result.Score,
		"action":  result.Action,
		"reasons": result.Reasons,
		"message": "Captcha verified successfully",
	})
}

// getClientIP keeps only the first address of a forwarded chain.
func getClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = c.Request.RemoteAddr
	}
	if idx := strings.Index(ip, ","); idx != -1 {
		ip = strings.TrimSpace(ip[:idx])
	}
	return ip
}
