package auth

import (
	"net/http"

	"insynchub/controller"
	"insynchub/dto"
	"insynchub/middleware"
	"insynchub/model"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

func SessionController(router *gin.Engine, svc *services.AuthService, tokens *services.TokenService) {
	routes := router.Group("/auth")
	{
		routes.POST("/session", func(c *gin.Context) {
			CreateSession(c, svc)
		})
		routes.POST("/refresh", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
			RefreshToken(c, svc)
		})
		routes.POST("/signout", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
			SignOut(c, svc)
		})
		routes.POST("/workspace", middleware.AccessTokenMiddleware(tokens), func(c *gin.Context) {
			SwitchWorkspace(c, svc)
		})
	}
}

func sessionResponse(c *gin.Context, status int, message string, tokens model.TokenResponse, user *model.UserProfile) {
	c.JSON(status, gin.H{
		"message": message,
		"token":   tokens,
		"user":    user,
	})
}

func CreateSession(c *gin.Context, svc *services.AuthService) {
	var req dto.SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	tokens, user, err := svc.CreateSession(c.Request.Context(), req.IDToken, req.WorkspaceID)
	if err != nil {
		controller.Error(c, err)
		return
	}
	sessionResponse(c, http.StatusOK, "Login successful", tokens, user)
}

func RefreshToken(c *gin.Context, svc *services.AuthService) {
	tokens, user, err := svc.Refresh(c.Request.Context(), middleware.GetRefreshToken(c))
	if err != nil {
		controller.Error(c, err)
		return
	}
	sessionResponse(c, http.StatusOK, "Token refreshed", tokens, user)
}

func SignOut(c *gin.Context, svc *services.AuthService) {
	if err := svc.SignOut(c.Request.Context(), middleware.GetRefreshToken(c)); err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func SwitchWorkspace(c *gin.Context, svc *services.AuthService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.SwitchWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	tokens, user, err := svc.SwitchWorkspace(c.Request.Context(), sess, req.WorkspaceID)
	if err != nil {
		controller.Error(c, err)
		return
	}
	sessionResponse(c, http.StatusOK, "Workspace switched", tokens, user)
}
