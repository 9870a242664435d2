package user

import (
	"net/http"

	"insynchub/controller"
	"insynchub/dto"
	"insynchub/middleware"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

func UserController(router *gin.Engine, svc *services.UserService, tokens *services.TokenService) {
	routes := router.Group("/team", middleware.AccessTokenMiddleware(tokens))
	{
		routes.GET("", func(c *gin.Context) {
			ListTeam(c, svc)
		})
		routes.GET("/me", func(c *gin.Context) {
			GetProfile(c, svc)
		})
		routes.PUT("/me", func(c *gin.Context) {
			UpdateProfile(c, svc)
		})
	}
}

func ListTeam(c *gin.Context, svc *services.UserService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	users, err := svc.ListTeam(c.Request.Context(), sess)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func GetProfile(c *gin.Context, svc *services.UserService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	u, err := svc.Get(c.Request.Context(), sess.UserID)
	if err != nil {
		controller.Error(c, err)
		return
	}
	// The token decides which tenant is active.
	u.WorkspaceID = sess.WorkspaceID
	u.Role = sess.Role
	c.JSON(http.StatusOK, u)
}

func UpdateProfile(c *gin.Context, svc *services.UserService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	u, err := svc.UpdateProfile(c.Request.Context(), sess, req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": u})
}
