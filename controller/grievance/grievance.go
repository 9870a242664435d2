package grievance

import (
	"errors"
	"net/http"

	"insynchub/controller"
	"insynchub/controller/document"
	"insynchub/dto"
	"insynchub/middleware"
	"insynchub/model"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

const maxAttachmentSize = 10 << 20

func GrievanceController(router *gin.Engine, svc *services.GrievanceService, tokens *services.TokenService) {
	routes := router.Group("/grievances", middleware.AccessTokenMiddleware(tokens))
	{
		routes.GET("", func(c *gin.Context) {
			ListGrievances(c, svc)
		})
		routes.POST("", func(c *gin.Context) {
			SubmitGrievance(c, svc)
		})
		routes.PUT("/:id/status", middleware.RequireRole(model.RoleAdmin), func(c *gin.Context) {
			UpdateStatus(c, svc)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteGrievance(c, svc)
		})
	}
}

func ListGrievances(c *gin.Context, svc *services.GrievanceService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	gs, err := svc.ListGrievances(c.Request.Context(), sess)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grievances": gs})
}

// SubmitGrievance takes a multipart form; the "file" part is optional.
func SubmitGrievance(c *gin.Context, svc *services.GrievanceService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.SubmitGrievanceRequest
	if err := c.ShouldBind(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}

	var attachment *services.FileUpload
	fh, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		controller.BadRequest(c, err)
		return
	default:
		if fh.Size > maxAttachmentSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
			return
		}
		upload, closeFn, err := document.OpenUpload(fh)
		if err != nil {
			controller.Error(c, err)
			return
		}
		defer closeFn()
		attachment = &upload
	}

	g, err := svc.SubmitGrievance(c.Request.Context(), sess, req, attachment)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func UpdateStatus(c *gin.Context, svc *services.GrievanceService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.UpdateGrievanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	g, err := svc.UpdateStatus(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func DeleteGrievance(c *gin.Context, svc *services.GrievanceService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	if err := svc.DeleteGrievance(c.Request.Context(), sess, c.Param("id")); err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Grievance deleted successfully"})
}
