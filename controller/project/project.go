package project

import (
	"net/http"

	"insynchub/controller"
	"insynchub/dto"
	"insynchub/middleware"
	"insynchub/model"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

func ProjectController(router *gin.Engine, svc *services.ProjectService, tokens *services.TokenService) {
	routes := router.Group("/projects", middleware.AccessTokenMiddleware(tokens))
	{
		routes.GET("", func(c *gin.Context) {
			ListProjects(c, svc)
		})
		routes.POST("", func(c *gin.Context) {
			CreateProject(c, svc)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetProject(c, svc)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateProject(c, svc)
		})
		routes.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), func(c *gin.Context) {
			DeleteProject(c, svc)
		})

		routes.POST("/:id/milestones", func(c *gin.Context) {
			AddMilestone(c, svc)
		})
		routes.PUT("/:id/milestones/:mid", func(c *gin.Context) {
			UpdateMilestone(c, svc)
		})
		routes.DELETE("/:id/milestones/:mid", func(c *gin.Context) {
			DeleteMilestone(c, svc)
		})

		routes.POST("/:id/milestones/:mid/tasks", func(c *gin.Context) {
			AddTask(c, svc)
		})
		routes.PUT("/:id/milestones/:mid/tasks/:tid", func(c *gin.Context) {
			UpdateTask(c, svc)
		})
		routes.DELETE("/:id/milestones/:mid/tasks/:tid", func(c *gin.Context) {
			DeleteTask(c, svc)
		})
	}
}

func ListProjects(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	projects, err := svc.ListProjects(c.Request.Context(), sess)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func CreateProject(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	p, err := svc.CreateProject(c.Request.Context(), sess, req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func GetProject(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	p, err := svc.GetProject(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func UpdateProject(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	p, err := svc.UpdateProject(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func DeleteProject(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	if err := svc.DeleteProject(c.Request.Context(), sess, c.Param("id")); err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func AddMilestone(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	m, err := svc.AddMilestone(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func UpdateMilestone(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	m, err := svc.UpdateMilestone(c.Request.Context(), sess, c.Param("id"), c.Param("mid"), req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func DeleteMilestone(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	if err := svc.DeleteMilestone(c.Request.Context(), sess, c.Param("id"), c.Param("mid")); err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Milestone deleted successfully"})
}

func AddTask(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	t, err := svc.AddTask(c.Request.Context(), sess, c.Param("id"), c.Param("mid"), req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func UpdateTask(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	t, err := svc.UpdateTask(c.Request.Context(), sess, c.Param("id"), c.Param("mid"), c.Param("tid"), req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func DeleteTask(c *gin.Context, svc *services.ProjectService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	if err := svc.DeleteTask(c.Request.Context(), sess, c.Param("id"), c.Param("mid"), c.Param("tid")); err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
