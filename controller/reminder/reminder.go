package reminder

import (
	"net/http"

	"insynchub/controller"
	"insynchub/dto"
	"insynchub/middleware"
	"insynchub/model"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

func ReminderController(router *gin.Engine, svc *services.NotificationService, tokens *services.TokenService, cronSecret string) {
	router.GET("/api/cron/reminders", middleware.CronSecret(cronSecret), func(c *gin.Context) {
		DispatchReminders(c, svc)
	})

	routes := router.Group("/reminders",
		middleware.AccessTokenMiddleware(tokens),
		middleware.RequireRole(model.RoleAdmin, model.RoleManager),
	)
	{
		routes.GET("", func(c *gin.Context) {
			ListReminders(c, svc)
		})
		routes.POST("", func(c *gin.Context) {
			CreateReminder(c, svc)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteReminder(c, svc)
		})
	}
}

// DispatchReminders runs the daily sweep. The scheduler only looks at the
// success flag.
func DispatchReminders(c *gin.Context, svc *services.NotificationService) {
	result, err := svc.DispatchDueReminders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": result.Processed,
		"sent":      result.Sent,
		"failed":    result.Failed,
	})
}

func ListReminders(c *gin.Context, svc *services.NotificationService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	rs, err := svc.ListReminders(c.Request.Context(), sess)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": rs})
}

func CreateReminder(c *gin.Context, svc *services.NotificationService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	r, err := svc.CreateReminder(c.Request.Context(), sess, req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func DeleteReminder(c *gin.Context, svc *services.NotificationService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	if err := svc.DeleteReminder(c.Request.Context(), sess, c.Param("id")); err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}
