package transaction

import (
	"net/http"

	"insynchub/controller"
	"insynchub/dto"
	"insynchub/middleware"
	"insynchub/model"
	"insynchub/services"

	"github.com/gin-gonic/gin"
)

func TransactionController(router *gin.Engine, svc *services.TransactionService, tokens *services.TokenService) {
	routes := router.Group("/transactions",
		middleware.AccessTokenMiddleware(tokens),
		middleware.RequireRole(model.RoleAdmin, model.RoleFinance),
	)
	{
		routes.GET("", func(c *gin.Context) {
			ListTransactions(c, svc)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTransaction(c, svc)
		})
		routes.GET("/summary", func(c *gin.Context) {
			Summary(c, svc)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateTransaction(c, svc)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteTransaction(c, svc)
		})
	}
}

func ListTransactions(c *gin.Context, svc *services.TransactionService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var q dto.TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controller.BadRequest(c, err)
		return
	}
	txs, err := svc.ListTransactions(c.Request.Context(), sess, q)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func CreateTransaction(c *gin.Context, svc *services.TransactionService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	t, err := svc.CreateTransaction(c.Request.Context(), sess, req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func Summary(c *gin.Context, svc *services.TransactionService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	sum, err := svc.Summary(c.Request.Context(), sess, c.Query("month"))
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func UpdateTransaction(c *gin.Context, svc *services.TransactionService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(c, err)
		return
	}
	t, err := svc.UpdateTransaction(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func DeleteTransaction(c *gin.Context, svc *services.TransactionService) {
	sess, ok := controller.Session(c)
	if !ok {
		return
	}
	if err := svc.DeleteTransaction(c.Request.Context(), sess, c.Param("id")); err != nil {
		controller.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}
