package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Router struct {
	Orders         *OrderHandler
	Customizations *ProductCustomizationHandler
	Checks         map[string]HealthCheck
	Logger         *logrus.Logger
}

func (r Router) Engine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), ActorMiddleware(), LoggingMiddleware(r.Logger))

	api := router.Group("/api")
	{
		api.GET("/health", r.health)
	}

	v1 := api.Group("/v1")

	orders := v1.Group("/orders")
	{
		orders.POST("", r.Orders.CreateOrder)
		orders.PATCH("", r.Orders.UpdateOrder)
		orders.GET("", r.Orders.GetAllOrders)
		orders.GET("/active", r.Orders.GetAllActiveOrders)
		orders.GET("/pie-chart", r.Orders.PieChartByOrderStatus)
		orders.GET("/pie-chart-status", r.Orders.PieChartByStatus)
		orders.GET("/totals", r.Orders.TotalAmountAndCountByStatus)
		orders.GET("/user/:userId", r.Orders.GetOrdersByUserID)
		orders.GET("/user/:userId/exists", r.Orders.HasOrderWithStatus)
		orders.GET("/code/:orderCode", r.Orders.GetOrdersByOrderCode)
		orders.GET("/code/:orderCode/latest", r.Orders.FindLatestByOrderCode)
		orders.GET("/:id", r.Orders.FindOrderByID)
		orders.DELETE("/:id", r.Orders.ChangeOrderStatus)
		orders.PUT("/:id/total-amount", r.Orders.UpdateTotalAmount)
		orders.POST("/:id/recalculate", r.Orders.RecalculateTotal)
		orders.GET("/:id/items", r.Orders.ListItems)
		orders.POST("/:id/items", r.Orders.AddItem)
	}

	items := v1.Group("/order-items")
	{
		items.PATCH("", r.Orders.UpdateItem)
		items.DELETE("/:id", r.Orders.DeleteItem)
	}

	customizations := v1.Group("/customizations")
	{
		customizations.POST("", r.Customizations.Create)
		customizations.PATCH("", r.Customizations.Update)
		customizations.GET("", r.Customizations.GetAll)
		customizations.GET("/active", r.Customizations.GetAllActive)
		customizations.GET("/user/:userId", r.Customizations.GetByUserID)
		customizations.GET("/:id", r.Customizations.FindByID)
		customizations.DELETE("/:id", r.Customizations.ChangeStatus)
	}

	return router
}

func (r Router) health(c *gin.Context) {
	status := gin.H{}
	healthy := true
	for name, check := range r.Checks {
		if err := check(c.Request.Context()); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "checks": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": status})
}
