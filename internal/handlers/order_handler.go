package handlers

import (
	"context"
	"net/http"
	"time"

	"kalban_greenbag/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService     services.OrderService
	orderItemService services.OrderItemService
	analyticsService services.AnalyticsService
}

func NewOrderHandler(
	orderService services.OrderService,
	orderItemService services.OrderItemService,
	analyticsService services.AnalyticsService,
) *OrderHandler {
	return &OrderHandler{
		orderService:     orderService,
		orderItemService: orderItemService,
		analyticsService: analyticsService,
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.AddOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) ChangeOrderStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	changed, err := h.orderService.ChangeStatus(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, changed)
}

func (h *OrderHandler) FindOrderByID(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.orderService.GetAll(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetAllActiveOrders(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.orderService.FindAllByStatusTrue(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) GetOrdersByUserID(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}
	var q userOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.orderService.GetOrderByUserID(c.Request.Context(), userID, q.Status, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) HasOrderWithStatus(c *gin.Context) {
	userID, ok := uuidParam(c, "userId")
	if !ok {
		return
	}

	exists, err := h.orderService.HasOrderWithStatus(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exists)
}

func (h *OrderHandler) GetOrdersByOrderCode(c *gin.Context) {
	code, ok := int64Param(c, "orderCode")
	if !ok {
		return
	}
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.orderService.GetOrderByOrderCode(c.Request.Context(), code, q.Page, q.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *OrderHandler) FindLatestByOrderCode(c *gin.Context) {
	code, ok := int64Param(c, "orderCode")
	if !ok {
		return
	}

	order, err := h.orderService.FindByOrderCode(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateTotalAmount is called by the payment webhook to reconcile the paid amount.
func (h *OrderHandler) UpdateTotalAmount(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.UpdateTotalAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.orderService.UpdateOrderTotalAmount(c.Request.Context(), id, req.TotalAmount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *OrderHandler) RecalculateTotal(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	total, err := h.orderService.RecalculateTotal(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "total_amount": total})
}

func (h *OrderHandler) ListItems(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	items, err := h.orderItemService.ListItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req services.AddOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.orderItemService.AddItem(c.Request.Context(), actor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *OrderHandler) UpdateItem(c *gin.Context) {
	var req services.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.orderItemService.UpdateItem(c.Request.Context(), actor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *OrderHandler) DeleteItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderItemService.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, true)
}

func (h *OrderHandler) PieChartByOrderStatus(c *gin.Context) {
	h.pieChart(c, h.analyticsService.PieChartByOrderStatus)
}

func (h *OrderHandler) PieChartByStatus(c *gin.Context) {
	h.pieChart(c, h.analyticsService.PieChartByStatus)
}

func (h *OrderHandler) pieChart(c *gin.Context, chart func(ctx context.Context, from, to time.Time) ([]services.PieChartEntry, error)) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	from, err := parseDate(q.FromDate, "fromDate")
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDate(q.ToDate, "toDate")
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := chart(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *OrderHandler) TotalAmountAndCountByStatus(c *gin.Context) {
	var q totalsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}

	totals, err := h.analyticsService.TotalAmountAndCountByStatus(c.Request.Context(), q.StartDate, q.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
