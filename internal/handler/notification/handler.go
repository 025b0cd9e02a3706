package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beqaperanidze/prj-customer-notification/internal/handler"
	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/service/notification"
)

type Handler struct {
	service notification.NotificationService
}

func NewHandler(service notification.NotificationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("/search", h.SearchNotifications)
		notifications.GET("/stats", h.GetStatistics)
		notifications.GET("/opt-in-report", h.GetOptInReport)
		notifications.GET("/customer/:customerId", h.ListByCustomer)
		notifications.GET("/customer/:customerId/stats", h.GetCustomerStatistics)
		notifications.GET("/:id", h.GetNotification)
		notifications.POST("/send", h.SendNotification)
		notifications.PUT("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) GetNotification(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	dto, err := h.service.GetNotification(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *Handler) ListByCustomer(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	page, ok := handler.ParsePageRequest(c)
	if !ok {
		return
	}

	result, err := h.service.ListByCustomer(c.Request.Context(), customerID, page)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) SearchNotifications(c *gin.Context) {
	filter := &model.NotificationSearchFilter{}

	if raw := c.Query("customerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			handler.FailValidation(c, "customerId must be a number")
			return
		}
		filter.CustomerID = &id
	}
	if raw := c.Query("type"); raw != "" {
		typ := model.NotificationType(raw)
		if !typ.Valid() {
			handler.FailValidation(c, "unknown notification type: "+raw)
			return
		}
		filter.Type = &typ
	}
	if raw := c.Query("status"); raw != "" {
		status := model.NotificationStatus(raw)
		if !status.Valid() {
			handler.FailValidation(c, "unknown notification status: "+raw)
			return
		}
		filter.Status = &status
	}

	window, ok := handler.ParseDateRange(c)
	if !ok {
		return
	}
	filter.DateRange = window

	page, ok := handler.ParsePageRequest(c)
	if !ok {
		return
	}
	filter.PageRequest = *page

	result, err := h.service.SearchNotifications(c.Request.Context(), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) SendNotification(c *gin.Context) {
	var req model.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err.Error())
		return
	}

	dto, err := h.service.Send(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	status := model.NotificationStatus(c.Query("status"))
	if status == "" {
		handler.FailValidation(c, "status is required")
		return
	}
	if !status.Valid() {
		handler.FailValidation(c, "unknown notification status: "+string(status))
		return
	}

	dto, err := h.service.UpdateStatus(c.Request.Context(), id, status, c.Query("failureReason"))
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *Handler) GetStatistics(c *gin.Context) {
	window, ok := handler.ParseDateRange(c)
	if !ok {
		return
	}

	stats, err := h.service.Statistics(c.Request.Context(), window)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetCustomerStatistics(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	window, ok := handler.ParseDateRange(c)
	if !ok {
		return
	}

	stats, err := h.service.CustomerStatistics(c.Request.Context(), customerID, window)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetOptInReport(c *gin.Context) {
	window, ok := handler.ParseDateRange(c)
	if !ok {
		return
	}

	report, err := h.service.OptInReport(c.Request.Context(), window)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
