package customer

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beqaperanidze/prj-customer-notification/internal/handler"
	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/service/customer"
)

type Handler struct {
	service customer.CustomerService
}

func NewHandler(service customer.CustomerService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/search", h.SearchCustomers)
		// Parameter name matches the nested address/preference routes;
		// gin requires one wildcard name per position.
		customers.GET("/:customerId", h.GetCustomer)
		customers.POST("", h.CreateCustomer)
		customers.PUT("/:customerId", h.UpdateCustomer)
		customers.DELETE("/:customerId", h.DeleteCustomer)
	}
}

func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.service.ListCustomers(c.Request.Context())
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}

	cust, err := h.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err.Error())
		return
	}

	cust, err := h.service.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}

	var req model.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err.Error())
		return
	}

	cust, err := h.service.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		handler.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SearchCustomers(c *gin.Context) {
	filter := &model.CustomerSearchFilter{
		Name:  c.Query("name"),
		Email: c.Query("email"),
		Phone: c.Query("phone"),
	}

	if raw := c.Query("optedInTypes"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			typ := model.NotificationType(strings.TrimSpace(part))
			if !typ.Valid() {
				handler.FailValidation(c, "unknown notification type: "+string(typ))
				return
			}
			filter.OptedInTypes = append(filter.OptedInTypes, typ)
		}
	}

	page, ok := handler.ParsePageRequest(c)
	if !ok {
		return
	}
	filter.PageRequest = *page

	result, err := h.service.SearchCustomers(c.Request.Context(), filter)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
