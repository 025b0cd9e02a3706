package address

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/beqaperanidze/prj-customer-notification/internal/handler"
	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/service/address"
)

type Handler struct {
	service address.AddressService
}

func NewHandler(service address.AddressService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	addresses := r.Group("/customers/:customerId/addresses")
	{
		addresses.GET("", h.ListAddresses)
		addresses.GET("/:id", h.GetAddress)
		addresses.POST("", h.CreateAddress)
		addresses.PUT("/:id", h.UpdateAddress)
		addresses.PUT("/:id/primary", h.SetPrimaryAddress)
		addresses.PUT("/:id/verify", h.SetVerified)
		addresses.DELETE("/:id", h.DeleteAddress)
	}
}

func (h *Handler) ListAddresses(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}

	if typ := c.Query("type"); typ != "" {
		addresses, err := h.service.ListAddressesByType(c.Request.Context(), customerID, model.AddressType(typ))
		if err != nil {
			handler.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, addresses)
		return
	}

	addresses, err := h.service.ListAddresses(c.Request.Context(), customerID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *Handler) GetAddress(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	addr, err := h.service.GetAddress(c.Request.Context(), id, customerID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) CreateAddress(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}

	var req model.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err.Error())
		return
	}

	addr, err := h.service.CreateAddress(c.Request.Context(), customerID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err.Error())
		return
	}

	addr, err := h.service.UpdateAddress(c.Request.Context(), id, customerID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) SetPrimaryAddress(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	addr, err := h.service.SetPrimaryAddress(c.Request.Context(), id, customerID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) SetVerified(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	raw := c.Query("verified")
	if raw == "" {
		handler.FailValidation(c, "required parameter 'verified' is missing")
		return
	}
	verified, err := strconv.ParseBool(raw)
	if err != nil {
		handler.FailValidation(c, "verified must be a boolean")
		return
	}

	addr, err := h.service.SetVerified(c.Request.Context(), id, customerID, verified)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), id, customerID); err != nil {
		handler.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
