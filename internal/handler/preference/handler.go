package preference

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beqaperanidze/prj-customer-notification/internal/handler"
	"github.com/beqaperanidze/prj-customer-notification/internal/model"
	"github.com/beqaperanidze/prj-customer-notification/internal/service/preference"
)

type Handler struct {
	service preference.PreferenceService
}

func NewHandler(service preference.PreferenceService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prefs := r.Group("/customers/:customerId/preferences")
	{
		prefs.GET("", h.ListPreferences)
		prefs.GET("/:id", h.GetPreference)
		prefs.POST("", h.CreatePreference)
		prefs.PUT("/:id", h.UpdatePreference)
		prefs.DELETE("/:id", h.DeletePreference)
	}
}

func (h *Handler) ListPreferences(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}

	prefs, err := h.service.ListPreferences(c.Request.Context(), customerID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) GetPreference(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	pref, err := h.service.GetPreference(c.Request.Context(), id, customerID)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *Handler) CreatePreference(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}

	var req model.CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err.Error())
		return
	}

	pref, err := h.service.CreatePreference(c.Request.Context(), customerID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, pref)
}

func (h *Handler) UpdatePreference(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	var req model.CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.FailValidation(c, err.Error())
		return
	}

	pref, err := h.service.UpdatePreference(c.Request.Context(), id, customerID, &req)
	if err != nil {
		handler.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pref)
}

func (h *Handler) DeletePreference(c *gin.Context) {
	customerID, ok := handler.PathID(c, "customerId")
	if !ok {
		return
	}
	id, ok := handler.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePreference(c.Request.Context(), id, customerID); err != nil {
		handler.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
