package handlers

import (
	"context"
	"net/http"

	"prepared/internal/models"
	"prepared/internal/reconcile"
	"prepared/pkg/response"

	"github.com/gin-gonic/gin"
)

type declareEmergencyRequest struct {
	Title              string   `json:"title" binding:"required"`
	Category           string   `json:"category" binding:"required"`
	Description        string   `json:"description"`
	DeclaredBy         string   `json:"declaredBy" binding:"required"`
	PostalCode         string   `json:"postalCode" binding:"required"`
	RegionCode         string   `json:"regionCode" binding:"required"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	RadiusMiles        float64  `json:"radiusMiles" binding:"required"`
	IsActive           *bool    `json:"isActive"`
	ResponseDirectives string   `json:"responseDirectives"`
}

func (h *Handlers) handleDeclareEmergency(c *gin.Context) {
	var req declareEmergencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	em := &models.Emergency{
		Title:              req.Title,
		Category:           req.Category,
		Description:        req.Description,
		DeclaredBy:         req.DeclaredBy,
		PostalCode:         req.PostalCode,
		RegionCode:         req.RegionCode,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		RadiusMiles:        req.RadiusMiles,
		IsActive:           active,
		ResponseDirectives: req.ResponseDirectives,
	}
	em, err := models.CreateEmergency(h.db, em)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"emergency": em})
}

func (h *Handlers) handleGetEmergency(c *gin.Context) {
	em, err := models.GetEmergency(h.db, c.Param("id"))
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"emergency": em})
}

func (h *Handlers) handleListEmergencies(c *gin.Context) {
	var (
		list []models.Emergency
		err  error
	)
	if c.DefaultQuery("active", "true") == "true" {
		list, err = models.ListActiveEmergencies(h.db)
	} else {
		list, err = models.ListEmergencies(h.db)
	}
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"emergencies": list})
}

func (h *Handlers) handleUpdateEmergency(c *gin.Context) {
	var upd models.EmergencyUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	em, err := models.UpdateEmergency(h.db, c.Param("id"), upd)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"emergency": em})
}

func (h *Handlers) handleActivateEmergency(c *gin.Context) {
	h.setEmergencyActive(c, true)
}

func (h *Handlers) handleDeactivateEmergency(c *gin.Context) {
	h.setEmergencyActive(c, false)
}

func (h *Handlers) setEmergencyActive(c *gin.Context, active bool) {
	em, err := models.SetEmergencyActive(h.db, c.Param("id"), active)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"emergency": em})
}

// handleReconcileEmergency runs a synchronous pass and reports the affected
// count plus any per-user failures; a partial result is retryable.
func (h *Handlers) handleReconcileEmergency(c *gin.Context) {
	affected, errs := h.reconciler.OnEmergencyChanged(context.Background(), c.Param("id"))
	if partial := reconcile.Partial(errs); partial != nil {
		if len(errs) == 1 && affected == 0 {
			// the lookup itself failed, not individual writes
			failWithError(c, errs[0])
			return
		}
		response.FailWithStatus(c, http.StatusInternalServerError, "partial", gin.H{
			"affected": affected,
			"failures": len(errs),
			"error":    partial.Error(),
		})
		return
	}
	response.Success(c, "success", gin.H{"affected": affected})
}
