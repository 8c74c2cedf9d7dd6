package handlers

import (
	"context"
	"net/http"

	"prepared/internal/models"
	"prepared/pkg/response"

	"github.com/gin-gonic/gin"
)

type reportStatusRequest struct {
	UserID      string `json:"userId" binding:"required"`
	EmergencyID string `json:"emergencyId" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Notes       string `json:"notes"`
	Location    string `json:"location"`
}

func (h *Handlers) handleReportStatus(c *gin.Context) {
	var req reportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row, err := h.reconciler.OnUserReportsStatus(context.Background(),
		req.UserID, req.EmergencyID, req.Status, req.Notes, req.Location)
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"status": row})
}

func (h *Handlers) handleListStatusesByEmergency(c *gin.Context) {
	// 404 for unknown emergencies rather than an empty list
	if _, err := models.GetEmergency(h.db, c.Param("id")); err != nil {
		failWithError(c, err)
		return
	}
	rows, err := models.ListStatusesByEmergency(h.db, c.Param("id"))
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"statuses": rows})
}

func (h *Handlers) handleListStatusesByUser(c *gin.Context) {
	rows, err := models.ListStatusesByUser(h.db, c.Param("userId"))
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{"statuses": rows})
}
