package handlers

import (
	"context"

	"prepared/pkg/response"

	"github.com/gin-gonic/gin"
)

// handleAffectedEmergencies answers whether any active emergency currently
// affects the user, and which. Response directives ride along unmodified
// for the agent layer.
func (h *Handlers) handleAffectedEmergencies(c *gin.Context) {
	list, err := h.affected.ListAffectingEmergencies(context.Background(), c.Param("userId"))
	if err != nil {
		failWithError(c, err)
		return
	}
	response.Success(c, "success", gin.H{
		"affected":    len(list) > 0,
		"emergencies": list,
	})
}
