package handler

import (
	"net/http"
	"strconv"

	"core/internal/model"
	"core/internal/service"

	"github.com/gin-gonic/gin"
)

// AssistantHandler handles conversational-search HTTP requests
type AssistantHandler struct {
	assistant *service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Chat handles POST /api/v1/assistant/chat
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.assistant.Chat(c.Request.Context(), &req)
	if err != nil {
		// A store failure must surface as an error, never as an empty
		// result set.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetApartment handles GET /api/v1/apartments/:id
func (h *AssistantHandler) GetApartment(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid apartment ID"})
		return
	}

	apt, err := h.assistant.GetApartment(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get apartment"})
		return
	}
	if apt == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Apartment not found"})
		return
	}

	c.JSON(http.StatusOK, apt)
}
