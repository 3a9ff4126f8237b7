package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/speakband/speakband/internal/credits"
	"github.com/speakband/speakband/internal/pipeline"
)

type processFeedbackRequest struct {
	TaskID   string `json:"task_id"`
	AudioURL string `json:"audio_url"`
}

func (s *Server) handleProcessFeedback(c *gin.Context) {
	var req processFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == "" || req.AudioURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: task_id, audio_url"})
		return
	}

	err := s.processor.Process(c.Request.Context(), req.TaskID, req.AudioURL)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Feedback processed successfully"})
	case errors.Is(err, pipeline.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, pipeline.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": "Task already processed", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process feedback", "details": err.Error()})
	}
}

func (s *Server) handleGrantFreeCredit(c *gin.Context) {
	// Identity is resolved upstream by the auth gateway, which forwards the
	// verified subject in X-User-ID.
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := s.credits.GrantFreeCredit(c.Request.Context(), userID, c.GetHeader("X-User-Name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant free credit", "details": err.Error()})
		return
	}
	if result.AlreadyGranted {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Free credit already granted", "already_granted": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Free credit granted successfully"})
}

func (s *Server) handlePurchaseWebhook(c *gin.Context) {
	if secret := s.cfg.PurchaseWebhookSecret; secret != "" {
		if c.GetHeader("Authorization") != "Bearer "+secret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
	}

	var event credits.PurchaseEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	amount, err := s.credits.HandlePurchase(c.Request.Context(), event)
	switch {
	case err == nil && amount == 0:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event type not processed"})
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Credits added successfully", "amount": amount})
	case errors.Is(err, credits.ErrUnknownProduct):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product"})
	case errors.Is(err, credits.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add credits", "details": err.Error()})
	}
}
