package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/worktrack-dev/worktrack/internal/mailer"
)

type SendEmailRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	HTML    string `json:"html" binding:"required"`
}

type EmailHandler struct {
	sender mailer.Sender
}

func NewEmailHandler(sender mailer.Sender) *EmailHandler {
	return &EmailHandler{sender: sender}
}

func (h *EmailHandler) SendEmail(ctx *gin.Context) {
	var req SendEmailRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request"})
		return
	}

	messageID, err := h.sender.Send(ctx.Request.Context(), mailer.Message{
		To:      req.To,
		Subject: req.Subject,
		HTML:    req.HTML,
	})

	if err != nil {
		log.Printf("Failed to send email to %s: %v", req.To, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to send email",
			"details": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"messageId": messageID},
	})
}
