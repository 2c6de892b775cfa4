package handler

import (
	"net/http"

	"github.com/docuchat/pdf-gpt-be/service"
	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	chatService *service.ChatService
}

func NewSessionHandler(chatService *service.ChatService) *SessionHandler {
	return &SessionHandler{
		chatService: chatService,
	}
}

// HandleReset drops the session's document index and history and returns a
// fresh session id.
func (h *SessionHandler) HandleReset(c *gin.Context) {
	var req types.ResetSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	newID, err := h.chatService.Reset(c.Request.Context(), req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.ResetSessionResponse{
			SessionID: newID,
		},
	})
}

// HandleSelectModel switches the session's active model.
func (h *SessionHandler) HandleSelectModel(c *gin.Context) {
	var req types.SelectModelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Model == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}

	state, err := h.chatService.SelectModel(c.Request.Context(), req.SessionID, req.Model)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.SessionHistoryResponse{
			SessionID:     state.ID,
			DocumentTitle: state.DocumentTitle,
			Model:         state.Model,
			History:       state.History,
		},
	})
}

// HandleHistory returns the conversation transcript for a session.
func (h *SessionHandler) HandleHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "session_id is required",
		})
		return
	}

	state := h.chatService.History(c.Request.Context(), sessionID)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.SessionHistoryResponse{
			SessionID:     state.ID,
			DocumentTitle: state.DocumentTitle,
			Model:         state.Model,
			History:       state.History,
		},
	})
}
