package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/docuchat/pdf-gpt-be/service"
	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/docuchat/pdf-gpt-be/utils"
	"github.com/gin-gonic/gin"
)

const maxUploadSize = 20 << 20 // 20MB

type ChatHandler struct {
	chatService *service.ChatService
	uploadDir   string
}

func NewChatHandler(chatService *service.ChatService, uploadDir string) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		uploadDir:   uploadDir,
	}
}

// HandleChat accepts a multipart form with an optional PDF ("file") plus
// "session_id" and "question" fields, and returns the assistant's answer.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request",
		})
		return
	}

	pdfPath := ""
	file, err := c.FormFile("file")
	if err == nil && file != nil {
		if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: "Only PDF files are supported",
			})
			return
		}
		if file.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: "File too large",
			})
			return
		}
		pdfPath, err = utils.SaveUploadedFile(file, h.uploadDir)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.DataResponse{
				Status:  "error",
				Message: "Failed to store upload",
			})
			return
		}
		defer os.Remove(pdfPath)
	}

	answer, state, err := h.chatService.SubmitQuestion(c.Request.Context(), req.SessionID, pdfPath, req.Question)
	if err != nil {
		c.JSON(statusForError(err), types.DataResponse{
			Status:  "error",
			Message: userMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.ChatResponse{
			SessionID: state.ID,
			Answer:    answer,
		},
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrNoDocument),
		errors.Is(err, types.ErrEmptyQuestion),
		errors.Is(err, types.ErrUnreadableDocument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrNoDocument):
		return "Please upload a PDF first."
	case errors.Is(err, types.ErrEmptyQuestion):
		return "Please enter a question."
	case errors.Is(err, types.ErrUnreadableDocument):
		return "The uploaded file could not be read as a PDF."
	default:
		return err.Error()
	}
}
