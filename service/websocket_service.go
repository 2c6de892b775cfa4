package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/docuchat/pdf-gpt-be/types"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketService serves chat over a websocket. The document must already
// be ingested for the session (via the HTTP chat endpoint); frames carry
// only the session id and the question.
type WebSocketService struct {
	chat     *ChatService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketService(chat *ChatService, logger *zap.Logger) *WebSocketService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketService{
		chat: chat,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		logger: logger,
	}
}

func (s *WebSocketService) HandleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var req types.WebsocketRequest
		if err := json.Unmarshal(p, &req); err != nil {
			s.writeError(conn, "invalid message")
			continue
		}

		switch req.Type {
		case types.TypeWebsocketChat:
			payloadBytes, err := json.Marshal(req.Payload)
			if err != nil {
				s.writeError(conn, "invalid payload")
				continue
			}
			var payload types.WebSocketChatPayload
			if err := json.Unmarshal(payloadBytes, &payload); err != nil {
				s.writeError(conn, "invalid payload")
				continue
			}

			answer, state, err := s.chat.SubmitQuestion(r.Context(), payload.SessionID, "", payload.Question)
			if err != nil {
				s.writeError(conn, err.Error())
				continue
			}
			res := types.WebSocketResponse{
				Type: types.TypeWebsocketChat,
				Payload: types.ChatResponse{
					SessionID: state.ID,
					Answer:    answer,
				},
			}
			if err := conn.WriteJSON(res); err != nil {
				s.logger.Warn("websocket write error", zap.Error(err))
			}
		case types.TypeWebsocketPing:
			pongRes := types.WebSocketResponse{
				Type: types.TypeWebsocketPong,
			}
			if err := conn.WriteJSON(pongRes); err != nil {
				s.logger.Warn("websocket write error", zap.Error(err))
			}
		default:
			s.writeError(conn, "invalid message type")
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	res := types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: types.WebSocketErrorPayload{Message: message},
	}
	if err := conn.WriteJSON(res); err != nil {
		s.logger.Warn("websocket write error", zap.Error(err))
	}
}

func (s *WebSocketService) Health() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
