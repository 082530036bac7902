package handlers

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"recycling-rewards-backend/internal/middleware"
	"recycling-rewards-backend/internal/models"
	"recycling-rewards-backend/internal/scanner"
	"recycling-rewards-backend/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for MVP
	},
}

// frameHeaderLen is the binary frame prefix: uint32 width, uint32 height,
// big-endian, followed by the luminance plane
const frameHeaderLen = 8

// ScanMessage is the server-to-client message on the scan socket
type ScanMessage struct {
	Type      string                 `json:"type"`
	Point     *models.RecyclingPoint `json:"point,omitempty"`
	Code      string                 `json:"code,omitempty"`
	Retryable bool                   `json:"retryable,omitempty"`
	Message   string                 `json:"message,omitempty"`
}

// scanClientMessage is the client-to-server control message
type scanClientMessage struct {
	Type string `json:"type"`
}

// ScanHandler runs the scan pipeline over a websocket: the client streams
// camera frames, the server answers with at most one resolution per decode
type ScanHandler struct {
	userService  *services.UserService
	pointService *services.PointService
	decoder      *scanner.Decoder
	cooldown     time.Duration
}

// NewScanHandler creates a new scan handler
func NewScanHandler(userService *services.UserService, pointService *services.PointService, decoder *scanner.Decoder, cooldown time.Duration) *ScanHandler {
	return &ScanHandler{
		userService:  userService,
		pointService: pointService,
		decoder:      decoder,
		cooldown:     cooldown,
	}
}

// HandleScan handles GET /ws/scan. Each connection gets its own coordinator;
// closing the socket stops frame intake and discards any in-flight result.
func (h *ScanHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := middleware.ValidateScanToken(token, h.userService)
	if err != nil {
		respondError(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade scan connection")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	session := &scanSession{conn: conn}
	coordinator := scanner.NewCoordinator(h.decoder.Decode, h.cooldown, func(code string, ok bool) {
		h.onDecode(ctx, session, userID, code, ok)
	})
	defer coordinator.Close()

	log.Info().Str("user_id", userID).Msg("Scan session started")

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("user_id", userID).Msg("Scan session error")
			}
			break
		}

		switch messageType {
		case websocket.BinaryMessage:
			frame, ok := parseFrame(data)
			if !ok {
				session.send(ScanMessage{Type: "error", Message: "malformed frame"})
				continue
			}
			// Dropped frames get no reply; the client keeps streaming.
			coordinator.Submit(frame)
		case websocket.TextMessage:
			var msg scanClientMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				session.send(ScanMessage{Type: "error", Message: "invalid message format"})
				continue
			}
			if msg.Type == "resume" {
				coordinator.Resume()
			}
		}
	}

	log.Info().Str("user_id", userID).Msg("Scan session closed")
}

// onDecode forwards a decode outcome to the client, resolving hits against
// the point directory
func (h *ScanHandler) onDecode(ctx context.Context, session *scanSession, userID, code string, ok bool) {
	if !ok {
		log.Debug().Str("user_id", userID).Msg("Frame had no code")
		return
	}

	point, err := h.pointService.Resolve(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			session.send(ScanMessage{Type: "not_found", Code: code})
		case errors.Is(err, models.ErrLookup):
			session.send(ScanMessage{Type: "error", Retryable: true, Message: "directory unavailable"})
		default:
			session.send(ScanMessage{Type: "error", Message: "resolution failed"})
		}
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("point_code", code).
		Msg("Recycling point scanned")

	session.send(ScanMessage{Type: "point", Code: code, Point: point})
}

// parseFrame decodes the binary frame envelope
func parseFrame(data []byte) (scanner.Frame, bool) {
	if len(data) < frameHeaderLen {
		return scanner.Frame{}, false
	}
	width := int(binary.BigEndian.Uint32(data[0:4]))
	height := int(binary.BigEndian.Uint32(data[4:8]))
	if width <= 0 || height <= 0 || len(data)-frameHeaderLen < width*height {
		return scanner.Frame{}, false
	}
	return scanner.Frame{
		Data:   data[frameHeaderLen:],
		Width:  width,
		Height: height,
	}, true
}

// scanSession serializes writes to one scan connection; decode callbacks
// and the read loop may both write
type scanSession struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *scanSession) send(msg ScanMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal scan message")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Debug().Err(err).Msg("Failed to write scan message")
	}
}
