package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"saathi/internal/observe"
)

const (
	maxFrame    = 8 << 20
	streamIdle  = 60 * time.Second
	streamWrite = 10 * time.Second
)

// handleDetectStream upgrades to a websocket. Every binary message is an
// encoded frame and gets one /detect-face style JSON reply.
func (s *Server) handleDetectStream(w http.ResponseWriter, r *http.Request) {
	logger := observe.Logger(r.Context())

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxFrame)
	logger.Debug("frame stream opened", "remote", r.RemoteAddr)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(streamIdle))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("frame stream closed", "err", err)
			}
			return
		}
		if kind != websocket.BinaryMessage {
			continue
		}

		res := faceResponseFor(s.analyze(r, data, "stream"))

		_ = conn.SetWriteDeadline(time.Now().Add(streamWrite))
		if err := conn.WriteJSON(res); err != nil {
			logger.Debug("frame stream write failed", "err", err)
			return
		}
	}
}
