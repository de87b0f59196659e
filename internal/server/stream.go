package server

import (
	"time"

	"crypto-trading-sim/internal/trader"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = time.Second

// handlePortfolioStream pushes the portfolio valuation over a websocket: once on
// connect, then after every executed trade.
func (s *Server) handlePortfolioStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// the upgrader already replied to the client
			s.logger.Warn("Websocket handshake failed", zap.Error(err))
			return
		}
		defer ws.Close()

		l := s.logger.With(zap.String("remote_addr", ws.RemoteAddr().String()))
		updates := s.session.Subscribe()
		defer s.session.Unsubscribe(updates)

		// The client never sends anything; reading detects when it goes away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := ws.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := sendValuation(ws, s.session.Valuation()); err != nil {
			l.Warn("Failed to send valuation", zap.Error(err))
			return
		}

		for {
			select {
			case v, ok := <-updates:
				if !ok {
					return
				}
				if err := sendValuation(ws, v); err != nil {
					l.Warn("Failed to send valuation", zap.Error(err))
					return
				}
			case <-closed:
				l.Debug("Stream client disconnected")
				return
			case <-c.Request.Context().Done():
				return
			}
		}
	}
}

func sendValuation(ws *websocket.Conn, v trader.Valuation) error {
	// enforce fast client readout
	if err := ws.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return ws.WriteJSON(v)
}
