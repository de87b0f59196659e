package server

import (
	"errors"
	"net/http"
	"time"

	"crypto-trading-sim/internal/models"
	"crypto-trading-sim/internal/resources"
	"crypto-trading-sim/internal/trader"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// tradeBody mirrors models.TradeRequest with the coin left as text, so a
// missing coin is told apart from Bitcoin.
type tradeBody struct {
	Coin   string `json:"coin" binding:"required"`
	Amount string `json:"amount"`
}

// PriceResponse is one entry of the /api/prices listing.
type PriceResponse struct {
	Coin  models.CoinSymbol `json:"coin"`
	Price decimal.Decimal   `json:"price"`
}

// StatusResponse is the body of /api/status.
type StatusResponse struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	Uptime    string `json:"uptime"`
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func (s *Server) handleStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{
			Name:      "crypto-trading-sim",
			StartTime: s.session.StartTime.Format(time.RFC3339),
			Uptime:    time.Since(s.session.StartTime).String(),
		})
	}
}

func (s *Server) handlePrices() gin.HandlerFunc {
	return func(c *gin.Context) {
		prices := s.session.Prices()
		out := make([]PriceResponse, 0, len(models.AllCoins()))
		for _, coin := range models.AllCoins() {
			out = append(out, PriceResponse{Coin: coin, Price: prices.Price(coin)})
		}
		c.JSON(http.StatusOK, out)
	}
}

func (s *Server) handlePortfolio() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.session.Valuation())
	}
}

func (s *Server) handleResources() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, resources.Topics())
	}
}

func (s *Server) handleTrade(buy bool) gin.HandlerFunc {
	side := models.SideSell
	if buy {
		side = models.SideBuy
	}

	return func(c *gin.Context) {
		var req tradeBody
		if err := c.ShouldBindJSON(&req); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "bad_request"})
			return
		}
		coin, err := models.ParseCoinSymbol(req.Coin)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "unknown_coin"})
			return
		}

		v, err := s.session.Trade(c.Request.Context(), side, coin, req.Amount)
		if err != nil {
			s.writeTradeError(c, err)
			return
		}

		c.JSON(http.StatusOK, v)
	}
}

func (s *Server) writeTradeError(c *gin.Context, err error) {
	var tradeErr *trader.TradeError
	if errors.As(err, &tradeErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error: trader.Message(err),
			Kind:  trader.Kind(err),
		})
		return
	}

	s.logger.Error("Trade failed", zap.Error(err))
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Kind: "internal"})
}
