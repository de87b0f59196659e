package server

import (
	"errors"
	"html/template"
	"net/http"

	"crypto-trading-sim/internal/models"
	"crypto-trading-sim/internal/trader"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type pageRow struct {
	Coin     string
	Quantity string
	Value    string
}

type priceRow struct {
	Coin  string
	Price string
}

type coinOption struct {
	Name     string
	Selected bool
}

type pageData struct {
	Rows      []pageRow
	Total     string
	Coins     []coinOption
	Prices    []priceRow
	Resources template.HTML
	Amount    string
	Error     string
}

// pageState is what the trade form keeps between renders.
type pageState struct {
	coin   models.CoinSymbol
	amount string
	err    string
}

func (s *Server) buildPage(st pageState) pageData {
	v := s.session.Valuation()
	prices := s.session.Prices()

	d := pageData{
		Total:     models.FormatUSD(v.Total),
		Resources: s.resources,
		Amount:    st.amount,
		Error:     st.err,
	}
	for _, r := range v.Rows {
		d.Rows = append(d.Rows, pageRow{
			Coin:     r.Coin.String(),
			Quantity: models.FormatQuantity(r.Quantity),
			Value:    models.FormatUSD(r.Value),
		})
	}
	for _, coin := range models.AllCoins() {
		d.Coins = append(d.Coins, coinOption{Name: coin.String(), Selected: coin == st.coin})
		d.Prices = append(d.Prices, priceRow{Coin: coin.String(), Price: models.FormatUSD(prices.Price(coin))})
	}
	return d
}

func (s *Server) renderPage(c *gin.Context, status int, st pageState) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(c.Writer, s.buildPage(st)); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
	}
}

func (s *Server) handleIndex() gin.HandlerFunc {
	return func(c *gin.Context) {
		coin, err := models.ParseCoinSymbol(c.DefaultQuery("coin", models.Bitcoin.String()))
		if err != nil {
			coin = models.Bitcoin
		}
		s.renderPage(c, http.StatusOK, pageState{coin: coin})
	}
}

// handleTradeForm applies a trade posted by the page. On success the browser
// is redirected to a clean page; on failure the page is shown again with the
// error banner and the amount that was entered.
func (s *Server) handleTradeForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		amount := c.PostForm("amount")

		coin, err := models.ParseCoinSymbol(c.PostForm("coin"))
		if err != nil {
			s.renderPage(c, http.StatusBadRequest, pageState{coin: models.Bitcoin, amount: amount, err: "Please select a coin"})
			return
		}

		side, err := models.ParseSide(c.PostForm("action"))
		if err != nil {
			s.renderPage(c, http.StatusBadRequest, pageState{coin: coin, amount: amount, err: "Please choose Buy or Sell"})
			return
		}

		if _, err := s.session.Trade(c.Request.Context(), side, coin, amount); err != nil {
			var tradeErr *trader.TradeError
			status := http.StatusUnprocessableEntity
			if !errors.As(err, &tradeErr) {
				status = http.StatusInternalServerError
			}
			s.renderPage(c, status, pageState{coin: coin, amount: amount, err: trader.Message(err)})
			return
		}

		c.Redirect(http.StatusSeeOther, "/?coin="+coin.String())
	}
}
