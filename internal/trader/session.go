package trader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crypto-trading-sim/internal/models"
	"go.uber.org/zap"
)

// Store keeps the committed portfolio of the session.
type Store interface {
	Load(ctx context.Context) (models.Portfolio, error)
	Save(ctx context.Context, portfolio models.Portfolio) error
}

// Session owns the market price table and the current portfolio of the one
// active user. Trades are serialized: each one runs to completion before
// the next is looked at.
type Session struct {
	StartTime time.Time

	logger *zap.Logger
	prices models.MarketPriceTable
	store  Store

	mu        sync.Mutex
	portfolio models.Portfolio

	subsMu sync.Mutex
	subs   map[chan Valuation]struct{}
}

// NewSession creates a session whose portfolio is read from store.
func NewSession(ctx context.Context, logger *zap.Logger, prices models.MarketPriceTable, store Store) (*Session, error) {
	portfolio, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load portfolio: %w", err)
	}

	return &Session{
		StartTime: time.Now(),
		logger:    logger.Named("session"),
		prices:    prices,
		store:     store,
		portfolio: portfolio,
		subs:      make(map[chan Valuation]struct{}),
	}, nil
}

// Prices returns the session's market price table.
func (s *Session) Prices() models.MarketPriceTable {
	return s.prices
}

// Portfolio returns the current portfolio value.
func (s *Session) Portfolio() models.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.portfolio
}

// Valuation computes the overview of the current portfolio.
func (s *Session) Valuation() Valuation {
	return Valuate(s.Portfolio(), s.prices)
}

// Trade validates and applies a trade. On success the new portfolio is
// saved to the store and becomes the current one. On failure nothing changes
// and the returned error is a *TradeError for rejected trades.
func (s *Session) Trade(ctx context.Context, side models.Side, coin models.CoinSymbol, amountText string) (Valuation, error) {
	if !coin.Valid() {
		return Valuation{}, fmt.Errorf("invalid coin symbol %d", int(coin))
	}

	l := s.logger.With(
		zap.String("side", string(side)),
		zap.Stringer("coin", coin),
		zap.String("amount", amountText),
	)

	s.mu.Lock()
	next, err := Execute(side, s.portfolio, s.prices, coin, amountText)
	if err != nil {
		s.mu.Unlock()
		l.Info("Trade rejected", zap.Error(err))
		return Valuation{}, err
	}

	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		l.Error("Failed to save portfolio", zap.Error(err))
		return Valuation{}, fmt.Errorf("could not save portfolio: %w", err)
	}
	s.portfolio = next
	s.mu.Unlock()

	v := Valuate(next, s.prices)
	l.Info("Trade executed",
		zap.String("quantity", next.Holding(coin).Quantity.String()),
		zap.String("total_value", v.Total.String()))

	s.publish(v)
	return v, nil
}

// Subscribe returns a channel receiving the valuation after every executed trade.
// Snapshots are dropped for subscribers that do not keep up.
func (s *Session) Subscribe() chan Valuation {
	ch := make(chan Valuation, 1)
	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (s *Session) Unsubscribe(ch chan Valuation) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *Session) publish(v Valuation) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- v:
		default:
			s.logger.Debug("Dropping valuation for slow subscriber")
		}
	}
}
