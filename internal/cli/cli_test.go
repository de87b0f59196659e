package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"strings"
	"testing"

	"crypto-trading-sim/internal/client"
	"crypto-trading-sim/internal/config"
	"crypto-trading-sim/internal/database"
	"crypto-trading-sim/internal/models"
	"crypto-trading-sim/internal/trader"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockClient is a mock implementation of the APIClientInterface.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetPrices(ctx context.Context) ([]client.Price, error) {
	args := m.Called(ctx)
	return args.Get(0).([]client.Price), args.Error(1)
}

func (m *MockClient) GetPortfolio(ctx context.Context) (*trader.Valuation, error) {
	args := m.Called(ctx)
	return args.Get(0).(*trader.Valuation), args.Error(1)
}

func (m *MockClient) Trade(ctx context.Context, side models.Side, coin models.CoinSymbol, amount string) (*trader.Valuation, error) {
	args := m.Called(ctx, side, coin, amount)
	return args.Get(0).(*trader.Valuation), args.Error(1)
}

func newTestApp(t *testing.T, c client.APIClientInterface, stdin string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	return &App{
		Cfg:    &cfg,
		Logger: zap.NewNop(),
		Client: c,
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// run parses args with the command's flags and executes it.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return cmd.Execute(context.Background(), f)
}

func defaultValuation() *trader.Valuation {
	v := trader.Valuate(models.DefaultPortfolio(), models.DefaultMarketPrices())
	return &v
}

func TestPricesCmd(t *testing.T) {
	mockClient := new(MockClient)
	mockClient.On("GetPrices", mock.Anything).Return([]client.Price{
		{Coin: models.Bitcoin, Price: decimal.NewFromInt(27500)},
		{Coin: models.Cardano, Price: decimal.RequireFromString("0.35")},
	}, nil)
	app, stdout, _ := newTestApp(t, mockClient, "")

	status := run(t, &pricesCmd{app: app})

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, stdout.String(), "$27,500.00")
	assert.Contains(t, stdout.String(), "$0.35")
	mockClient.AssertExpectations(t)
}

func TestPortfolioCmd(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(MockClient)
		mockClient.On("GetPortfolio", mock.Anything).Return(defaultValuation(), nil)
		app, stdout, _ := newTestApp(t, mockClient, "")

		status := run(t, &portfolioCmd{app: app})

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Contains(t, stdout.String(), "0.5000 coins")
		assert.Contains(t, stdout.String(), "$32,600.00")
	})

	t.Run("ServerDown", func(t *testing.T) {
		mockClient := new(MockClient)
		mockClient.On("GetPortfolio", mock.Anything).Return((*trader.Valuation)(nil), errors.New("connection refused"))
		app, _, stderr := newTestApp(t, mockClient, "")

		status := run(t, &portfolioCmd{app: app})

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Contains(t, stderr.String(), "connection refused")
	})
}

func TestTradeCmd(t *testing.T) {
	t.Run("Buy", func(t *testing.T) {
		mockClient := new(MockClient)
		mockClient.On("Trade", mock.Anything, models.SideBuy, models.Ethereum, "1.5").Return(defaultValuation(), nil)
		app, stdout, _ := newTestApp(t, mockClient, "")

		status := run(t, &tradeCmd{app: app, side: models.SideBuy}, "-coin", "eth", "-amount", "1.5")

		assert.Equal(t, subcommands.ExitSuccess, status)
		assert.Contains(t, stdout.String(), "Total Portfolio Value")
		mockClient.AssertExpectations(t)
	})

	t.Run("Rejected", func(t *testing.T) {
		mockClient := new(MockClient)
		rejected := &client.APIError{StatusCode: 422, Message: "Insufficient balance", Kind: "insufficient_balance"}
		mockClient.On("Trade", mock.Anything, models.SideSell, models.Bitcoin, "9").Return((*trader.Valuation)(nil), rejected)
		app, _, stderr := newTestApp(t, mockClient, "")

		status := run(t, &tradeCmd{app: app, side: models.SideSell}, "-amount", "9")

		assert.Equal(t, subcommands.ExitFailure, status)
		assert.Equal(t, "Error: Insufficient balance\n", stderr.String())
	})

	t.Run("UnknownCoin", func(t *testing.T) {
		mockClient := new(MockClient)
		app, _, stderr := newTestApp(t, mockClient, "")

		status := run(t, &tradeCmd{app: app, side: models.SideBuy}, "-coin", "doge", "-amount", "1")

		assert.Equal(t, subcommands.ExitUsageError, status)
		assert.Contains(t, stderr.String(), "unknown coin")
		mockClient.AssertNotCalled(t, "Trade", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Names", func(t *testing.T) {
		assert.Equal(t, "buy", (&tradeCmd{side: models.SideBuy}).Name())
		assert.Equal(t, "sell", (&tradeCmd{side: models.SideSell}).Name())
	})
}

func TestLearnCmd(t *testing.T) {
	app, stdout, _ := newTestApp(t, new(MockClient), "")

	status := run(t, &learnCmd{app: app}, "-style", "notty")

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, stdout.String(), "Understanding Market Trends")
}

func TestPlay(t *testing.T) {
	// Arrange
	db, err := database.Open("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, models.DefaultPortfolio()))
	session, err := trader.NewSession(context.Background(), zap.NewNop(), models.DefaultMarketPrices(), database.NewSessionStore(db))
	require.NoError(t, err)

	input := strings.Join([]string{
		"buy Bitcoin 0.5",
		"sell eth 100",
		"buy ada abc",
		"sell",
		"buy dogecoin 1",
		"dance",
		"",
		"prices",
		"portfolio",
		"quit",
		"buy Bitcoin 100",
	}, "\n")
	var out bytes.Buffer

	// Act
	err = play(context.Background(), session, strings.NewReader(input), &out)

	// Assert
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "Total Portfolio Value $46,350.00")
	assert.Contains(t, text, "Insufficient balance")
	assert.Contains(t, text, "Please enter a valid amount")
	assert.Contains(t, text, "usage: sell <coin> <amount>")
	assert.Contains(t, text, `unknown coin "dogecoin"`)
	assert.Contains(t, text, `unknown command "dance"`)
	assert.Contains(t, text, "$1,850.00")
	assert.Contains(t, text, "1.0000 coins")
	assert.True(t, decimal.NewFromInt(1).Equal(session.Portfolio().Holding(models.Bitcoin).Quantity), "nothing runs after quit")
}

func TestPlayCmd(t *testing.T) {
	app, stdout, stderr := newTestApp(t, new(MockClient), "sell Cardano 1000\nportfolio\n")

	status := run(t, &playCmd{app: app})

	assert.Equal(t, subcommands.ExitSuccess, status, stderr.String())
	assert.Contains(t, stdout.String(), "Total Portfolio Value $32,250.00")
	assert.Contains(t, stdout.String(), "0.0000 coins")
}

func TestRegister(t *testing.T) {
	app, _, _ := newTestApp(t, new(MockClient), "")
	commander := subcommands.NewCommander(flag.NewFlagSet("trader", flag.ContinueOnError), "trader")

	Register(commander, app)

	var names []string
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		names = append(names, c.Name())
	})
	assert.Subset(t, names, []string{"prices", "portfolio", "buy", "sell", "play", "learn"})
}
