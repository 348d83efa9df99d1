package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrasher-corp/gctsweep/kline"
	"github.com/thrasher-corp/gctsweep/strategy"
)

// flatBars builds candles where open/high/low/close all equal the supplied
// price so decision and execution prices are exact
func flatBars(t *testing.T, closes ...float64) (kline.Series, *kline.PriceSeries) {
	t.Helper()
	s := make(kline.Series, len(closes))
	for i := range closes {
		s[i] = kline.Bar{
			Open:   closes[i],
			High:   closes[i],
			Low:    closes[i],
			Close:  closes[i],
			Volume: 1,
		}
	}
	p, err := kline.NewPriceSeries(s)
	require.NoError(t, err)
	return s, p
}

func quoteSettings(t *testing.T) Settings {
	t.Helper()
	return Settings{
		StartingDenomination: DenomQuote,
		StartingAmount:       decimal.NewFromInt(1000),
		FeeRate:              decimal.Zero,
		PositionSize:         decimal.NewFromInt(1),
	}
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()
	cfg := quoteSettings(t)
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.StartingDenomination = "margin"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.StartingAmount = decimal.Zero
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.FeeRate = decimal.NewFromInt(1)
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.PositionSize = decimal.NewFromFloat(1.5)
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.PositionSize = decimal.Zero
	assert.Error(t, bad.Validate())
}

func TestReset(t *testing.T) {
	t.Parallel()
	s, err := New(quoteSettings(t))
	require.NoError(t, err)
	s.Reset()
	coin, quote := s.Balances()
	assert.True(t, coin.IsZero())
	assert.True(t, quote.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, Idle, s.Status())

	cfg := quoteSettings(t)
	cfg.StartingDenomination = DenomCoin
	cfg.StartingAmount = decimal.NewFromInt(2)
	s, err = New(cfg)
	require.NoError(t, err)
	s.Reset()
	coin, quote = s.Balances()
	assert.True(t, coin.Equal(decimal.NewFromInt(2)))
	assert.True(t, quote.IsZero())
}

func TestRunInputLengthMismatch(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 101, 102)
	s, err := New(quoteSettings(t))
	require.NoError(t, err)

	_, err = s.Run(bars, prices, make([]strategy.Signal, 2))
	assert.ErrorIs(t, err, ErrInputLength)
	assert.Equal(t, Failed, s.Status())
}

func TestRunPriceSeriesMismatch(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 101, 102)
	s, err := New(quoteSettings(t))
	require.NoError(t, err)

	_, err = s.Run(bars[:2], prices, make([]strategy.Signal, 2))
	assert.ErrorIs(t, err, kline.ErrSeriesLengthMismatch)
	assert.Equal(t, Failed, s.Status())
}

func TestRunAllHold(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 90, 120, 80)
	s, err := New(quoteSettings(t))
	require.NoError(t, err)

	summary, err := s.Run(bars, prices, make([]strategy.Signal, len(bars)))
	require.NoError(t, err)
	assert.Equal(t, Completed, s.Status())
	assert.True(t, summary.FinalValue.Equal(summary.InitialValue),
		"no trades means no fees and no drift")
	assert.Zero(t, summary.TotalTrades)
	assert.True(t, summary.TotalFees.IsZero())
	assert.True(t, summary.MaxDrawdown.IsZero())
	assert.True(t, summary.TotalReturnPct.IsZero())
}

func TestRunRoundTrip(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 110)
	s, err := New(quoteSettings(t))
	require.NoError(t, err)

	summary, err := s.Run(bars, prices, []strategy.Signal{strategy.Buy, strategy.Sell})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalTrades)
	assert.True(t, summary.FinalValue.Equal(decimal.NewFromInt(1100)), "got %s", summary.FinalValue)
	assert.True(t, summary.TotalReturnPct.Equal(decimal.NewFromInt(10)))
	assert.True(t, summary.WinRate.Equal(decimal.NewFromInt(1)))
	assert.Nil(t, summary.Trades, "detail disabled must not retain a trade log")
}

func TestRunRoundTripWithFees(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 110)
	cfg := quoteSettings(t)
	cfg.FeeRate = decimal.NewFromFloat(0.01)
	s, err := New(cfg)
	require.NoError(t, err)

	summary, err := s.Run(bars, prices, []strategy.Signal{strategy.Buy, strategy.Sell})
	require.NoError(t, err)
	// buy: fee 10, acquire 9.9 coin; sell at 110: gross 1089, fee 10.89
	assert.True(t, summary.FinalValue.Equal(decimal.NewFromFloat(1078.11)), "got %s", summary.FinalValue)
	assert.True(t, summary.TotalFees.Equal(decimal.NewFromFloat(20.89)), "got %s", summary.TotalFees)
}

func TestRunNoDebtNoShorts(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 110, 120)
	s, err := New(quoteSettings(t))
	require.NoError(t, err)

	// selling with no coin and re-buying with no quote are both no-ops
	summary, err := s.Run(bars, prices, []strategy.Signal{strategy.Sell, strategy.Buy, strategy.Buy})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalTrades)
	coin, quote := s.Balances()
	assert.True(t, quote.IsZero())
	assert.True(t, coin.IsPositive())
}

func TestRunDrawdown(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 50, 75)
	cfg := quoteSettings(t)
	cfg.StartingDenomination = DenomCoin
	cfg.StartingAmount = decimal.NewFromInt(1)
	s, err := New(cfg)
	require.NoError(t, err)

	summary, err := s.Run(bars, prices, make([]strategy.Signal, len(bars)))
	require.NoError(t, err)
	assert.True(t, summary.InitialValue.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.MaxDrawdown.Equal(decimal.NewFromInt(50)), "got %s", summary.MaxDrawdown)
	assert.True(t, summary.MaxDrawdownPct.Equal(decimal.NewFromInt(50)))
	assert.True(t, summary.FinalValue.Equal(decimal.NewFromInt(75)))
}

func TestRunWinRatePairing(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 110, 120, 90, 80)
	cfg := quoteSettings(t)
	cfg.PositionSize = decimal.NewFromFloat(0.5)
	s, err := New(cfg)
	require.NoError(t, err)

	// buy@100, sell@110 (win), buy@120, sell@80 (loss)
	signals := []strategy.Signal{strategy.Buy, strategy.Sell, strategy.Buy, strategy.Hold, strategy.Sell}
	summary, err := s.Run(bars, prices, signals)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalTrades)
	assert.True(t, summary.WinRate.Equal(decimal.NewFromFloat(0.5)), "got %s", summary.WinRate)
}

func TestRunRecordDetail(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 110)
	cfg := quoteSettings(t)
	cfg.RecordDetail = true
	s, err := New(cfg)
	require.NoError(t, err)

	summary, err := s.Run(bars, prices, []strategy.Signal{strategy.Buy, strategy.Sell})
	require.NoError(t, err)
	require.Len(t, summary.Trades, 2)
	assert.Equal(t, SideBuy, summary.Trades[0].Side)
	assert.Equal(t, 0, summary.Trades[0].BarIndex)
	assert.Equal(t, SideSell, summary.Trades[1].Side)
	assert.Equal(t, 1, summary.Trades[1].BarIndex)
	assert.True(t, summary.Trades[0].Price.Equal(decimal.NewFromInt(100)))
}

func TestRunDeterminism(t *testing.T) {
	t.Parallel()
	bars, prices := flatBars(t, 100, 104, 98, 110, 95, 120)
	signals := []strategy.Signal{
		strategy.Buy, strategy.Hold, strategy.Sell,
		strategy.Buy, strategy.Sell, strategy.Hold,
	}
	cfg := quoteSettings(t)
	cfg.FeeRate = decimal.NewFromFloat(0.0025)
	cfg.PositionSize = decimal.NewFromFloat(0.75)

	s1, err := New(cfg)
	require.NoError(t, err)
	first, err := s1.Run(bars, prices, signals)
	require.NoError(t, err)

	s2, err := New(cfg)
	require.NoError(t, err)
	second, err := s2.Run(bars, prices, signals)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must produce identical summaries")
}
