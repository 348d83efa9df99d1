// Package portfolio simulates a single-asset portfolio executing a per-bar
// signal sequence against candle data, with proportional fee/slippage
// modelling. One simulator serves exactly one parameter set per run; state
// is fully reset at the start of every run and never shared
package portfolio

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/gctsweep/kline"
	"github.com/thrasher-corp/gctsweep/strategy"
)

var oneHundred = decimal.NewFromInt(100)

// Simulator walks bars and signals, maintaining coin/quote balances, the
// fee accumulator and, for detail runs, the trade log
type Simulator struct {
	cfg    Settings
	status Status

	coin     decimal.Decimal
	quote    decimal.Decimal
	feesPaid decimal.Decimal
	trades   []Trade

	// open buy prices awaiting their matching sell, for win-rate pairing
	openBuys []decimal.Decimal
	wins     int
	pairs    int
	executed int
}

// New returns a simulator for the supplied settings
func New(cfg Settings) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{cfg: cfg}, nil
}

// Status returns the simulator lifecycle state
func (s *Simulator) Status() Status {
	return s.status
}

// Reset restores the configured starting balances and clears all per-run
// state
func (s *Simulator) Reset() {
	if s.cfg.StartingDenomination == DenomCoin {
		s.coin = s.cfg.StartingAmount
		s.quote = decimal.Zero
	} else {
		s.coin = decimal.Zero
		s.quote = s.cfg.StartingAmount
	}
	s.feesPaid = decimal.Zero
	s.trades = nil
	s.openBuys = nil
	s.wins = 0
	s.pairs = 0
	s.executed = 0
	s.status = Idle
}

// Balances returns the current coin and quote balances
func (s *Simulator) Balances() (coin, quote decimal.Decimal) {
	return s.coin, s.quote
}

// Run executes the signal sequence against the candle series. Input shape is
// checked before any balance mutation; identical inputs always produce an
// identical summary
func (s *Simulator) Run(bars kline.Series, prices *kline.PriceSeries, signals []strategy.Signal) (*Summary, error) {
	if len(signals) != len(bars) {
		s.status = Failed
		return nil, ErrInputLength
	}
	if err := prices.Validate(bars); err != nil {
		s.status = Failed
		return nil, err
	}

	s.Reset()
	s.status = Simulating

	// transient per-bar portfolio value, used only for drawdown and
	// discarded once the summary is computed
	values := make([]decimal.Decimal, len(bars))
	for i := range bars {
		switch signals[i] {
		case strategy.Buy:
			s.buy(i, prices.Execution[i])
		case strategy.Sell:
			s.sell(i, prices.Execution[i])
		}
		values[i] = s.valueAt(prices.Decision[i])
	}

	summary := s.finalize(prices, values)
	s.status = Completed
	return summary, nil
}

func (s *Simulator) buy(barIndex int, execPrice float64) {
	price, ok := tradePrice(execPrice)
	if !ok || !s.quote.IsPositive() {
		return
	}
	spend := s.quote.Mul(s.cfg.PositionSize)
	fee := spend.Mul(s.cfg.FeeRate)
	acquired := spend.Sub(fee).Div(price)

	s.quote = s.quote.Sub(spend)
	s.coin = s.coin.Add(acquired)
	s.feesPaid = s.feesPaid.Add(fee)
	s.executed++
	s.openBuys = append(s.openBuys, price)
	if s.cfg.RecordDetail {
		s.trades = append(s.trades, Trade{
			Side:     SideBuy,
			BarIndex: barIndex,
			Price:    price,
			Amount:   acquired,
			Fee:      fee,
		})
	}
}

func (s *Simulator) sell(barIndex int, execPrice float64) {
	price, ok := tradePrice(execPrice)
	if !ok || !s.coin.IsPositive() {
		return
	}
	amount := s.coin.Mul(s.cfg.PositionSize)
	gross := amount.Mul(price)
	fee := gross.Mul(s.cfg.FeeRate)

	s.coin = s.coin.Sub(amount)
	s.quote = s.quote.Add(gross.Sub(fee))
	s.feesPaid = s.feesPaid.Add(fee)
	s.executed++
	if len(s.openBuys) > 0 {
		// pair strictly in execution order: oldest open buy first
		if price.GreaterThan(s.openBuys[0]) {
			s.wins++
		}
		s.pairs++
		s.openBuys = s.openBuys[1:]
	}
	if s.cfg.RecordDetail {
		s.trades = append(s.trades, Trade{
			Side:     SideSell,
			BarIndex: barIndex,
			Price:    price,
			Amount:   amount,
			Fee:      fee,
		})
	}
}

func (s *Simulator) valueAt(decisionPrice float64) decimal.Decimal {
	price, ok := tradePrice(decisionPrice)
	if !ok {
		return s.quote
	}
	return s.coin.Mul(price).Add(s.quote)
}

func (s *Simulator) finalize(prices *kline.PriceSeries, values []decimal.Decimal) *Summary {
	initial := s.cfg.StartingAmount
	if s.cfg.StartingDenomination == DenomCoin {
		if price, ok := tradePrice(prices.Decision[0]); ok {
			initial = s.cfg.StartingAmount.Mul(price)
		}
	}
	final := s.valueAt(prices.Decision[len(prices.Decision)-1])

	var returnPct decimal.Decimal
	if initial.IsPositive() {
		returnPct = final.Sub(initial).Div(initial).Mul(oneHundred)
	}

	peak := values[0]
	var maxDD decimal.Decimal
	for i := range values {
		if values[i].GreaterThan(peak) {
			peak = values[i]
		}
		if dd := peak.Sub(values[i]); dd.GreaterThan(maxDD) {
			maxDD = dd
		}
	}
	var maxDDPct decimal.Decimal
	if initial.IsPositive() {
		maxDDPct = maxDD.Div(initial).Mul(oneHundred)
	}

	var winRate decimal.Decimal
	if s.pairs > 0 {
		winRate = decimal.NewFromInt(int64(s.wins)).Div(decimal.NewFromInt(int64(s.pairs)))
	}

	return &Summary{
		InitialValue:   initial,
		FinalValue:     final,
		TotalReturnPct: returnPct,
		TotalTrades:    s.executed,
		WinRate:        winRate,
		MaxDrawdown:    maxDD,
		MaxDrawdownPct: maxDDPct,
		TotalFees:      s.feesPaid,
		Trades:         s.trades,
	}
}

func tradePrice(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}
