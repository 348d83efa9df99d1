package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrasher-corp/gctsweep/kline"
	"github.com/thrasher-corp/gctsweep/portfolio"
	"github.com/thrasher-corp/gctsweep/strategy"
)

var errStub = errors.New("stub strategy failure")

// stubGen trades according to its parameters: "buy" enters on the first bar
// and exits on the bar named by "sellBar"; "fail" and "panic" misbehave
type stubGen struct{}

func (stubGen) Name() string { return "stub" }

func (stubGen) Generate(prices *kline.PriceSeries, params strategy.ParameterSet) ([]strategy.Signal, error) {
	if params.Value("fail", 0) == 1 {
		return nil, errStub
	}
	if params.Value("panic", 0) == 1 {
		panic("stub panic")
	}
	out := make([]strategy.Signal, len(prices.Decision))
	if params.Value("buy", 0) == 1 {
		out[0] = strategy.Buy
		if sell := params.Int("sellBar", -1); sell > 0 && sell < len(out) {
			out[sell] = strategy.Sell
		}
	}
	return out, nil
}

// risingBars yields candles whose price climbs one unit per bar so selling
// later always ranks higher
func risingBars(t *testing.T, n int) (kline.Series, *kline.PriceSeries) {
	t.Helper()
	s := make(kline.Series, n)
	for i := range s {
		price := 100 + float64(i)
		s[i] = kline.Bar{Open: price, High: price, Low: price, Close: price, Volume: 1}
	}
	p, err := kline.NewPriceSeries(s)
	require.NoError(t, err)
	return s, p
}

func testSettings() Settings {
	return Settings{
		Portfolio: portfolio.Settings{
			StartingDenomination: portfolio.DenomQuote,
			StartingAmount:       decimal.NewFromInt(1000),
			FeeRate:              decimal.Zero,
			PositionSize:         decimal.NewFromInt(1),
		},
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)

	_, err := New(nil, bars, prices, testSettings())
	assert.ErrorIs(t, err, ErrNilGenerator)

	_, err = New(stubGen{}, nil, prices, testSettings())
	assert.ErrorIs(t, err, ErrBadDataset)

	shortPrices, err := kline.NewPriceSeries(bars[:5])
	require.NoError(t, err)
	_, err = New(stubGen{}, bars, shortPrices, testSettings())
	assert.ErrorIs(t, err, ErrBadDataset, "dataset-level mismatch must fail the sweep before expansion")

	bad := testSettings()
	bad.Portfolio.StartingAmount = decimal.Zero
	_, err = New(stubGen{}, bars, prices, bad)
	assert.Error(t, err)
}

func TestRunRankedDescending(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)
	sched, err := New(stubGen{}, bars, prices, testSettings())
	require.NoError(t, err)

	space := NewSpace().
		Add("buy", 1).
		Add("sellBar", 3, 9, 6)
	results, err := sched.Run(context.Background(), space)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// selling at bar 9 beats 6 beats 3
	assert.Equal(t, 9, results[0].Params.Int("sellBar", 0))
	assert.Equal(t, 6, results[1].Params.Int("sellBar", 0))
	assert.Equal(t, 3, results[2].Params.Int("sellBar", 0))
	for i := 1; i < len(results); i++ {
		assert.True(t, results[i-1].FinalValue.GreaterThanOrEqual(results[i].FinalValue))
	}
}

func TestRunStableTieBreak(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)
	sched, err := New(stubGen{}, bars, prices, testSettings())
	require.NoError(t, err)

	// every combination holds, so every final value ties
	space := NewSpace().Add("idle", 1, 2, 3, 4)
	results, err := sched.Run(context.Background(), space)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i := range results {
		assert.Equal(t, float64(i+1), results[i].Params["idle"],
			"equal finals must keep enumeration order")
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)
	sched, err := New(stubGen{}, bars, prices, testSettings())
	require.NoError(t, err)

	space := NewSpace().
		Add("buy", 1).
		Add("sellBar", 9).
		Add("fail", 0, 1)
	results, err := sched.Run(context.Background(), space)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Failed())
	assert.True(t, results[0].FinalValue.GreaterThan(decimal.NewFromInt(1000)))

	require.True(t, results[1].Failed(), "error results sink below genuine outcomes")
	assert.ErrorIs(t, results[1].Err, errStub)
	var execErr *strategy.ExecutionError
	assert.ErrorAs(t, results[1].Err, &execErr)
	assert.True(t, results[1].FinalValue.IsZero(), "sentinel numerics only")
}

func TestRunContainsPanics(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)
	sched, err := New(stubGen{}, bars, prices, testSettings())
	require.NoError(t, err)

	space := NewSpace().Add("panic", 1, 0)
	results, err := sched.Run(context.Background(), space)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.False(t, results[0].Failed())
	assert.True(t, results[1].Failed())
}

func TestRunBatchingAndProgress(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)

	vals := make([]float64, 237)
	for i := range vals {
		vals[i] = float64(i)
	}

	var completed []int
	var fractions []float64
	cfg := testSettings()
	cfg.Progress = func(done, total int, fraction float64) {
		assert.Equal(t, 237, total)
		completed = append(completed, done)
		fractions = append(fractions, fraction)
	}
	sched, err := New(stubGen{}, bars, prices, cfg)
	require.NoError(t, err)

	results, err := sched.Run(context.Background(), NewSpace().Add("idle", vals...))
	require.NoError(t, err)
	assert.Len(t, results, 237)

	require.Equal(t, []int{50, 100, 150, 200, 237}, completed,
		"237 combinations at batch size 50 is 5 batches of 50,50,50,50,37")
	for i := 1; i < len(fractions); i++ {
		assert.Greater(t, fractions[i], fractions[i-1])
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestRunCancellation(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cfg := testSettings()
	cfg.BatchSize = 10
	cfg.Progress = func(done, _ int, _ float64) {
		if done >= 10 {
			cancel()
		}
	}
	sched, err := New(stubGen{}, bars, prices, cfg)
	require.NoError(t, err)

	vals := make([]float64, 30)
	for i := range vals {
		vals[i] = float64(i)
	}
	results, err := sched.Run(ctx, NewSpace().Add("idle", vals...))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 10, "results produced before cancellation remain valid")
}

func TestRunWorkerPoolMatchesSequential(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)

	space := func() *Space {
		return NewSpace().
			Add("buy", 1).
			Add("sellBar", 2, 3, 4, 5, 6, 7, 8, 9).
			Add("fail", 0, 1)
	}

	seqCfg := testSettings()
	seq, err := New(stubGen{}, bars, prices, seqCfg)
	require.NoError(t, err)
	seqResults, err := seq.Run(context.Background(), space())
	require.NoError(t, err)

	parCfg := testSettings()
	parCfg.Workers = 4
	par, err := New(stubGen{}, bars, prices, parCfg)
	require.NoError(t, err)
	parResults, err := par.Run(context.Background(), space())
	require.NoError(t, err)

	require.Len(t, parResults, len(seqResults))
	for i := range seqResults {
		assert.Equal(t, seqResults[i].Params, parResults[i].Params,
			"parallel execution must not change the ranking")
		assert.True(t, seqResults[i].FinalValue.Equal(parResults[i].FinalValue))
	}
}

func TestRunEmptySpace(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)
	sched, err := New(stubGen{}, bars, prices, testSettings())
	require.NoError(t, err)

	_, err = sched.Run(context.Background(), NewSpace())
	assert.ErrorIs(t, err, ErrEmptySpace)

	_, err = sched.Run(context.Background(), NewSpace().Add("a"))
	assert.ErrorIs(t, err, ErrEmptyValues)
}

func TestParameterOverrides(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)
	sched, err := New(stubGen{}, bars, prices, testSettings())
	require.NoError(t, err)

	space := NewSpace().
		Add("buy", 1).
		Add("sellBar", 9).
		Add(FeeRateKey, 0, 0.01)
	results, err := sched.Run(context.Background(), space)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 0.0, results[0].Params[FeeRateKey], "fee-free run must rank first")
	assert.True(t, results[0].TotalFees.IsZero())
	assert.True(t, results[1].TotalFees.IsPositive(), "per-combination fee override must apply")
}

func TestDetail(t *testing.T) {
	t.Parallel()
	bars, prices := risingBars(t, 10)
	sched, err := New(stubGen{}, bars, prices, testSettings())
	require.NoError(t, err)

	params := strategy.ParameterSet{"buy": 1, "sellBar": 9}
	summary, err := sched.Detail(params)
	require.NoError(t, err)
	require.Len(t, summary.Trades, 2, "detail re-run regenerates the full trade log")
	assert.Equal(t, portfolio.SideBuy, summary.Trades[0].Side)
	assert.Equal(t, 9, summary.Trades[1].BarIndex)

	_, err = sched.Detail(strategy.ParameterSet{"fail": 1})
	assert.Error(t, err)
}
