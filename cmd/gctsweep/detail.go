package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/thrasher-corp/gctsweep/log"
	"github.com/thrasher-corp/gctsweep/portfolio"
)

var detailCommand = &cli.Command{
	Name:   "detail",
	Usage:  "re-run a single combination by rank with full trade logging",
	Action: runDetail,
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "rank",
			Value: 1,
			Usage: "the ranked position to re-run, 1 being the best",
		},
	},
}

func runDetail(c *cli.Context) error {
	rank := c.Int("rank")
	if rank < 1 {
		return fmt.Errorf("rank must be 1 or greater, received %d", rank)
	}

	env, err := newEnvironment(configPath)
	if err != nil {
		return err
	}

	results, err := env.scheduler.Run(c.Context, env.space)
	if err != nil {
		return err
	}
	if rank > len(results) {
		return fmt.Errorf("rank %d exceeds result count %d", rank, len(results))
	}

	target := &results[rank-1]
	if target.Failed() {
		return fmt.Errorf("combination %s failed during the sweep: %w",
			paramString(target.Params), target.Err)
	}

	log.Infof(log.SweepMgr, "Re-running rank %d combination %s with trade logging",
		rank, paramString(target.Params))
	summary, err := env.scheduler.Detail(target.Params)
	if err != nil {
		return err
	}
	printSummary(rank, paramString(target.Params), summary)
	return nil
}

func printSummary(rank int, params string, s *portfolio.Summary) {
	fmt.Printf("Rank %d: %s\n", rank, params)
	fmt.Printf("Initial value:\t%s\n", s.InitialValue.StringFixed(2))
	fmt.Printf("Final value:\t%s\n", s.FinalValue.StringFixed(2))
	fmt.Printf("Total return:\t%s%%\n", s.TotalReturnPct.StringFixed(2))
	fmt.Printf("Max drawdown:\t%s (%s%%)\n",
		s.MaxDrawdown.StringFixed(2), s.MaxDrawdownPct.StringFixed(2))
	fmt.Printf("Win rate:\t%s\n", s.WinRate.StringFixed(2))
	fmt.Printf("Fees paid:\t%s\n", s.TotalFees.StringFixed(2))
	fmt.Printf("Trades:\t%d\n", s.TotalTrades)

	if len(s.Trades) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIDE\tBAR\tPRICE\tAMOUNT\tFEE")
	for i := range s.Trades {
		tr := &s.Trades[i]
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			tr.Side,
			tr.BarIndex,
			tr.Price.StringFixed(2),
			tr.Amount.StringFixed(8),
			tr.Fee.StringFixed(8))
	}
	w.Flush()
}
