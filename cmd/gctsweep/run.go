package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/thrasher-corp/gctsweep/log"
	"github.com/thrasher-corp/gctsweep/sweep"
)

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "execute the configured parameter sweep and report the best combinations",
	Action: runSweep,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "export",
			Usage: "write the full ranked result set to a JSON file",
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "override the number of ranked combinations to display",
		},
	},
}

func runSweep(c *cli.Context) error {
	env, err := newEnvironment(configPath)
	if err != nil {
		return err
	}

	log.Infof(log.SweepMgr, "Starting sweep %s: %d combinations over %d candles",
		env.scheduler.ID(), env.space.Size(), env.bars.Len())

	results, runErr := env.scheduler.Run(c.Context, env.space)
	if runErr != nil && len(results) == 0 {
		return runErr
	}
	if runErr != nil {
		log.Warnf(log.SweepMgr, "Sweep interrupted, reporting %d completed combinations: %v",
			len(results), runErr)
	}

	topN := env.cfg.Sweep.TopN
	if c.IsSet("top") {
		topN = c.Int("top")
	}
	printResults(results, topN)

	if path := c.String("export"); path != "" {
		if err := exportResults(results, path); err != nil {
			return err
		}
		log.Infof(log.SweepMgr, "Exported %d results to %s", len(results), path)
	}
	return runErr
}

func printResults(results []sweep.Result, topN int) {
	if topN > len(results) {
		topN = len(results)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tFINAL VALUE\tRETURN %\tTRADES\tWIN RATE\tMAX DD %\tFEES\tPARAMETERS")
	for i := 0; i < topN; i++ {
		r := &results[i]
		if r.Failed() {
			fmt.Fprintf(w, "%d\t-\t-\t-\t-\t-\t-\t%s (failed: %v)\n",
				i+1, paramString(r.Params), r.Err)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			i+1,
			r.FinalValue.StringFixed(2),
			r.TotalReturnPct.StringFixed(2),
			r.TotalTrades,
			r.WinRate.StringFixed(2),
			r.MaxDrawdownPct.StringFixed(2),
			r.TotalFees.StringFixed(2),
			paramString(r.Params))
	}
	w.Flush()
}

type exportedResult struct {
	Rank           int                `json:"rank"`
	Params         map[string]float64 `json:"params"`
	FinalValue     string             `json:"finalValue,omitempty"`
	TotalReturnPct string             `json:"totalReturnPct,omitempty"`
	TotalTrades    int                `json:"totalTrades"`
	WinRate        string             `json:"winRate,omitempty"`
	MaxDrawdownPct string             `json:"maxDrawdownPct,omitempty"`
	TotalFees      string             `json:"totalFees,omitempty"`
	Error          string             `json:"error,omitempty"`
}

func exportResults(results []sweep.Result, path string) error {
	out := make([]exportedResult, len(results))
	for i := range results {
		r := &results[i]
		out[i] = exportedResult{
			Rank:        i + 1,
			Params:      map[string]float64(r.Params),
			TotalTrades: r.TotalTrades,
		}
		if r.Failed() {
			out[i].Error = r.Err.Error()
			continue
		}
		out[i].FinalValue = r.FinalValue.String()
		out[i].TotalReturnPct = r.TotalReturnPct.String()
		out[i].WinRate = r.WinRate.String()
		out[i].MaxDrawdownPct = r.MaxDrawdownPct.String()
		out[i].TotalFees = r.TotalFees.String()
	}
	data, err := json.MarshalIndent(out, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
