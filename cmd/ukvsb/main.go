// Command ukvsb runs a set of key-value store workloads against the
// in-memory reference engine and reports their results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unum-cloud/ukvsb/pkg/bench"
	"github.com/unum-cloud/ukvsb/pkg/config"
	"github.com/unum-cloud/ukvsb/pkg/metrics"
	"github.com/unum-cloud/ukvsb/pkg/results"
	"github.com/unum-cloud/ukvsb/pkg/storage"
	"github.com/unum-cloud/ukvsb/pkg/storage/memory"
	"github.com/unum-cloud/ukvsb/pkg/util"
)

func main() {
	var (
		configFile    = flag.String("config", "", "Configuration file path")
		workloadsPath = flag.String("workloads", "", "Workload descriptor JSON file (overrides config)")
		filter        = flag.String("filter", "", "Comma-separated list of workload names to run (default: all)")
		threads       = flag.Int("threads", 0, "Number of worker threads per workload (overrides config)")
		transactional = flag.Bool("transactional", false, "Run each workload against a transaction instead of the raw engine")
		resultsDir    = flag.String("results", "", "Directory to write results.json to (overrides config)")
		saveBaseline  = flag.Bool("save-baseline", false, "Save this run's results as the comparison baseline")
		compare       = flag.Bool("compare", false, "Compare this run's results against the saved baseline")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", util.FormatError(err))
		os.Exit(1)
	}
	if *workloadsPath != "" {
		cfg.Run.WorkloadsPath = *workloadsPath
	}
	if *filter != "" {
		cfg.Run.Filter = *filter
	}
	if *threads > 0 {
		cfg.Run.Threads = *threads
	}
	if *transactional {
		cfg.Run.Transactional = true
	}
	if *resultsDir != "" {
		cfg.Run.ResultsDir = *resultsDir
	}

	logger, err := cfg.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", util.FormatError(err))
		os.Exit(1)
	}

	workloads, err := bench.LoadWorkloads(cfg.Run.WorkloadsPath)
	if err != nil {
		logger.Error("failed to load workloads", map[string]interface{}{"error": err.Error()})
		fmt.Fprintf(os.Stderr, "%s\n", util.FormatError(err))
		os.Exit(1)
	}
	workloads = bench.FilterWorkloads(workloads, cfg.Run.Filter)

	sink := metrics.NewPrometheusSink(prometheus.NewRegistry())

	ctx := context.Background()
	engine := memory.New()

	// A fatal error in one workload (engine open/close, transaction
	// creation) aborts that workload but not the remaining ones in this
	// invocation; errAgg collects every such failure so it can be reported
	// in full once the run is over instead of hiding later workloads'
	// outcomes behind the first failure (§7).
	errAgg := storage.NewErrorAggregator("run")

	var runResults []*bench.WorkloadResult
	for _, w := range workloads {
		logger.Info("running workload", map[string]interface{}{"name": w.Name})

		result, err := bench.RunWorkload(ctx, engine, w, bench.RunOptions{
			Threads:       cfg.Run.Threads,
			Transactional: cfg.Run.Transactional,
			MetricsSink:   sink,
			Progress: func(line string) {
				fmt.Fprint(os.Stderr, line)
			},
		})
		if err != nil {
			logger.Error("workload failed", map[string]interface{}{"name": w.Name, "error": err.Error()})
			fmt.Fprintf(os.Stderr, "\n%s\n", util.FormatError(err))
			errAgg.Add(fmt.Errorf("%s: %w", w.Name, err))
			continue
		}
		fmt.Fprintln(os.Stderr)
		logger.Info("workload finished", map[string]interface{}{"name": w.Name, "elapsed": util.FormatDuration(result.Elapsed)})
		runResults = append(runResults, result)
	}

	for _, r := range runResults {
		fmt.Printf("%s: %.0f ops/s, %.2f%% fails, %s processed, %s on disk\n",
			r.Name, r.OperationsPerSecond, r.FailsPercent,
			util.FormatBytes(r.ProcessedBytes), util.FormatBytes(r.DiskBytes))
	}

	if cfg.Run.ResultsDir != "" {
		manager := results.NewManager(cfg.Run.ResultsDir+"/results.json", logger)
		if err := manager.Save(runResults); err != nil {
			logger.Error("failed to save results", map[string]interface{}{"error": err.Error()})
		}

		if *saveBaseline {
			baselineManager := results.NewManager(cfg.Run.ResultsDir+"/baseline.json", logger)
			if err := baselineManager.Save(runResults); err != nil {
				logger.Error("failed to save baseline", map[string]interface{}{"error": err.Error()})
			}
		}

		if *compare {
			baselineManager := results.NewManager(cfg.Run.ResultsDir+"/baseline.json", logger)
			comparisons, err := baselineManager.Compare(runResults)
			if err != nil {
				logger.Error("failed to compare against baseline", map[string]interface{}{"error": err.Error()})
			} else {
				for _, c := range comparisons {
					fmt.Printf("%s: %.0f -> %.0f ops/s (%+.1f%%) [%s]\n",
						c.Name, c.BaselineOpsPerSecond, c.CurrentOpsPerSecond, c.OpsPerSecondChange, c.Status)
				}
			}
		}
	}

	if errAgg.HasErrors() {
		fmt.Fprintf(os.Stderr, "%s\n", util.FormatError(errAgg.CreateAggregateError()))
		os.Exit(1)
	}
}
