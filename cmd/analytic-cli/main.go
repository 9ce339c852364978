// Command analytic-cli runs window queries over CSV, JSON and Parquet files.
package main

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paveg/analytic/internal/config"
	"github.com/paveg/analytic/internal/dataframe"
	"github.com/paveg/analytic/internal/io"
	"github.com/paveg/analytic/internal/logging"
	"github.com/paveg/analytic/internal/monitoring"
	"github.com/paveg/analytic/internal/series"
	"github.com/paveg/analytic/internal/validation"
	"github.com/paveg/analytic/internal/version"
	"github.com/paveg/analytic/internal/window"
	"github.com/spf13/cobra"
)

const defaultRowLimit = 20

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:           "analytic-cli",
		Short:         "Run SQL-style window functions over tabular files",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg)
			if err != nil {
				return err
			}

			config.SetGlobalConfig(cfg)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-format", config.DefaultLogFormat, "log format: console or json")
	flags.Bool("verbose-logging", false, "force debug logging")
	flags.Int("worker-pool-size", 0, "worker goroutines for parallel partitions (0 = number of CPUs)")
	flags.Int("max-parallelism", config.DefaultMaxParallelism, "upper bound on worker goroutines")
	flags.Int("parallel-threshold", config.DefaultParallelThreshold, "minimum rows before partitions run in parallel")
	flags.Bool("metrics-collection", false, "record and print execution metrics")

	rootCmd.AddCommand(newVersionCmd(), newConfigCmd(), newRunCmd(), newDemoCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Info()
			if !asJSON {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), info.String())
				return nil
			}
			out, err := info.JSON()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := config.GetGlobalConfig().ToYAML()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		qf     queryFlags
		file   string
		output  string
		limit   int
		keep    bool
		columns []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate window functions over a file",
		Example: `  analytic-cli run --file sales.csv --partition-by region --order-by week \
    --start preceding:2 --end current-row --func sum:revenue:rolling --func rank:rank`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mem := memory.NewGoAllocator()
			df, err := io.ReadFile(file, mem)
			if err != nil {
				return err
			}
			defer df.Release()

			q, err := qf.query(df)
			if err != nil {
				return err
			}
			return execute(cmd, q, keep, columns, output, limit)
		},
	}

	f := cmd.Flags()
	f.StringVar(&file, "file", "", "input file (.csv, .tsv, .json, .jsonl or .parquet)")
	f.StringSliceVar(&qf.partitionBy, "partition-by", nil, "partition columns")
	f.StringSliceVar(&qf.orderBy, "order-by", nil, "order keys as column[:asc|:desc]")
	f.StringVar(&qf.start, "start", "", "frame start: unbounded-preceding, preceding:N, current-row or following:N")
	f.StringVar(&qf.end, "end", "", "frame end: preceding:N, current-row, following:N or unbounded-following")
	f.StringArrayVar(&qf.functions, "func", nil, "function as kind:source:output, or kind:output for row_number, rank and dense_rank")
	f.StringVar(&output, "output", "", "write the result to this file instead of printing it")
	f.IntVar(&limit, "limit", defaultRowLimit, "rows to print (0 = all)")
	f.BoolVar(&keep, "keep-columns", false, "include the source columns in the result")
	f.StringSliceVar(&columns, "select", nil, "result columns to print or write, in this order (default all)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("func")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run rolling revenue and ranking over generated sales data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			df := demoSales(rows, memory.NewGoAllocator())
			defer df.Release()

			q, err := window.From(df).
				PartitionBy("region").
				OrderBy("week", true).
				RowsBetween().Preceding(2).AndCurrentRow().
				Sum("revenue").As("rolling_revenue").
				Max("revenue").As("rolling_peak").
				Build()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), q.String())
			return execute(cmd, q, true, nil, "", defaultRowLimit)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 12, "number of generated rows")
	return cmd
}

func execute(cmd *cobra.Command, q *window.Query, keep bool, columns []string, output string, limit int) error {
	metrics := monitoring.NewMetricsCollector(config.GetGlobalConfig().MetricsCollection)
	engine := window.NewEngine(window.WithMetrics(metrics))

	run := engine.Execute
	if keep {
		run = engine.ExecuteInPlace
	}
	result, err := run(cmd.Context(), q)
	if err != nil {
		return err
	}
	defer result.Release()

	if len(columns) > 0 {
		if err := validation.ValidateColumns(result, "select", columns...); err != nil {
			return err
		}
		selected := result.Select(columns...)
		defer selected.Release()
		result = selected
	}

	if output != "" {
		if err := io.WriteFile(output, result); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", result.Len(), output)
	} else {
		renderTable(cmd.OutOrStdout(), result, limit)
	}

	if metrics.IsEnabled() {
		renderMetrics(cmd.ErrOrStderr(), metrics)
	}
	return nil
}

func demoSales(rows int, mem memory.Allocator) *dataframe.DataFrame {
	regions := []string{"north", "south", "east"}
	region := make([]string, rows)
	week := make([]int64, rows)
	revenue := make([]float64, rows)
	for i := range rows {
		region[i] = regions[i%len(regions)]
		week[i] = int64(i/len(regions) + 1)
		revenue[i] = float64((i*37)%50 + 10)
	}

	return dataframe.New(
		series.New("region", region, mem),
		series.New("week", week, mem),
		series.New("revenue", revenue, mem),
	)
}
