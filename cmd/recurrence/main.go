// Command recurrence fits a Gumbel distribution to the annual rainfall totals
// of a workbook and writes the recurrence report, charts and summary.
//
// Usage:
//
//	go run ./cmd/recurrence -input DadosChuva.xlsx -output AnaliseCompleta.xlsx -years 2001-2020
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/rainfall-recurrence/internal/adapter/chart"
	kafkaadapter "github.com/couchcryptid/rainfall-recurrence/internal/adapter/kafka"
	"github.com/couchcryptid/rainfall-recurrence/internal/adapter/summary"
	"github.com/couchcryptid/rainfall-recurrence/internal/adapter/xlsx"
	"github.com/couchcryptid/rainfall-recurrence/internal/config"
	"github.com/couchcryptid/rainfall-recurrence/internal/domain"
	"github.com/couchcryptid/rainfall-recurrence/internal/observability"
	"github.com/couchcryptid/rainfall-recurrence/internal/pipeline"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("recurrence", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", sharedcfg.EnvOrDefault("RAINFALL_CONFIG", ""), "optional YAML config file")
	input := fs.String("input", "", "input workbook (overrides input.path)")
	output := fs.String("output", "", "report workbook (overrides output.path)")
	years := fs.String("years", "", `years to analyse, e.g. "all" or "2001,2005-2010" (overrides analysis.years)`)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	applyFlags(cfg, *input, *output, *years)
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		return 1
	}

	logger := observability.NewLogger(stderr, cfg.Log.Level, cfg.Log.Format)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporters, closers := buildExporters(cfg, logger)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("close exporter", "error", err)
			}
		}
	}()

	reader := xlsx.NewReader(cfg.Input, logger)
	analyzer := pipeline.NewAnalyzer(cfg.Analysis.Years, cfg.Analysis.ReturnPeriods, logger)
	p := pipeline.New(reader, analyzer, exporters, logger, metrics)

	report, runErr := p.Run(ctx)

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error("write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("analysis failed", "kind", domain.FailureKind(runErr), "error", runErr)
		fmt.Fprintf(stderr, "Erro: %v\n", runErr)
		return 1
	}

	printSummary(stdout, cfg, report)
	return 0
}

func applyFlags(cfg *config.Config, input, output, years string) {
	if input != "" {
		cfg.Input.Path = input
	}
	if output != "" {
		cfg.Output.Path = config.NormalizeOutputPath(output)
	}
	if years != "" {
		cfg.Analysis.Years = years
	}
}

func buildExporters(cfg *config.Config, logger *slog.Logger) ([]pipeline.Exporter, []io.Closer) {
	exporters := []pipeline.Exporter{xlsx.NewWriter(cfg.Output.Path, logger)}
	var closers []io.Closer

	if cfg.Output.ChartsEnabled {
		exporters = append(exporters, chart.NewRenderer(cfg.Output.ChartPrefix, logger))
	}
	if cfg.Output.SummaryPath != "" {
		exporters = append(exporters, summary.NewWriter(cfg.Output.SummaryPath, cfg.Output.SummaryFormat, logger))
	}
	if cfg.Kafka.Enabled {
		w := kafkaadapter.NewWriter(cfg.Kafka, logger)
		exporters = append(exporters, w)
		closers = append(closers, w)
		logger.Info("kafka publishing enabled", "topic", cfg.Kafka.Topic, "brokers", cfg.Kafka.Brokers)
	}
	return exporters, closers
}

func printSummary(w io.Writer, cfg *config.Config, report domain.Report) {
	res := report.Result
	fmt.Fprintln(w, "Análise concluída!")
	if report.SelectionFallback {
		fmt.Fprintln(w, "Seleção de anos inválida; todos os anos foram analisados.")
	}
	fmt.Fprintf(w, "Anos analisados: %d (%s)\n", res.N, report.Selection)
	fmt.Fprintf(w, "Média: %.2f mm\n", res.Mean)
	fmt.Fprintf(w, "Desvio padrão: %.2f mm\n", res.StdDev)
	fmt.Fprintf(w, "Gumbel loc: %.4f  scale: %.4f\n", res.Gumbel.Loc, res.Gumbel.Scale)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tempo de Recorrência (anos)   Total Anual Estimado (mm)")
	for _, e := range res.Estimates {
		fmt.Fprintf(w, "%27g   %25.1f\n", e.ReturnPeriod, e.Estimate)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Relatório: %s\n", cfg.Output.Path)
	if cfg.Output.ChartsEnabled {
		chartPath, tablePath := chart.NewRenderer(cfg.Output.ChartPrefix, nil).Paths()
		fmt.Fprintf(w, "Gráficos: %s, %s\n", chartPath, tablePath)
	}
	if cfg.Output.SummaryPath != "" {
		fmt.Fprintf(w, "Resumo: %s\n", cfg.Output.SummaryPath)
	}
}
