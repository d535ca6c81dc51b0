// Command finanzas runs the full pipeline once: load the ledger CSV,
// compute the metrics for the requested period and write the report
// artifacts.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/santty1906/finanzas-pro-plus/internal/charts"
	"github.com/santty1906/finanzas-pro-plus/internal/cli"
	"github.com/santty1906/finanzas-pro-plus/internal/export"
	"github.com/santty1906/finanzas-pro-plus/internal/ledger"
	"github.com/santty1906/finanzas-pro-plus/internal/log"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	var (
		csvPath  = flag.String("csv", cfg.CSVPath, "ledger CSV file")
		month    = flag.String("month", "", "limit to one month (YYYY-MM)")
		start    = flag.String("start", "", "range start date (YYYY-MM-DD)")
		end      = flag.String("end", "", "range end date (YYYY-MM-DD)")
		importFl = flag.String("import", "", "merge another ledger CSV into -csv before reporting")
		outDir   = flag.String("out", cfg.ExportDir, "output directory")
		formats  = flag.String("formats", "png,md", "comma-separated artifacts: png,md,pdf,xlsx,zip")
		settings = flag.String("settings", cfg.SettingsPath, "analysis settings JSON file")
	)
	flag.Parse()

	period, err := ledger.ParsePeriod(*month, *start, *end)
	if err != nil {
		logger.Error("Invalid period", log.FieldError, err.Error())
		os.Exit(2)
	}
	var requested []export.Format
	for _, tok := range strings.Split(*formats, ",") {
		f, err := export.ParseFormat(strings.TrimSpace(tok))
		if err != nil {
			logger.Error("Invalid format", log.FieldError, err.Error())
			os.Exit(2)
		}
		requested = append(requested, f)
	}

	s := cli.LoadSettings(logger, *settings)

	if *importFl != "" {
		added, warns, err := ledger.Import(*csvPath, *importFl)
		if err != nil {
			logger.Error("Import failed", log.FieldError, err.Error(), log.FieldFile, *importFl)
			os.Exit(1)
		}
		for _, re := range warns {
			logger.Warn("Skipping malformed row",
				log.FieldFile, *importFl, log.FieldRow, re.Row, log.FieldError, re.Reason)
		}
		logger.Info("Ledger import finished",
			log.FieldFile, *importFl, log.FieldTransactions, added)
	}

	txs, rowErrs, err := ledger.Load(*csvPath)
	if err != nil {
		logger.Error("Failed to load ledger", log.FieldError, err.Error(), log.FieldFile, *csvPath)
		os.Exit(1)
	}
	for _, re := range rowErrs {
		logger.Warn("Skipping malformed row",
			log.FieldFile, *csvPath, log.FieldRow, re.Row, log.FieldError, re.Reason)
	}
	logger.Info("Ledger loaded",
		log.FieldFile, *csvPath,
		log.FieldTransactions, len(txs),
		log.FieldWarnings, len(rowErrs))

	txs = ledger.Filter(txs, period)
	snap := metrics.Compute(txs, s.Metrics())
	logger.Info("Metrics computed",
		log.FieldPeriod, period.Label(),
		log.FieldTransactions, snap.Transactions,
		"net_cents", snap.Net.Cents)

	exporter := export.New(*outDir, cfg.ExportFontPath, logger)
	result := exporter.Export(export.Request{
		Transactions: txs,
		Snapshot:     snap,
		PeriodLabel:  period.Label(),
		Settings:     s.Metrics(),
		ChartOptions: charts.Options{
			Title:           period.Label(),
			TopN:            s.ChartTopN,
			MovingAvgWindow: s.MovingAvgWindow,
		},
		Formats: requested,
	})

	for _, p := range result.Written {
		fmt.Println(p)
	}
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			logger.Error("Artifact failed", log.FieldError, err.Error())
		}
		os.Exit(1)
	}
}
