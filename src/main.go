package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/robfig/cron"

	"ShootingInsights/src/config"
	"ShootingInsights/src/datasource/file"
	"ShootingInsights/src/datasource/web"
	"ShootingInsights/src/processor"
	"ShootingInsights/src/report"
	"ShootingInsights/src/storage"
)

func main() {
	configDir := flag.String("config", "./config", "directory holding config.json and dataconfig.json")
	localFile := flag.String("file", "", "local CSV to analyze instead of fetching the remote dataset")
	watch := flag.Bool("watch", false, "keep running: watch the data directory and refresh the remote dataset on a schedule")
	flag.Parse()

	cfg, dcfg, err := config.LoadConfig(*configDir, "config.json", "dataconfig.json")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	if err := runPipeline(cfg, dcfg, logger, *localFile); err != nil {
		logger.Error(err.Error())
		log.Fatal(err)
	}

	if !*watch {
		return
	}

	if err := runWatchMode(cfg, dcfg, logger); err != nil {
		logger.Error(err.Error())
		log.Fatal(err)
	}
}

// runPipeline executes one full pass: load, clean, validate, aggregate,
// model, render.
func runPipeline(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger, localFile string) error {
	t1 := time.Now()
	logger.CheckRotate(cfg)

	df, source, err := loadTable(cfg, logger, localFile)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("loaded %d rows, %d columns from %s", df.Nrow(), df.Ncol(), source))

	cleaned, err := processor.Clean(df, dcfg)
	if err != nil {
		return fmt.Errorf("cleaning failed: %w", err)
	}
	logger.Info(fmt.Sprintf("cleaned table: %d rows, %d columns, %d categorical columns",
		cleaned.Table.Nrow(), cleaned.Table.Ncol(), len(cleaned.Categories)))

	missing := processor.ValidateComplete(cleaned.Table)
	for _, m := range missing {
		logger.Warning(m.String())
	}

	boroughs, err := processor.CountByBorough(cleaned.Table)
	if err != nil {
		return fmt.Errorf("borough aggregation failed: %w", err)
	}

	hourOfRow, monthOfRow, err := processor.Clock(cleaned.Table)
	if err != nil {
		return fmt.Errorf("timestamp derivation failed: %w", err)
	}
	hours := processor.CountByHour(hourOfRow)
	months := processor.CountByMonth(monthOfRow)

	fit, err := processor.FitHourlyCurve(hours)
	if err != nil {
		return fmt.Errorf("hourly fit failed: %w", err)
	}
	logger.Info(fmt.Sprintf("hourly fit: R2=%.4f p=%.4g", fit.R2, fit.PValue))

	summer, err := processor.SummerProportionTest(monthOfRow, dcfg)
	if err != nil {
		return fmt.Errorf("proportion test failed: %w", err)
	}
	logger.Info(fmt.Sprintf("summer proportion test: observed=%.4f z=%.3f p=%.4g",
		summer.Observed, summer.Z, summer.PValue))

	summary := report.Summary{
		GeneratedAt: time.Now(),
		Source:      source,
		Total:       cleaned.Table.Nrow(),
		Boroughs:    boroughs,
		Hours:       hours,
		Months:      months,
		Fit:         fit,
		Summer:      summer,
		Missing:     missing,
		Categories:  cleaned.Categories,
	}

	if err := report.RenderCharts(cfg.OutputDir, boroughs, hours, months, fit); err != nil {
		return fmt.Errorf("chart rendering failed: %w", err)
	}
	if err := report.WriteHTML(cfg.OutputDir, summary); err != nil {
		return fmt.Errorf("report rendering failed: %w", err)
	}
	if err := report.WriteWorkbook(cfg.OutputDir, summary); err != nil {
		return fmt.Errorf("workbook export failed: %w", err)
	}

	logger.Info(fmt.Sprintf("report written to %s in %v", cfg.OutputDir, time.Since(t1)))
	return nil
}

// loadTable fetches the remote dataset, falling back to the configured local
// file when the fetch fails. An explicit -file path skips the fetch.
func loadTable(cfg *config.Config, logger *storage.Logger, localFile string) (dataframe.DataFrame, string, error) {
	if localFile != "" {
		df, err := file.ReadCSVToDataFrame(localFile)
		return df, localFile, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Dataset.FetchTimeout))
	defer cancel()

	df, err := web.FetchCSV(ctx, cfg.Dataset.URL, time.Duration(cfg.Dataset.FetchTimeout))
	if err == nil {
		return df, cfg.Dataset.URL, nil
	}

	if cfg.Dataset.FallbackPath == "" {
		return dataframe.DataFrame{}, "", err
	}
	logger.Warning(fmt.Sprintf("fetch failed (%v), falling back to %s", err, cfg.Dataset.FallbackPath))

	df, ferr := file.ReadCSVToDataFrame(cfg.Dataset.FallbackPath)
	if ferr != nil {
		return dataframe.DataFrame{}, "", fmt.Errorf("fetch failed (%v) and fallback failed: %w", err, ferr)
	}
	return df, cfg.Dataset.FallbackPath, nil
}

// runWatchMode keeps the process alive, re-running the pipeline when a new
// CSV lands in the data directory or on the configured refresh schedule.
func runWatchMode(cfg *config.Config, dcfg *config.DataConfig, logger *storage.Logger) error {
	monitor, err := file.NewFileMonitor(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.DataDir, err)
	}
	defer monitor.Close()

	go func() {
		err := monitor.Watch(func(path string) {
			logger.Info("new dataset dropped: " + path)
			if err := runPipeline(cfg, dcfg, logger, path); err != nil {
				logger.Error(err.Error())
			}
		})
		if err != nil {
			logger.Error("file monitoring stopped: " + err.Error())
		}
	}()

	c := cron.New()
	interval := time.Duration(cfg.Watch.RefreshInterval).String()
	err = c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		logger.Info("scheduled refresh of the remote dataset")
		if err := runPipeline(cfg, dcfg, logger, ""); err != nil {
			logger.Error(err.Error())
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	c.Start()
	defer c.Stop()

	logger.Info(fmt.Sprintf("watch mode running (data dir %s, refresh every %s), Ctrl+C to exit",
		cfg.DataDir, interval))
	waitForShutdown(logger)
	return nil
}

func waitForShutdown(logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("received signal: " + sig.String() + ", shutting down")
}
