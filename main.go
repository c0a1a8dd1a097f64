package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fazecat/dexsignals/Internal/analysis"
	"github.com/fazecat/dexsignals/Internal/cache"
	"github.com/fazecat/dexsignals/Internal/datafeed"
	"github.com/fazecat/dexsignals/Internal/strategy/signals"
	"github.com/fazecat/dexsignals/Internal/types"
	"github.com/fazecat/dexsignals/Internal/utils/config"
	"github.com/fazecat/dexsignals/Internal/utils/scanner"
	"github.com/fazecat/dexsignals/interactive"
	"github.com/joho/godotenv"
)

// One-shot scan by default: runs a single cycle against the live provider
// and prints the ranked signals. -i opens the console menu instead.
func main() {
	limit := flag.Int("n", 20, "number of signals to print")
	kind := flag.String("type", "", "only print signals of this type (NEW, BUY, SELL, RISK)")
	showConfig := flag.Bool("config", false, "print the effective configuration and exit")
	menu := flag.Bool("i", false, "interactive menu")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Warning: config.yaml not loaded (%v), using defaults", err)
		cfg = config.Default()
		cfg.Secrets = config.SecretsFromEnv()
	}

	if *showConfig {
		config.DisplayConfiguration(cfg)
		return
	}

	feed := datafeed.NewClient(cfg.Sources.BaseURL, cfg.SourceTimeout())
	scan := scanner.NewScanner(feed, cache.NewMemory(cfg.CacheTTL(), time.Now), signals.NewEngine(nil), scanner.OptionsFromConfig(cfg), time.Now)

	if *menu {
		groq := analysis.NewGroqClient(analysis.GroqOptions{
			BaseURL:     cfg.Analysis.BaseURL,
			APIKey:      cfg.Secrets.GroqAPIKey,
			Model:       cfg.Analysis.Model,
			Temperature: cfg.Analysis.Temperature,
			MaxTokens:   cfg.Analysis.MaxTokens,
			Timeout:     cfg.AnalysisTimeout(),
		})
		runMenu(cfg, scan, analysis.NewAnalyzer(groq, cfg.Analysis.SystemPrompt, cfg.Global.ChainLabel), *limit)
		return
	}

	fmt.Printf("Scanning %s pairs...\n", cfg.Global.ChainLabel)
	if err := runScan(cfg, scan, types.SignalKind(strings.ToUpper(*kind)), *limit); err != nil {
		fmt.Printf("Scan failed: %v\n", err)
		os.Exit(1)
	}
}

func runScan(cfg *config.Config, scan *scanner.Scanner, kind types.SignalKind, limit int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.SourceTimeout())
	defer cancel()

	entry, cached, err := scan.Scan(ctx)
	if err != nil {
		return err
	}
	interactive.DisplaySignals(entry, cached, kind, limit)
	return nil
}

func runAnalyze(cfg *config.Config, scan *scanner.Scanner, analyzer *analysis.Analyzer, address string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.SourceTimeout()+cfg.AnalysisTimeout())
	defer cancel()

	pairs, err := scan.TokenPairs(ctx, address)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Printf("No %s chain pairs found\n", cfg.Global.ChainLabel)
		return nil
	}

	summary := analysis.Summarize(pairs[0], time.Now())
	interactive.DisplayAnalysis(summary, len(pairs), analyzer.Analyze(ctx, summary))
	return nil
}

func runMenu(cfg *config.Config, scan *scanner.Scanner, analyzer *analysis.Analyzer, limit int) {
	reader := bufio.NewReader(os.Stdin)
	for {
		action, err := interactive.ShowMainMenu(reader)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			continue
		}

		switch action {
		case interactive.ActionScan:
			err = runScan(cfg, scan, "", limit)
		case interactive.ActionFilter:
			var kind types.SignalKind
			if kind, err = interactive.ShowSignalTypeMenu(reader); err == nil {
				err = runScan(cfg, scan, kind, limit)
			}
		case interactive.ActionAnalyze:
			var address string
			if address, err = interactive.PromptAddress(reader); err == nil {
				err = runAnalyze(cfg, scan, analyzer, address)
			}
		case interactive.ActionExit:
			fmt.Println("Goodbye!")
			return
		}

		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
