package interactive

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fazecat/dexsignals/Internal/analysis"
	"github.com/fazecat/dexsignals/Internal/cache"
	"github.com/fazecat/dexsignals/Internal/types"
	"github.com/fazecat/dexsignals/Internal/utils/formatting"
)

const (
	ActionScan    = "scan"
	ActionFilter  = "filter"
	ActionAnalyze = "analyze"
	ActionExit    = "exit"
)

func readChoice(reader *bufio.Reader) (int, error) {
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, err
	}
	choice, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("invalid choice %q", strings.TrimSpace(line))
	}
	return choice, nil
}

func ShowMainMenu(reader *bufio.Reader) (string, error) {
	fmt.Println("\n--- DEX Signals Menu ---")
	fmt.Println("1. Scan Signals")
	fmt.Println("2. Scan Signals by Type")
	fmt.Println("3. Analyze Token")
	fmt.Println("4. Exit")
	fmt.Print("Enter choice: ")

	choice, err := readChoice(reader)
	if err != nil {
		fmt.Println("Invalid input. Please enter a number between 1 and 4.")
		return "", err
	}

	switch choice {
	case 1:
		return ActionScan, nil
	case 2:
		return ActionFilter, nil
	case 3:
		return ActionAnalyze, nil
	case 4:
		return ActionExit, nil
	default:
		fmt.Println("Invalid choice.")
		return "", fmt.Errorf("invalid choice")
	}
}

func ShowSignalTypeMenu(reader *bufio.Reader) (types.SignalKind, error) {
	fmt.Println("\nChoose signal type:")
	fmt.Println("1. NEW")
	fmt.Println("2. BUY")
	fmt.Println("3. SELL")
	fmt.Println("4. RISK")
	fmt.Print("Enter choice: ")

	choice, err := readChoice(reader)
	if err != nil {
		fmt.Println("Invalid input. Please enter a number between 1 and 4.")
		return "", err
	}

	switch choice {
	case 1:
		return types.SignalNew, nil
	case 2:
		return types.SignalBuy, nil
	case 3:
		return types.SignalSell, nil
	case 4:
		return types.SignalRisk, nil
	default:
		fmt.Println("Invalid choice.")
		return "", fmt.Errorf("invalid choice")
	}
}

// PromptAddress reads a token address; blank input is rejected.
func PromptAddress(reader *bufio.Reader) (string, error) {
	fmt.Print("Token address: ")
	line, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	address := strings.TrimSpace(line)
	if address == "" {
		return "", fmt.Errorf("address required")
	}
	return address, nil
}

// FilterSignals keeps up to limit signals of kind; an empty kind keeps all.
func FilterSignals(signals []types.Signal, kind types.SignalKind, limit int) []types.Signal {
	out := make([]types.Signal, 0, len(signals))
	for _, s := range signals {
		if kind != "" && s.Kind != kind {
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, s)
	}
	return out
}

func DisplaySignals(entry *cache.Entry, cached bool, kind types.SignalKind, limit int) {
	fmt.Println("\n" + formatting.Separator(100))
	source := "fresh"
	if cached {
		source = "cached"
	}
	fmt.Printf("SIGNALS (%s)  %d pairs scanned • %d signals • sources: %s\n",
		source, entry.Meta.PairsScanned, entry.Meta.Count, strings.Join(entry.Meta.Sources, ", "))
	fmt.Println(formatting.Separator(100))

	shown := FilterSignals(entry.Signals, kind, limit)
	for _, s := range shown {
		fmt.Printf("%-4s %3d  %-10s %-12s 1h %+6.1f%%  24h %+7.1f%%  vol %-8s liq %-8s\n",
			s.Kind, s.Strength, formatting.Truncate(s.TokenSymbol, 10), s.PriceDisplay,
			s.Change1h, s.Change24h, formatting.CompactUSD(s.Volume24h), formatting.CompactUSD(s.LiquidityUsd))
		fmt.Printf("          %s\n", s.Reason)
	}

	if len(shown) == 0 {
		fmt.Println("No signals this cycle.")
	}
	fmt.Println(formatting.Separator(100))
}

func DisplayAnalysis(summary analysis.TokenSummary, pairs int, text string) {
	fmt.Println("\n" + formatting.Separator(80))
	fmt.Printf("%s (%s)  price %s  age %s  %d pairs\n", summary.Name, summary.Symbol, summary.Price, summary.PairAge, pairs)
	fmt.Printf("1h %+.1f%%  24h %+.1f%%  vol %s  liq %s\n",
		summary.Change1h, summary.Change24h, formatting.CompactUSD(summary.Volume24h), formatting.CompactUSD(summary.Liquidity))
	if summary.Txns24h != nil {
		fmt.Printf("24h txns: %d buys / %d sells\n", summary.Txns24h.Buys, summary.Txns24h.Sells)
	}
	fmt.Println(formatting.Separator(80))
	fmt.Println(text)
	fmt.Println(formatting.Separator(80))
}
