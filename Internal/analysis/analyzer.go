package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fazecat/dexsignals/Internal/types"
)

const (
	UnavailableMessage = "AI analysis unavailable — GROQ_API_KEY not configured."
	FailedMessage      = "Analysis failed"
)

// TokenSummary is the per-token view handed to the model and returned to
// the caller.
type TokenSummary struct {
	Name      string          `json:"name"`
	Symbol    string          `json:"symbol"`
	Price     string          `json:"price,omitempty"`
	Change1h  float64         `json:"change1h"`
	Change24h float64         `json:"change24h"`
	Volume24h float64         `json:"volume24h"`
	Liquidity float64         `json:"liquidity"`
	PairAge   string          `json:"pairAge"`
	Txns24h   *types.TxnCount `json:"txns24h"`
}

// Summarize builds the summary from the top pair of a token.
func Summarize(p types.Pair, now time.Time) TokenSummary {
	s := TokenSummary{
		Name:    p.BaseToken.Name,
		Symbol:  p.BaseToken.Symbol,
		Price:   p.PriceUsd,
		PairAge: "unknown",
	}
	if p.PriceChange != nil {
		s.Change1h = p.PriceChange.H1
		s.Change24h = p.PriceChange.H24
	}
	if p.Volume != nil {
		s.Volume24h = p.Volume.H24
	}
	if p.Liquidity != nil {
		s.Liquidity = p.Liquidity.Usd
	}
	if p.PairCreatedAt > 0 {
		hours := float64(now.UnixMilli()-p.PairCreatedAt) / 3_600_000
		s.PairAge = fmt.Sprintf("%.1fh", hours)
	}
	if p.Txns != nil {
		txns := p.Txns.H24
		s.Txns24h = &txns
	}
	return s
}

// Analyzer turns a token summary into free-form analysis text. It never
// fails: a missing key or a failed completion degrade to fixed messages.
type Analyzer struct {
	completer    Completer
	systemPrompt string
	chainLabel   string
}

func NewAnalyzer(completer Completer, systemPrompt, chainLabel string) *Analyzer {
	if chainLabel == "" {
		chainLabel = "Base"
	}
	return &Analyzer{completer: completer, systemPrompt: systemPrompt, chainLabel: chainLabel}
}

func (a *Analyzer) Analyze(ctx context.Context, summary TokenSummary) string {
	if a.completer == nil {
		return UnavailableMessage
	}

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Printf("Error encoding token summary: %v", err)
		return FailedMessage
	}
	user := fmt.Sprintf("Analyze this %s chain token:\n%s", a.chainLabel, payload)

	text, err := a.completer.Complete(ctx, a.systemPrompt, user)
	if errors.Is(err, ErrNotConfigured) {
		return UnavailableMessage
	}
	if err != nil {
		log.Printf("Warning: analysis for %s failed: %v", summary.Symbol, err)
		return FailedMessage
	}
	return text
}
