package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/fazecat/dexsignals/Internal/types"
)

// Rule is one entry of the ordered classification table. A matching gate
// ends evaluation without a signal; any other matching rule produces the
// snapshot's only signal.
type Rule struct {
	Name   string
	Kind   types.SignalKind
	Gate   bool
	Cap    int
	Match  func(s *types.PairSnapshot) bool
	Score  func(s *types.PairSnapshot) float64
	Reason func(s *types.PairSnapshot) string
}

// DenyList holds stable and wrapped asset symbols that never produce signals.
var DenyList = []string{"USDC", "USDT", "DAI", "USDbC", "WETH", "CBETH", "WSTETH"}

func IsDenied(symbol string) bool {
	for _, d := range DenyList {
		if strings.EqualFold(d, symbol) {
			return true
		}
	}
	return false
}

// DefaultRules returns the classification table in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "exclude-dust-or-stable",
			Gate: true,
			Match: func(s *types.PairSnapshot) bool {
				return (s.LiquidityUsd < 500 && s.Volume24h < 1000) || IsDenied(s.TokenSymbol)
			},
		},
		{
			Name: "new-pair",
			Kind: types.SignalNew,
			Cap:  95,
			Match: func(s *types.PairSnapshot) bool {
				return s.AgeHours < 12 && s.LiquidityUsd > 2000
			},
			Score: func(s *types.PairSnapshot) float64 {
				liqBonus := 0.0
				if s.LiquidityUsd > 50000 {
					liqBonus = 15
				} else if s.LiquidityUsd > 10000 {
					liqBonus = 10
				}
				volBonus := 0.0
				if s.Volume24h > 50000 {
					volBonus = 10
				}
				return 70 + liqBonus + volBonus
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("New pair %.1fh old • Liq $%.1fK • Vol $%.0fK • %d txns",
					s.AgeHours, s.LiquidityUsd/1000, s.Volume24h/1000, s.TotalTxns24h)
			},
		},
		{
			Name: "risk-volume-over-liquidity",
			Kind: types.SignalRisk,
			Cap:  90,
			Match: func(s *types.PairSnapshot) bool {
				return s.LiquidityUsd < 5000 && s.Volume24h > 3*s.LiquidityUsd
			},
			Score: func(s *types.PairSnapshot) float64 {
				return 70 + math.Min(20, volumeToLiquidity(s))
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("Volume %.0fx liquidity, rug risk • Liq $%.0f",
					volumeToLiquidity(s), s.LiquidityUsd)
			},
		},
		{
			Name: "risk-dump-pattern",
			Kind: types.SignalRisk,
			Cap:  85,
			Match: func(s *types.PairSnapshot) bool {
				return s.Sells24h > 2*s.Buys24h && s.Change24h < -15
			},
			Score: func(s *types.PairSnapshot) float64 {
				return 60 + math.Abs(s.Change24h)
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("Dump pattern: %d sells vs %d buys • %.1f%% 24h",
					s.Sells24h, s.Buys24h, s.Change24h)
			},
		},
		{
			Name: "skip-low-liquidity",
			Gate: true,
			Match: func(s *types.PairSnapshot) bool {
				return s.LiquidityUsd < 1000
			},
		},
		{
			Name: "buy-momentum",
			Kind: types.SignalBuy,
			Cap:  95,
			Match: func(s *types.PairSnapshot) bool {
				return s.Change1h > 8 && s.Volume1h > 5000 && s.BuyRatio > 0.55
			},
			Score: func(s *types.PairSnapshot) float64 {
				volumeTier := 0.0
				if s.Volume24h > 100000 {
					volumeTier = 15
				} else if s.Volume24h > 30000 {
					volumeTier = 8
				}
				buyRatioBonus := 0.0
				if s.BuyRatio > 0.65 {
					buyRatioBonus = 10
				}
				liqBonus := 0.0
				if s.LiquidityUsd > 50000 {
					liqBonus = 5
				}
				return 35 + math.Min(30, s.Change1h) + volumeTier + buyRatioBonus + liqBonus
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("+%.1f%% 1h • Vol $%.0fK • %.0f%% buys • Liq $%.0fK",
					s.Change1h, s.Volume24h/1000, s.BuyRatio*100, s.LiquidityUsd/1000)
			},
		},
		{
			Name: "buy-accumulation",
			Kind: types.SignalBuy,
			Cap:  88,
			Match: func(s *types.PairSnapshot) bool {
				return s.Change6h > 5 && s.Change24h > 10 && s.BuyRatio > 0.6 && s.Volume24h > 20000
			},
			Score: func(s *types.PairSnapshot) float64 {
				return 40 + 0.5*s.Change24h + 100*(s.BuyRatio-0.5)
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("Accumulation: +%.1f%% 24h • %.0f%% buys • Vol $%.0fK",
					s.Change24h, s.BuyRatio*100, s.Volume24h/1000)
			},
		},
		{
			Name: "buy-volume-spike",
			Kind: types.SignalBuy,
			Cap:  82,
			Match: func(s *types.PairSnapshot) bool {
				return s.Volume1h > 0.5*s.Volume6h && s.Volume1h > 10000 && s.Change1h > 3
			},
			Score: func(s *types.PairSnapshot) float64 {
				bonus := 0.0
				if s.Volume1h > 50000 {
					bonus = 10
				}
				return 45 + math.Min(25, 2*s.Change1h) + bonus
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("Volume spike: $%.1fK last hour • +%.1f%% 1h",
					s.Volume1h/1000, s.Change1h)
			},
		},
		{
			Name: "sell-reversal",
			Kind: types.SignalSell,
			Cap:  90,
			Match: func(s *types.PairSnapshot) bool {
				return s.Change1h < -8 && s.Volume1h > 5000
			},
			Score: func(s *types.PairSnapshot) float64 {
				bonus := 0.0
				if s.Sells24h > s.Buys24h {
					bonus = 10
				}
				return 40 + math.Abs(s.Change1h) + bonus
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("%.1f%% 1h drop • 24h: %.1f%% • Vol $%.0fK",
					s.Change1h, s.Change24h, s.Volume24h/1000)
			},
		},
		{
			Name: "sell-sustained-bleed",
			Kind: types.SignalSell,
			Cap:  85,
			Match: func(s *types.PairSnapshot) bool {
				return s.Change24h < -20 && s.Change6h < -10 && s.Volume24h > 10000
			},
			Score: func(s *types.PairSnapshot) float64 {
				return 45 + 0.5*math.Abs(s.Change24h)
			},
			Reason: func(s *types.PairSnapshot) string {
				return fmt.Sprintf("Sustained bleed: %.1f%% 24h, %.1f%% 6h • Fading",
					s.Change24h, s.Change6h)
			},
		},
	}
}

func volumeToLiquidity(s *types.PairSnapshot) float64 {
	// zero liquidity only reaches here with volume >= 1000, i.e. +Inf
	return s.Volume24h / s.LiquidityUsd
}

// Engine evaluates snapshots against an ordered rule table.
type Engine struct {
	rules []Rule
}

func NewEngine(rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Engine{rules: rules}
}

func (e *Engine) Rules() []Rule {
	return e.rules
}

// Evaluate returns the signal of the first matching rule. The boolean is
// false when a gate matched or no rule matched.
func (e *Engine) Evaluate(s *types.PairSnapshot) (types.Signal, bool) {
	if s == nil {
		return types.Signal{}, false
	}
	for _, rule := range e.rules {
		if !rule.Match(s) {
			continue
		}
		if rule.Gate {
			return types.Signal{}, false
		}
		return buildSignal(rule, s), true
	}
	return types.Signal{}, false
}

// EvaluateAll returns at most one signal per snapshot, in snapshot order.
func (e *Engine) EvaluateAll(snaps []*types.PairSnapshot) []types.Signal {
	out := make([]types.Signal, 0, len(snaps))
	for _, s := range snaps {
		if sig, ok := e.Evaluate(s); ok {
			out = append(out, sig)
		}
	}
	return out
}

func buildSignal(rule Rule, s *types.PairSnapshot) types.Signal {
	reason := ""
	if rule.Reason != nil {
		reason = rule.Reason(s)
	}
	return types.Signal{
		Kind:              rule.Kind,
		Strength:          strength(rule.Score(s), rule.Cap),
		TokenName:         s.TokenName,
		TokenSymbol:       s.TokenSymbol,
		TokenAddress:      s.TokenAddress,
		PriceDisplay:      s.PriceDisplay,
		Change1h:          s.Change1h,
		Change24h:         s.Change24h,
		Volume24h:         s.Volume24h,
		PairID:            s.PairID,
		ChainID:           s.ChainID,
		LiquidityUsd:      s.LiquidityUsd,
		FullyDilutedValue: s.FullyDilutedValue,
		Reason:            reason,
		Rule:              rule.Name,
	}
}

// strength rounds half-up, applies the rule cap and clamps to [0,100].
func strength(raw float64, ruleCap int) int {
	if math.IsNaN(raw) {
		return 0
	}
	v := math.Floor(raw + 0.5)
	if ruleCap > 0 && v > float64(ruleCap) {
		v = float64(ruleCap)
	}
	if v > 100 {
		v = 100
	}
	if v < 0 {
		v = 0
	}
	return int(v)
}
