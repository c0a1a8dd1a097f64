package signals

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazecat/dexsignals/Internal/types"
)

// snapshot returns an old, liquid, quiet pair that matches no rule, then
// applies overrides.
func snapshot(overrides func(s *types.PairSnapshot)) *types.PairSnapshot {
	s := &types.PairSnapshot{
		PairID:       "0xpair",
		ChainID:      "base",
		TokenName:    "Test Token",
		TokenSymbol:  "TEST",
		TokenAddress: "0xtoken",
		PriceDisplay: "$1.000",
		LiquidityUsd: 20000,
		Volume24h:    5000,
		BuyRatio:     0.5,
		AgeHours:     math.Inf(1),
	}
	if overrides != nil {
		overrides(s)
	}
	return s
}

func withTxns(s *types.PairSnapshot, buys, sells int64) {
	s.Buys24h = buys
	s.Sells24h = sells
	s.TotalTxns24h = buys + sells
	s.BuyRatio = 0.5
	if s.TotalTxns24h > 0 {
		s.BuyRatio = float64(buys) / float64(s.TotalTxns24h)
	}
}

func TestEngine_Evaluate(t *testing.T) {
	tests := []struct {
		name         string
		snap         *types.PairSnapshot
		wantSignal   bool
		wantKind     types.SignalKind
		wantStrength int
		wantRule     string
	}{
		{
			name: "new pair with deep liquidity and volume",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.LiquidityUsd = 60000
				s.Volume24h = 80000
				s.AgeHours = 3
			}),
			wantSignal:   true,
			wantKind:     types.SignalNew,
			wantStrength: 95,
			wantRule:     "new-pair",
		},
		{
			name: "new pair with mid liquidity",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.LiquidityUsd = 15000
				s.Volume24h = 2000
				s.AgeHours = 1
			}),
			wantSignal:   true,
			wantKind:     types.SignalNew,
			wantStrength: 80,
			wantRule:     "new-pair",
		},
		{
			name: "buy momentum",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 60, 40)
				s.Change1h = 10
				s.Volume1h = 6000
				s.Volume24h = 150000
				s.LiquidityUsd = 60000
			}),
			wantSignal:   true,
			wantKind:     types.SignalBuy,
			wantStrength: 65,
			wantRule:     "buy-momentum",
		},
		{
			name: "buy momentum capped at 95",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 80, 20)
				s.Change1h = 45
				s.Volume1h = 60000
				s.Volume24h = 500000
				s.LiquidityUsd = 100000
			}),
			wantSignal:   true,
			wantKind:     types.SignalBuy,
			wantStrength: 95,
			wantRule:     "buy-momentum",
		},
		{
			name: "buy accumulation",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 70, 30)
				s.Change1h = 2
				s.Change6h = 8
				s.Change24h = 20
				s.Volume24h = 30000
			}),
			wantSignal:   true,
			wantKind:     types.SignalBuy,
			wantStrength: 70,
			wantRule:     "buy-accumulation",
		},
		{
			name: "buy volume spike",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.Change1h = 5
				s.Volume1h = 12000
				s.Volume6h = 20000
				s.Volume24h = 40000
			}),
			wantSignal:   true,
			wantKind:     types.SignalBuy,
			wantStrength: 55,
			wantRule:     "buy-volume-spike",
		},
		{
			name: "sell reversal with sell pressure",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 40, 60)
				s.Change1h = -12
				s.Change24h = -5
				s.Volume1h = 6000
			}),
			wantSignal:   true,
			wantKind:     types.SignalSell,
			wantStrength: 62,
			wantRule:     "sell-reversal",
		},
		{
			name: "sell sustained bleed",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.Change1h = -2
				s.Change6h = -15
				s.Change24h = -30
				s.Volume24h = 20000
			}),
			wantSignal:   true,
			wantKind:     types.SignalSell,
			wantStrength: 60,
			wantRule:     "sell-sustained-bleed",
		},
		{
			name: "risk volume over liquidity",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.LiquidityUsd = 4000
				s.Volume24h = 20000
			}),
			wantSignal:   true,
			wantKind:     types.SignalRisk,
			wantStrength: 75,
			wantRule:     "risk-volume-over-liquidity",
		},
		{
			name: "risk volume over liquidity capped at 90",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.LiquidityUsd = 1000
				s.Volume24h = 500000
			}),
			wantSignal:   true,
			wantKind:     types.SignalRisk,
			wantStrength: 90,
			wantRule:     "risk-volume-over-liquidity",
		},
		{
			name: "risk dump pattern capped at 85",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 10, 30)
				s.Change24h = -30
			}),
			wantSignal:   true,
			wantKind:     types.SignalRisk,
			wantStrength: 85,
			wantRule:     "risk-dump-pattern",
		},
		{
			name: "risk beats buy momentum",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 60, 40)
				s.LiquidityUsd = 4000
				s.Volume24h = 20000
				s.Change1h = 10
				s.Volume1h = 6000
			}),
			wantSignal:   true,
			wantKind:     types.SignalRisk,
			wantStrength: 75,
			wantRule:     "risk-volume-over-liquidity",
		},
		{
			name: "new beats risk",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.LiquidityUsd = 3000
				s.Volume24h = 30000
				s.AgeHours = 2
			}),
			wantSignal:   true,
			wantKind:     types.SignalNew,
			wantStrength: 70,
			wantRule:     "new-pair",
		},
		{
			name: "dust pair is excluded regardless of metrics",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 5, 50)
				s.LiquidityUsd = 400
				s.Volume24h = 500
				s.Change1h = -40
				s.Change24h = -80
				s.Volume1h = 9000
				s.AgeHours = 1
			}),
			wantSignal: false,
		},
		{
			name: "USDT is excluded",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.TokenSymbol = "USDT"
				s.LiquidityUsd = 60000
				s.Volume24h = 80000
				s.AgeHours = 3
			}),
			wantSignal: false,
		},
		{
			name: "deny-list is case-insensitive",
			snap: snapshot(func(s *types.PairSnapshot) {
				s.TokenSymbol = "usdbc"
				s.LiquidityUsd = 60000
				s.Volume24h = 80000
				s.AgeHours = 3
			}),
			wantSignal: false,
		},
		{
			name: "low liquidity skips buy and sell rules",
			snap: snapshot(func(s *types.PairSnapshot) {
				withTxns(s, 60, 40)
				s.LiquidityUsd = 800
				s.Volume24h = 2000
				s.Change1h = 20
				s.Volume1h = 6000
			}),
			wantSignal: false,
		},
		{
			name:       "quiet pair yields nothing",
			snap:       snapshot(nil),
			wantSignal: false,
		},
	}

	engine := NewEngine(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := engine.Evaluate(tt.snap)
			require.Equal(t, tt.wantSignal, ok)
			if !tt.wantSignal {
				return
			}
			assert.Equal(t, tt.wantKind, sig.Kind)
			assert.Equal(t, tt.wantStrength, sig.Strength)
			assert.Equal(t, tt.wantRule, sig.Rule)
			assert.Equal(t, tt.snap.PairID, sig.PairID)
			assert.Equal(t, tt.snap.TokenAddress, sig.TokenAddress)
			assert.NotEmpty(t, sig.Reason)
		})
	}
}

func TestEngine_ReasonEmbedsTriggeringMetrics(t *testing.T) {
	engine := NewEngine(nil)

	sig, ok := engine.Evaluate(snapshot(func(s *types.PairSnapshot) {
		s.LiquidityUsd = 60000
		s.Volume24h = 80000
		s.AgeHours = 3
		s.TotalTxns24h = 420
	}))
	require.True(t, ok)
	assert.Contains(t, sig.Reason, "3.0h old")
	assert.Contains(t, sig.Reason, "Liq $60.0K")
	assert.Contains(t, sig.Reason, "Vol $80K")
	assert.Contains(t, sig.Reason, "420 txns")

	sig, ok = engine.Evaluate(snapshot(func(s *types.PairSnapshot) {
		withTxns(s, 10, 30)
		s.Change24h = -30
	}))
	require.True(t, ok)
	assert.Contains(t, sig.Reason, "30 sells vs 10 buys")
	assert.Contains(t, sig.Reason, "-30.0% 24h")
}

func TestDefaultRules_PriorityOrder(t *testing.T) {
	var names []string
	for _, r := range DefaultRules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"exclude-dust-or-stable",
		"new-pair",
		"risk-volume-over-liquidity",
		"risk-dump-pattern",
		"skip-low-liquidity",
		"buy-momentum",
		"buy-accumulation",
		"buy-volume-spike",
		"sell-reversal",
		"sell-sustained-bleed",
	}, names)
}

func TestEngine_StrengthAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	engine := NewEngine(nil)

	for i := 0; i < 5000; i++ {
		s := snapshot(func(s *types.PairSnapshot) {
			withTxns(s, rng.Int63n(500), rng.Int63n(500))
			s.LiquidityUsd = rng.Float64() * 200000
			s.Volume1h = rng.Float64() * 100000
			s.Volume6h = rng.Float64() * 300000
			s.Volume24h = rng.Float64() * 1000000
			s.Change1h = rng.Float64()*200 - 100
			s.Change6h = rng.Float64()*200 - 100
			s.Change24h = rng.Float64()*400 - 100
			if rng.Intn(2) == 0 {
				s.AgeHours = rng.Float64() * 48
			}
		})

		sig, ok := engine.Evaluate(s)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, sig.Strength, 0)
		assert.LessOrEqual(t, sig.Strength, 100)
	}
}

func TestEngine_EvaluateAll_AtMostOnePerSnapshot(t *testing.T) {
	snaps := []*types.PairSnapshot{
		snapshot(func(s *types.PairSnapshot) { s.PairID = "a"; s.AgeHours = 1; s.LiquidityUsd = 5000 }),
		snapshot(func(s *types.PairSnapshot) { s.PairID = "b" }),
		snapshot(func(s *types.PairSnapshot) { s.PairID = "c"; s.LiquidityUsd = 4000; s.Volume24h = 20000 }),
		nil,
	}

	out := NewEngine(nil).EvaluateAll(snaps)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].PairID)
	assert.Equal(t, "c", out[1].PairID)
}

func TestStrength_RoundsHalfUpAndClamps(t *testing.T) {
	assert.Equal(t, 71, strength(70.5, 95))
	assert.Equal(t, 70, strength(70.49, 95))
	assert.Equal(t, 95, strength(120, 95))
	assert.Equal(t, 100, strength(130, 0))
	assert.Equal(t, 0, strength(-5, 90))
	assert.Equal(t, 0, strength(math.NaN(), 90))
}
