package signals

import (
	"math"
	"strings"
	"time"

	"github.com/fazecat/dexsignals/Internal/types"
	"github.com/fazecat/dexsignals/Internal/utils/formatting"
)

const msPerHour = 3_600_000

// Normalize converts a raw pair into a PairSnapshot. It returns nil when the
// pair does not belong to chainID. Absent fields take their zero defaults,
// an unknown creation time makes the pair infinitely old.
func Normalize(p types.Pair, chainID string, now time.Time) *types.PairSnapshot {
	if p.ChainID == "" || p.ChainID != chainID {
		return nil
	}

	snap := &types.PairSnapshot{
		PairID:            p.PairAddress,
		ChainID:           p.ChainID,
		TokenName:         orDefault(p.BaseToken.Name, "Unknown"),
		TokenSymbol:       orDefault(p.BaseToken.Symbol, "???"),
		TokenAddress:      p.BaseToken.Address,
		PriceUsd:          p.PriceUsd,
		PriceDisplay:      formatting.FormatPrice(p.PriceUsd),
		FullyDilutedValue: p.Fdv,
		CreatedAtEpochMs:  p.PairCreatedAt,
	}

	if p.PriceChange != nil {
		snap.Change1h = p.PriceChange.H1
		snap.Change6h = p.PriceChange.H6
		snap.Change24h = p.PriceChange.H24
	}
	if p.Volume != nil {
		snap.Volume1h = p.Volume.H1
		snap.Volume6h = p.Volume.H6
		snap.Volume24h = p.Volume.H24
	}
	if p.Liquidity != nil {
		snap.LiquidityUsd = p.Liquidity.Usd
	}
	if p.Txns != nil {
		snap.Buys24h = nonNegative(p.Txns.H24.Buys)
		snap.Sells24h = nonNegative(p.Txns.H24.Sells)
	}

	snap.TotalTxns24h = snap.Buys24h + snap.Sells24h
	snap.BuyRatio = 0.5
	if snap.TotalTxns24h > 0 {
		snap.BuyRatio = float64(snap.Buys24h) / float64(snap.TotalTxns24h)
	}

	snap.AgeHours = math.Inf(1)
	if snap.CreatedAtEpochMs > 0 {
		snap.AgeHours = float64(now.UnixMilli()-snap.CreatedAtEpochMs) / msPerHour
	}

	return snap
}

// NormalizeAll normalizes pairs, dropping those outside chainID.
func NormalizeAll(pairs []types.Pair, chainID string, now time.Time) []*types.PairSnapshot {
	snaps := make([]*types.PairSnapshot, 0, len(pairs))
	for _, p := range pairs {
		if snap := Normalize(p, chainID, now); snap != nil {
			snaps = append(snaps, snap)
		}
	}
	return snaps
}

// FilterChain keeps the raw pairs that belong to chainID, in order.
func FilterChain(pairs []types.Pair, chainID string) []types.Pair {
	out := make([]types.Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.ChainID == chainID {
			out = append(out, p)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
