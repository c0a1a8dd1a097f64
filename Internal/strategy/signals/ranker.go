package signals

import (
	"sort"
	"strings"

	"github.com/fazecat/dexsignals/Internal/types"
)

// MaxSignals caps the ranked output.
const MaxSignals = 50

// Rank keeps one signal per token address (case-insensitive), replacing an
// earlier entry only when a later one is strictly stronger, then sorts by
// strength descending and truncates to limit. Ties keep first-seen order,
// so ranking its own output is a no-op.
func Rank(signals []types.Signal, limit int) []types.Signal {
	if limit <= 0 {
		limit = MaxSignals
	}

	index := make(map[string]int, len(signals))
	best := make([]types.Signal, 0, len(signals))
	for _, s := range signals {
		key := strings.ToLower(s.TokenAddress)
		if i, ok := index[key]; ok {
			if s.Strength > best[i].Strength {
				best[i] = s
			}
			continue
		}
		index[key] = len(best)
		best = append(best, s)
	}

	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Strength > best[j].Strength
	})

	if len(best) > limit {
		best = best[:limit]
	}
	return best
}
