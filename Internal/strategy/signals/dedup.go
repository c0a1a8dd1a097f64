package signals

import (
	"strings"

	"github.com/fazecat/dexsignals/Internal/types"
)

// DedupPairs keeps the first record seen for every pair address
// (case-insensitive). Records without a pair address cannot be keyed and are
// dropped.
func DedupPairs(pairs []types.Pair) []types.Pair {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]types.Pair, 0, len(pairs))
	for _, p := range pairs {
		key := strings.ToLower(p.PairAddress)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
