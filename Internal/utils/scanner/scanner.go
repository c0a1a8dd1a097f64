package scanner

import (
	"context"
	"log"
	"time"

	"github.com/fazecat/dexsignals/Internal/cache"
	"github.com/fazecat/dexsignals/Internal/datafeed"
	"github.com/fazecat/dexsignals/Internal/strategy/signals"
	"github.com/fazecat/dexsignals/Internal/types"
	"github.com/fazecat/dexsignals/Internal/utils/config"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	SourceTrending = "trending"
	SourceBoosted  = "boosted"
)

type Options struct {
	ChainID          string
	MaxSignals       int
	QuoteTokens      []config.QuoteToken
	TrendingLimit    int
	BoostedLimit     int
	AddressChunkSize int
	// CycleTimeout bounds one scan cycle; zero means no bound beyond the
	// per-call transport timeouts.
	CycleTimeout time.Duration
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ChainID:          cfg.Global.ChainID,
		MaxSignals:       cfg.Global.MaxSignals,
		QuoteTokens:      cfg.Sources.QuoteTokens,
		TrendingLimit:    cfg.Sources.TrendingLimit,
		BoostedLimit:     cfg.Sources.BoostedLimit,
		AddressChunkSize: cfg.Sources.AddressChunkSize,
		CycleTimeout:     2 * cfg.SourceTimeout(),
	}
}

// Scanner runs one evaluation cycle: fetch, filter, dedup, classify, rank,
// cache. Concurrent cache misses share a single cycle.
type Scanner struct {
	feed   datafeed.MarketData
	cache  cache.SnapshotCache
	engine *signals.Engine
	opts   Options
	now    func() time.Time
	group  singleflight.Group
}

func NewScanner(feed datafeed.MarketData, c cache.SnapshotCache, engine *signals.Engine, opts Options, now func() time.Time) *Scanner {
	if engine == nil {
		engine = signals.NewEngine(nil)
	}
	if now == nil {
		now = time.Now
	}
	if opts.MaxSignals <= 0 {
		opts.MaxSignals = signals.MaxSignals
	}
	if opts.AddressChunkSize <= 0 {
		opts.AddressChunkSize = 10
	}
	return &Scanner{feed: feed, cache: c, engine: engine, opts: opts, now: now}
}

type scanResult struct {
	entry  *cache.Entry
	cached bool
}

// Scan returns the cached snapshot when fresh, otherwise runs a cycle and
// stores its result. The boolean reports whether the entry came from cache.
// The cycle is shared by every concurrent caller and does not inherit any
// caller's cancellation; ctx only bounds how long this caller waits.
func (s *Scanner) Scan(ctx context.Context) (*cache.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if e, ok := s.cache.Get(ctx); ok {
		return e, true, nil
	}

	ch := s.group.DoChan("scan", func() (interface{}, error) {
		cycleCtx := context.WithoutCancel(ctx)
		if s.opts.CycleTimeout > 0 {
			var cancel context.CancelFunc
			cycleCtx, cancel = context.WithTimeout(cycleCtx, s.opts.CycleTimeout)
			defer cancel()
		}

		// another caller may have filled the slot while we waited
		if e, ok := s.cache.Get(cycleCtx); ok {
			return scanResult{entry: e, cached: true}, nil
		}
		e, err := s.refresh(cycleCtx)
		if err != nil {
			return nil, err
		}
		return scanResult{entry: e}, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		r := res.Val.(scanResult)
		return r.entry, r.cached, nil
	}
}

func (s *Scanner) refresh(ctx context.Context) (*cache.Entry, error) {
	start := time.Now()
	raw, sources := s.FetchAll(ctx)

	// a timed-out cycle degraded every source to empty; do not cache it
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pairs := signals.DedupPairs(signals.FilterChain(raw, s.opts.ChainID))
	snaps := signals.NormalizeAll(pairs, s.opts.ChainID, s.now())
	ranked := signals.Rank(s.engine.EvaluateAll(snaps), s.opts.MaxSignals)

	meta := types.ScanMeta{
		Count:        len(ranked),
		PairsScanned: len(pairs),
		Sources:      sources,
	}
	log.Printf("Scan completed: %d pairs scanned, %d signals (%s)", meta.PairsScanned, meta.Count, time.Since(start).Round(time.Millisecond))
	return s.cache.Put(ctx, ranked, meta), nil
}

// FetchAll queries every source concurrently and concatenates their pairs in
// source order. A failing source contributes nothing.
func (s *Scanner) FetchAll(ctx context.Context) ([]types.Pair, []string) {
	sources := make([]string, 0, len(s.opts.QuoteTokens)+2)
	for _, qt := range s.opts.QuoteTokens {
		sources = append(sources, qt.Name)
	}
	sources = append(sources, SourceTrending, SourceBoosted)

	results := make([][]types.Pair, len(sources))
	var g errgroup.Group
	for i, qt := range s.opts.QuoteTokens {
		i, qt := i, qt
		g.Go(func() error {
			results[i] = s.fetchPairs(ctx, qt.Name, []string{qt.Address})
			return nil
		})
	}
	trendingSlot := len(s.opts.QuoteTokens)
	g.Go(func() error {
		results[trendingSlot] = s.fetchListed(ctx, SourceTrending, s.feed.LatestProfiles, s.opts.TrendingLimit)
		return nil
	})
	g.Go(func() error {
		results[trendingSlot+1] = s.fetchListed(ctx, SourceBoosted, s.feed.TopBoosts, s.opts.BoostedLimit)
		return nil
	})
	_ = g.Wait()

	var all []types.Pair
	for _, r := range results {
		all = append(all, r...)
	}
	return all, sources
}

// TokenPairs returns the target-chain pairs of one token. Unlike the scan
// sources, errors are returned to the caller.
func (s *Scanner) TokenPairs(ctx context.Context, address string) ([]types.Pair, error) {
	pairs, err := s.feed.TokenPairs(ctx, []string{address})
	if err != nil {
		return nil, err
	}
	return signals.FilterChain(pairs, s.opts.ChainID), nil
}

func (s *Scanner) ChainID() string {
	return s.opts.ChainID
}

func (s *Scanner) fetchPairs(ctx context.Context, source string, addresses []string) []types.Pair {
	pairs, err := s.feed.TokenPairs(ctx, addresses)
	if err != nil {
		log.Printf("Warning: source %s unavailable: %v", source, err)
		return nil
	}
	return pairs
}

type listingFunc func(ctx context.Context) ([]types.TokenListing, error)

// fetchListed resolves a token listing into pairs: keep the first limit
// target-chain entries, then look their addresses up in chunks.
func (s *Scanner) fetchListed(ctx context.Context, source string, list listingFunc, limit int) []types.Pair {
	listings, err := list(ctx)
	if err != nil {
		log.Printf("Warning: source %s unavailable: %v", source, err)
		return nil
	}

	addrs := ListingAddresses(listings, s.opts.ChainID, limit)
	chunks := Chunk(addrs, s.opts.AddressChunkSize)
	if len(chunks) == 0 {
		return nil
	}

	results := make([][]types.Pair, len(chunks))
	var g errgroup.Group
	for i, c := range chunks {
		i, c := i, c
		g.Go(func() error {
			results[i] = s.fetchPairs(ctx, source, c)
			return nil
		})
	}
	_ = g.Wait()

	var out []types.Pair
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// ListingAddresses takes the first limit listings on chainID and returns
// their non-empty token addresses.
func ListingAddresses(listings []types.TokenListing, chainID string, limit int) []string {
	var onChain []types.TokenListing
	for _, l := range listings {
		if l.ChainID == chainID {
			onChain = append(onChain, l)
		}
	}
	if limit > 0 && len(onChain) > limit {
		onChain = onChain[:limit]
	}

	addrs := make([]string, 0, len(onChain))
	for _, l := range onChain {
		if l.TokenAddress != "" {
			addrs = append(addrs, l.TokenAddress)
		}
	}
	return addrs
}

func Chunk(items []string, size int) [][]string {
	if size <= 0 {
		size = len(items)
	}
	var chunks [][]string
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
