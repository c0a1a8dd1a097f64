package types

// Pair is a raw trading-pair record as returned by DexScreener.
// Optional numeric blocks are pointers so an absent block can be told apart
// from a zero value; the normalizer turns them into plain defaults.
type Pair struct {
	ChainID       string     `json:"chainId"`
	DexID         string     `json:"dexId"`
	URL           string     `json:"url"`
	PairAddress   string     `json:"pairAddress"`
	BaseToken     Token      `json:"baseToken"`
	QuoteToken    Token      `json:"quoteToken"`
	PriceNative   string     `json:"priceNative"`
	PriceUsd      string     `json:"priceUsd"`
	Txns          *PairTxns  `json:"txns"`
	Volume        *Windowed  `json:"volume"`
	PriceChange   *Windowed  `json:"priceChange"`
	Liquidity     *Liquidity `json:"liquidity"`
	Fdv           float64    `json:"fdv"`
	MarketCap     float64    `json:"marketCap"`
	PairCreatedAt int64      `json:"pairCreatedAt"` // epoch ms, 0 when unknown
}

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

type Liquidity struct {
	Usd   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

type PairTxns struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

type TxnCount struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

// Windowed holds a metric over the m5/h1/h6/h24 windows (volume, price change).
type Windowed struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// TokenListing is an entry of the token-profiles and token-boosts listings.
type TokenListing struct {
	URL          string  `json:"url"`
	ChainID      string  `json:"chainId"`
	TokenAddress string  `json:"tokenAddress"`
	Description  string  `json:"description,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
	TotalAmount  float64 `json:"totalAmount,omitempty"`
}

// PairSnapshot is the canonical, fully defaulted view of a Pair.
type PairSnapshot struct {
	PairID       string
	ChainID      string
	TokenName    string
	TokenSymbol  string
	TokenAddress string
	PriceUsd     string // raw provider value, empty when absent
	PriceDisplay string // "$" + 4 significant digits, or "N/A"

	Change1h  float64
	Change6h  float64
	Change24h float64

	Volume1h  float64
	Volume6h  float64
	Volume24h float64

	LiquidityUsd      float64
	FullyDilutedValue float64

	Buys24h  int64
	Sells24h int64

	CreatedAtEpochMs int64 // 0 when unknown

	// derived
	TotalTxns24h int64
	BuyRatio     float64
	AgeHours     float64 // +Inf when CreatedAtEpochMs is unknown
}

type SignalKind string

const (
	SignalNew  SignalKind = "NEW"
	SignalBuy  SignalKind = "BUY"
	SignalSell SignalKind = "SELL"
	SignalRisk SignalKind = "RISK"
)

// Signal is one classified pair. Field names follow the dashboard contract.
type Signal struct {
	Kind              SignalKind `json:"type"`
	Strength          int        `json:"strength"`
	TokenName         string     `json:"token"`
	TokenSymbol       string     `json:"symbol"`
	TokenAddress      string     `json:"address"`
	PriceDisplay      string     `json:"price"`
	Change1h          float64    `json:"change1h"`
	Change24h         float64    `json:"change24h"`
	Volume24h         float64    `json:"volume24h"`
	PairID            string     `json:"pairAddress"`
	ChainID           string     `json:"chainId"`
	LiquidityUsd      float64    `json:"liquidity"`
	FullyDilutedValue float64    `json:"fdv"`
	Reason            string     `json:"reason"`
	Rule              string     `json:"rule,omitempty"`
}

// ScanMeta describes the cycle that produced a signal list.
type ScanMeta struct {
	Count        int      `json:"count"`
	PairsScanned int      `json:"pairsScanned"`
	Sources      []string `json:"sources"`
}
