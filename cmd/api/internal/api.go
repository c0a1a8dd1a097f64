package internal

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/fazecat/dexsignals/Internal/analysis"
	"github.com/fazecat/dexsignals/Internal/types"
	"github.com/fazecat/dexsignals/Internal/utils/scanner"
)

type API struct {
	Scanner         *scanner.Scanner
	Analyzer        *analysis.Analyzer
	FreeSignalLimit int
	ChainLabel      string
	Now             func() time.Time
}

type SignalsResponse struct {
	Signals      []types.Signal `json:"signals"`
	Cached       bool           `json:"cached"`
	Count        int            `json:"count"`
	PairsScanned int            `json:"pairsScanned"`
	Sources      []string       `json:"sources"`
	Pro          bool           `json:"pro"`
	Hidden       int            `json:"hidden"`
}

type AnalyzeRequest struct {
	Address string `json:"address"`
}

type AnalyzeResponse struct {
	Token    analysis.TokenSummary `json:"token"`
	Analysis string                `json:"analysis"`
	Pairs    int                   `json:"pairs"`
}

func (api *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    "healthy",
	})
}

func (api *API) HandleGetSignals(w http.ResponseWriter, r *http.Request) {
	entry, cached, err := api.Scanner.Scan(r.Context())
	if err != nil {
		log.Printf("Error scanning pairs: %v", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":   err.Error(),
			"signals": []types.Signal{},
		})
		return
	}

	all := entry.Signals
	if all == nil {
		all = []types.Signal{}
	}

	pro := Privileged(r)
	visible := all
	if !pro && api.FreeSignalLimit > 0 && len(visible) > api.FreeSignalLimit {
		visible = visible[:api.FreeSignalLimit]
	}

	sources := entry.Meta.Sources
	if sources == nil {
		sources = []string{}
	}

	WriteJSON(w, http.StatusOK, SignalsResponse{
		Signals:      visible,
		Cached:       cached,
		Count:        entry.Meta.Count,
		PairsScanned: entry.Meta.PairsScanned,
		Sources:      sources,
		Pro:          pro,
		Hidden:       len(all) - len(visible),
	})
}

func (api *API) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Address) == "" {
		WriteError(w, http.StatusBadRequest, "address required")
		return
	}
	address := strings.TrimSpace(req.Address)

	pairs, err := api.Scanner.TokenPairs(r.Context(), address)
	if err != nil {
		log.Printf("Error fetching pairs for %s: %v", address, err)
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if len(pairs) == 0 {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"error":    fmt.Sprintf("No %s chain pairs found", api.chainLabel()),
			"analysis": nil,
		})
		return
	}

	summary := analysis.Summarize(pairs[0], api.now())
	text := api.Analyzer.Analyze(r.Context(), summary)

	WriteJSON(w, http.StatusOK, AnalyzeResponse{
		Token:    summary,
		Analysis: text,
		Pairs:    len(pairs),
	})
}

func (api *API) chainLabel() string {
	if api.ChainLabel == "" {
		return "Base"
	}
	return api.ChainLabel
}

func (api *API) now() time.Time {
	if api.Now != nil {
		return api.Now()
	}
	return time.Now()
}
