package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/collector"
	"SignalDesk/internal/model"
	"SignalDesk/internal/service"
	"SignalDesk/internal/strategy"
)

type analyzeRequest struct {
	Symbol   string `json:"symbol"`
	Decision string `json:"decision"`
}

type scoreRequest struct {
	Decision   string                 `json:"decision"`
	Indicators service.IndicatorInput `json:"indicators"`
}

type debugInfo struct {
	DataSource string `json:"data_source"`
	Rows       int    `json:"rows"`
	LastDate   string `json:"last_date"`
}

type signalResponse struct {
	Recommendation  model.Recommendation `json:"recommendation"`
	ConvictionScore int                  `json:"conviction_score"`
	RawScore        float64              `json:"raw_score"`
	StrengthPct     int                  `json:"strength_pct"`
	Strength        string               `json:"strength"`
	Level           model.Level          `json:"level"`
	Color           string               `json:"color"`
	Reason          string               `json:"reason"`
	Reasons         []string             `json:"reasons"`
	Components      map[string]float64   `json:"components"`
	Thresholds      model.Thresholds     `json:"thresholds"`
	Weights         model.Weights        `json:"weights"`
}

type analyzeResponse struct {
	Symbol            string `json:"symbol"`
	DecisionRequested string `json:"decision_requested"`
	signalResponse
	Indicators model.IndicatorSnapshot `json:"indicators"`
	Debug      debugInfo               `json:"debug"`
}

type configResponse struct {
	Scoring    strategy.ScoringConfig `json:"scoring"`
	Profile    string                 `json:"profile"`
	Indicators calculator.Params      `json:"indicators"`
	Days       int                    `json:"days"`
}

func newSignalResponse(sig model.SignalResult) signalResponse {
	return signalResponse{
		Recommendation:  sig.Recommendation,
		ConvictionScore: sig.Score,
		RawScore:        sig.RawScore,
		StrengthPct:     sig.StrengthPct,
		Strength:        sig.Strength,
		Level:           sig.Level,
		Color:           sig.Color,
		Reason:          strings.Join(sig.Reasons, " / "),
		Reasons:         sig.Reasons,
		Components:      sig.Components,
		Thresholds:      sig.Thresholds,
		Weights:         sig.Weights,
	}
}

func newAnalyzeResponse(a *model.Analysis) analyzeResponse {
	return analyzeResponse{
		Symbol:            a.Symbol,
		DecisionRequested: a.DecisionRequested,
		signalResponse:    newSignalResponse(a.Signal),
		Indicators:        a.Indicators,
		Debug:             debugInfo{DataSource: a.Source, Rows: a.Rows, LastDate: a.LastDate},
	}
}

func (s *Server) handleAnalyzePost(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	s.analyze(w, r, req)
}

func (s *Server) handleAnalyzeGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.analyze(w, r, analyzeRequest{Symbol: q.Get("symbol"), Decision: q.Get("decision")})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request, req analyzeRequest) {
	if strings.TrimSpace(req.Symbol) == "" {
		writeError(w, http.StatusBadRequest, "symbol required")
		return
	}
	ctx := r.Context()
	if s.analyzeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.analyzeTimeout)
		defer cancel()
	}
	a, err := s.analyzer.Analyze(ctx, req.Symbol, req.Decision)
	if err != nil {
		writeAnalyzeError(w, req.Symbol, err)
		return
	}
	writeJSON(w, http.StatusOK, newAnalyzeResponse(a))
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	sig, err := s.analyzer.Score(req.Indicators, req.Decision)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newSignalResponse(sig))
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := s.analyzer.Config()
	writeJSON(w, http.StatusOK, configResponse{
		Scoring:    cfg.Scoring,
		Profile:    cfg.Indicators.Profile,
		Indicators: cfg.IndicatorParams(),
		Days:       cfg.Indicators.Days,
	})
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrInvalidSymbol), errors.Is(err, service.ErrInvalidDecision):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeAnalyzeError(w http.ResponseWriter, symbol string, err error) {
	code := statusFor(err)
	if code >= 500 {
		log.Printf("[ERROR] analyze %s: %v", symbol, err)
	} else {
		log.Printf("[WARN] analyze %s: %v", symbol, err)
	}
	msg := err.Error()
	switch code {
	case http.StatusNotFound:
		msg = "no data from any provider for " + symbol
	case http.StatusTooManyRequests:
		msg = "market data provider rate limit reached, retry later"
	case http.StatusBadGateway:
		msg = "market data providers unavailable"
	case http.StatusGatewayTimeout:
		msg = "analysis timed out waiting for market data"
	}
	writeJSON(w, code, map[string]string{"error": msg, "symbol": symbol})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
