package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/donation-impact/internal/calculator"
	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/iwvelando/donation-impact/pkg/input"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed static/*
var staticFiles embed.FS

var pageTemplate = template.Must(template.ParseFS(staticFiles, "static/index.html.tmpl"))

// pageLanguages are the locales the page can declare; the first is the fallback.
var pageLanguages = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.MustParse("en-DK"),
}

var pageMatcher = language.NewMatcher(pageLanguages)

// Options tunes the handler. Zero values select defaults.
type Options struct {
	MaxRequestSize int64
	Version        string
	// Registry receives the handler's collectors; a private registry is
	// created when nil.
	Registry *prometheus.Registry
}

type handler struct {
	logger         *zap.Logger
	calc           *calculator.Calculator
	maxRequestSize int64
	version        string
	metrics        *metrics
}

type estimateRequest struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

type pageData struct {
	Lang       string
	State      calculator.State
	Result     calculator.Result
	Currencies []calculator.CurrencyInfo
	Version    string
}

// NewHandler constructs the HTTP handler that serves the calculator page and API.
func NewHandler(logger *zap.Logger, calc *calculator.Calculator, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if calc == nil {
		calc = calculator.Default()
	}

	maxRequestSize := opts.MaxRequestSize
	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	h := &handler{
		logger:         logger,
		calc:           calc,
		maxRequestSize: maxRequestSize,
		version:        trimmedVersion,
		metrics:        newMetrics(registry),
	}

	mux := http.NewServeMux()

	// Server-rendered calculator page
	mux.HandleFunc("/", h.handleIndex)

	// Estimate API used by the page on every keystroke
	mux.HandleFunc("/api/estimate", h.handleEstimate)

	// Currency table for UI metadata
	mux.HandleFunc("/api/currencies", h.handleCurrencies)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.HandleFunc("/healthz", h.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	// Static assets (styles and script)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(sub))))

	return h.withRequestContext(mux)
}

// withRequestContext assigns a request ID, echoes it in the response and
// records the request duration.
func (h *handler) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if requestID == "" {
			if id, err := uuid.NewV7(); err == nil {
				requestID = id.String()
			} else {
				requestID = uuid.NewString()
			}
		}
		w.Header().Set(constants.RequestIDHeader, requestID)

		next.ServeHTTP(w, r)

		elapsed := time.Since(start)
		route := routeLabel(r.URL.Path)
		h.metrics.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		h.logger.Debug("request served",
			zap.String("op", "server.request"),
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", elapsed),
		)
	})
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	state := calculator.InitialState()
	query := r.URL.Query()
	if code, err := currency.ParseCode(query.Get("currency")); err == nil {
		state = state.Select(code)
	}
	// A rejected amount keeps the initial state, like a rejected keystroke.
	if next, err := state.Edit(query.Get("amount")); err == nil {
		state = next
	}

	result, err := h.calc.Compute(state)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to compute estimate: %v", err), "server.handleIndex")
		return
	}
	h.metrics.observeEstimate(state.Currency, outcomeOK)

	data := pageData{
		Lang:       pageLanguage(r.Header.Get("Accept-Language")),
		State:      state,
		Result:     result,
		Currencies: h.calc.Currencies(),
		Version:    h.version,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("failed to render page",
			zap.String("op", "server.handleIndex"),
			zap.String("requestId", w.Header().Get(constants.RequestIDHeader)),
			zap.Error(err),
		)
	}
}

func (h *handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"

	var raw, code string
	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		raw = query.Get("amount")
		code = query.Get("currency")
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
		var req estimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
				return
			}
			h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
			return
		}
		code = req.Currency
		amount, err := decodeAmount(req.Amount)
		if err != nil {
			h.rejectInput(w, r, code, err, op)
			return
		}
		raw = amount
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	selected, err := currency.ParseCode(code)
	if err != nil {
		h.metrics.observeEstimate(currency.Code(strings.ToUpper(code)), outcomeError)
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	state, err := calculator.InitialState().Select(selected).Edit(raw)
	if err != nil {
		h.rejectInput(w, r, selected.String(), err, op)
		return
	}

	start := time.Now()
	result, err := h.calc.Compute(state)
	if err != nil {
		h.metrics.observeEstimate(selected, outcomeError)
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to compute estimate: %v", err), op)
		return
	}
	h.metrics.observeEstimate(selected, outcomeOK)

	h.logger.Debug("estimate computed",
		zap.String("op", op),
		zap.String("requestId", w.Header().Get(constants.RequestIDHeader)),
		zap.String("currency", selected.String()),
		zap.String("amount", result.Amount),
		zap.Float64("expectedLivesSaved", result.Estimate.ExpectedLivesSaved),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, result)
}

// pageLanguage picks the page's lang attribute from an Accept-Language header.
func pageLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return pageLanguages[0].String()
	}
	_, index, confidence := pageMatcher.Match(tags...)
	if confidence == language.No {
		return pageLanguages[0].String()
	}
	return pageLanguages[index].String()
}

// rejectInput reports an amount that failed validation. Rejections are
// routine while typing, so they are not logged as errors.
func (h *handler) rejectInput(w http.ResponseWriter, r *http.Request, code string, err error, op string) {
	h.metrics.observeEstimate(currency.Code(strings.ToUpper(code)), outcomeRejected)
	h.logger.Debug("input rejected",
		zap.String("op", op),
		zap.String("requestId", w.Header().Get(constants.RequestIDHeader)),
		zap.Error(err),
	)
	h.writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
}

// decodeAmount accepts the amount as a JSON string (raw user text), a JSON
// number, or null/absent (empty input).
func decodeAmount(data json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		return text, nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return "", fmt.Errorf("%w: amount must be a string or a number", input.ErrInvalidInput)
	}
	amount, err := input.FromFloat(value)
	if err != nil {
		return "", err
	}
	return amount.String(), nil
}

func (h *handler) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"reference":  currency.Reference,
		"default":    currency.Default,
		"currencies": h.calc.Currencies(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("requestId", w.Header().Get(constants.RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// routeLabel bounds metric cardinality to the registered routes.
func routeLabel(path string) string {
	switch {
	case path == "/":
		return "index"
	case strings.HasPrefix(path, "/static/"):
		return "static"
	case path == "/api/estimate", path == "/api/currencies", path == "/api/version",
		path == "/healthz", path == "/metrics":
		return strings.TrimPrefix(path, "/")
	}
	return "other"
}
