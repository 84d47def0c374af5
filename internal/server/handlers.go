package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"tradeview/internal/collector"
	"tradeview/internal/export"
	"tradeview/internal/indicator"
	"tradeview/internal/model"
	"tradeview/internal/service"
)

const defaultForecastHorizon = 30

// Handler serves the dashboard API.
type Handler struct {
	svc    *service.Service
	logger zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(svc *service.Service, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With().Str("component", "http").Logger()}
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, indicator.ErrInvalidParameter), errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, collector.ErrSymbolNotFound), errors.Is(err, collector.ErrNoData):
		status = http.StatusNotFound
	default:
		status = http.StatusBadGateway
	}
	if status == http.StatusBadGateway {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("upstream failure")
	}
	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

func symbolParam(r *http.Request) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	if sym == "" {
		return "", fmt.Errorf("%w: symbol is required", model.ErrInvalidInput)
	}
	return sym, nil
}

func timeframeParam(r *http.Request) (model.Timeframe, error) {
	tf, err := model.ParseTimeframe(r.URL.Query().Get("range"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", indicator.ErrInvalidParameter, err)
	}
	return tf, nil
}

// Chart handles GET /api/chart/{symbol}?range=1Y.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	sym, err := symbolParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	tf, err := timeframeParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	data, err := h.svc.Snapshot(r.Context(), sym, tf)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	render.JSON(w, r, toChartResponse(data))
}

// Compare handles GET /api/compare/{symbol}?against=SPY&range=1Y.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	sym, err := symbolParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	bench := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("against")))
	if bench == "" {
		h.writeErr(w, r, fmt.Errorf("%w: query parameter 'against' is required", indicator.ErrInvalidParameter))
		return
	}
	tf, err := timeframeParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	cmp, err := h.svc.Compare(r.Context(), sym, bench, tf)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	render.JSON(w, r, &compareResponse{
		Symbol:      cmp.Symbol,
		Benchmark:   cmp.Benchmark,
		Timeframe:   string(cmp.Timeframe),
		Times:       cmp.Times,
		SymbolPct:   cmp.SymbolPct,
		BenchPct:    cmp.BenchPct,
		Correlation: cmp.Correlation,
	})
}

// Forecast handles GET /api/forecast/{symbol}?range=1Y&horizon=30.
func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	sym, err := symbolParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	tf, err := timeframeParam(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	horizon := defaultForecastHorizon
	if v := r.URL.Query().Get("horizon"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeErr(w, r, fmt.Errorf("%w: horizon must be a positive integer", indicator.ErrInvalidParameter))
			return
		}
		horizon = n
	}

	fc, err := h.svc.Forecast(r.Context(), sym, tf, horizon)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	render.JSON(w, r, &forecastResponse{
		Symbol:    fc.Symbol,
		Timeframe: string(fc.Timeframe),
		Slope:     fc.Slope,
		Upward:    fc.Upward,
		Times:     fc.Times,
		Values:    fc.Values,
	})
}

// ExportCSV handles GET /api/export/{symbol}.csv?range=1Y.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	table, sym, err := h.exportTable(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sym+".csv"))
	if err := export.WriteCSV(w, table, export.CSVOptions{BOMPrefix: true}); err != nil {
		h.logger.Error().Err(err).Str("symbol", sym).Msg("csv export failed mid-stream")
	}
}

// ExportXLSX handles GET /api/export/{symbol}.xlsx?range=1Y.
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	table, sym, err := h.exportTable(r)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sym+".xlsx"))
	if err := export.WriteXLSX(w, sym, table); err != nil {
		h.logger.Error().Err(err).Str("symbol", sym).Msg("xlsx export failed mid-stream")
	}
}

func (h *Handler) exportTable(r *http.Request) (*export.Table, string, error) {
	sym, err := symbolParam(r)
	if err != nil {
		return nil, "", err
	}
	tf, err := timeframeParam(r)
	if err != nil {
		return nil, "", err
	}

	data, err := h.svc.Snapshot(r.Context(), sym, tf)
	if err != nil {
		return nil, "", err
	}
	table, err := export.BuildTable(data.Series, data.IndicatorSeriesList())
	if err != nil {
		return nil, "", err
	}
	return table, sym, nil
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
