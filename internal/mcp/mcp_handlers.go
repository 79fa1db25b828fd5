package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pmcharts/pmc/core"
	"github.com/pmcharts/pmc/core/metric"
	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	opts    []pmc.Option

	mu     sync.Mutex // Guards engine, which is not safe for concurrent use
	engine *pmc.Engine
}

// valueResult is the payload of pmc_value.
type valueResult struct {
	Date  string       `json:"date"`
	Track schema.Track `json:"track"`
	Field schema.Field `json:"field"`
	Value float64      `json:"value"`
	Label string       `json:"label,omitempty"`
}

// summaryRow adds labels to a track summary.
type summaryRow struct {
	schema.TrackSummary
	Fitness string `json:"fitness"`
	Form    string `json:"form"`
	Ramp    string `json:"ramp"`
}

// withEngine runs fn while holding the engine lock, building the engine on first use.
func (h *toolHandler) withEngine(ctx context.Context, fn func(*pmc.Engine)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.engine == nil {
		engine, err := core.BuildEngine(ctx, h.baseCfg, h.mgr, h.opts...)
		if err != nil {
			return err
		}
		h.engine = engine
	}
	fn(h.engine)
	return nil
}

func (h *toolHandler) now() time.Time {
	return h.baseCfg.Clock()()
}

// parseDateArg parses an optional date argument, falling back to def when empty.
func (h *toolHandler) parseDateArg(request mcp.CallToolRequest, key string, def time.Time) (time.Time, error) {
	s := request.GetString(key, "")
	if s == "" {
		return def, nil
	}
	return contract.ParseDate(s, h.now())
}

func parseTrackArg(request mcp.CallToolRequest) (schema.Track, error) {
	track := schema.Track(request.GetString("track", string(schema.ActualTrack)))
	if _, ok := schema.ValidTracks[track]; !ok {
		return "", fmt.Errorf("invalid track '%s'", track)
	}
	return track, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetValue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	track, err := parseTrackArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field, err := contract.ParseField(request.GetString("field", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := h.parseDateArg(request, "date", pmc.Civil(h.now()))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
	}

	res := valueResult{Date: date.Format(schema.DateFormat), Track: track, Field: field}
	if err := h.withEngine(ctx, func(e *pmc.Engine) {
		res.Value = e.ValueAt(track, field, date)
	}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("engine setup failed: %v", err)), nil
	}
	if label := contract.GetPlainLabel(field, res.Value); label != contract.NeutralValue {
		res.Label = label
	}
	return jsonResult(res), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := h.parseDateArg(request, "date", pmc.Civil(h.now()))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
	}

	var result schema.SummaryResult
	if err := h.withEngine(ctx, func(e *pmc.Engine) {
		result = core.GetSummaryResult(e, h.baseCfg, date)
	}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("engine setup failed: %v", err)), nil
	}

	rows := make([]summaryRow, 0, len(result.Tracks))
	for _, t := range result.Tracks {
		rows = append(rows, summaryRow{
			TrackSummary: t,
			Fitness:      contract.GetPlainLabel(schema.LTSField, t.LTS),
			Form:         contract.GetPlainLabel(schema.SBField, t.SB),
			Ramp:         contract.GetPlainLabel(schema.RRField, t.RR),
		})
	}
	return jsonResult(map[string]any{
		"date":     result.Date.Format(schema.DateFormat),
		"metric":   result.Metric,
		"lts_days": result.LTSDays,
		"sts_days": result.STSDays,
		"tracks":   rows,
	}), nil
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	track, err := parseTrackArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := h.parseDateArg(request, "start", h.baseCfg.StartTime)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid start: %v", err)), nil
	}
	end, err := h.parseDateArg(request, "end", h.baseCfg.EndTime)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid end: %v", err)), nil
	}
	if end.Before(start) {
		return mcp.NewToolResultError("end must not be before start"), nil
	}

	cfg := h.baseCfg.Clone()
	cfg.Tracks = []schema.Track{track}
	var result schema.SeriesResult
	if err := h.withEngine(ctx, func(e *pmc.Engine) {
		result = core.GetSeriesResult(e, cfg, start, end)
	}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("engine setup failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleAddObservation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr := request.GetString("date", "")
	if dateStr == "" {
		return mcp.NewToolResultError("date is required"), nil
	}
	date, err := contract.ParseDate(dateStr, h.now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
	}
	name := request.GetString("metric", "")
	if name == "" {
		return mcp.NewToolResultError("metric is required"), nil
	}

	obs := schema.Observation{
		Date:    date,
		Planned: request.GetBool("planned", false),
		Sport:   request.GetString("sport", ""),
		Title:   request.GetString("title", ""),
		Metrics: map[string]float64{name: request.GetFloat("value", 0)},
	}
	added, err := core.ExecuteObservationAdd(ctx, h.mgr, obs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store observation: %v", err)), nil
	}
	return jsonResult(added), nil
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(metric.Catalog), nil
}
