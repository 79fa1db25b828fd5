// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pmcharts/pmc/core/pmc"
	"github.com/pmcharts/pmc/internal/contract"
)

var (
	trackEnum = []string{"actual", "planned", "expected"}
	fieldEnum = []string{"stress", "lts", "sts", "sb", "rr", "ctl", "atl", "tsb"}
)

// NewMCPServer initializes and configures the PMC MCP server without starting it.
// Extra engine options are applied to the shared engine, which is built on first use.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, opts ...pmc.Option) *server.MCPServer {
	s := server.NewMCPServer(
		"PMC Training Load Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		opts:    opts,
	}

	// --- 1. Tool: pmc_value ---
	s.AddTool(mcp.NewTool("pmc_value",
		mcp.WithDescription("Get one field of one track on a date. Returns 0 when there is no data."),
		mcp.WithString("track", mcp.Description("Track to read. Defaults to 'actual'."), mcp.Enum(trackEnum...)),
		mcp.WithString("field", mcp.Description("Field to read (stress, lts, sts, sb, rr)."), mcp.Required(), mcp.Enum(fieldEnum...)),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD, today, or '3 days ago'. Defaults to today.")),
	), h.handleGetValue)

	// --- 2. Tool: pmc_summary ---
	s.AddTool(mcp.NewTool("pmc_summary",
		mcp.WithDescription("Get every field of every track on a date, with form and ramp labels."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD, today, or '3 days ago'. Defaults to today.")),
	), h.handleGetSummary)

	// --- 3. Tool: pmc_series ---
	s.AddTool(mcp.NewTool("pmc_series",
		mcp.WithDescription("Get the daily series of one track over a date window."),
		mcp.WithString("track", mcp.Description("Track to read. Defaults to 'actual'."), mcp.Enum(trackEnum...)),
		mcp.WithString("start", mcp.Description("First date of the window. Defaults to the configured start.")),
		mcp.WithString("end", mcp.Description("Last date of the window. Defaults to the configured end.")),
	), h.handleGetSeries)

	// --- 4. Tool: pmc_add_observation ---
	s.AddTool(mcp.NewTool("pmc_add_observation",
		mcp.WithDescription("Store a completed or planned observation. The series is recomputed on the next query."),
		mcp.WithString("date", mcp.Description("Date of the observation."), mcp.Required()),
		mcp.WithString("metric", mcp.Description("Metric name to record (e.g., 'tss')."), mcp.Required()),
		mcp.WithNumber("value", mcp.Description("Metric value."), mcp.Required()),
		mcp.WithBoolean("planned", mcp.Description("Whether the observation is planned rather than completed.")),
		mcp.WithString("sport", mcp.Description("Sport of the observation.")),
		mcp.WithString("title", mcp.Description("Short title.")),
	), h.handleAddObservation)

	// --- 5. Tool: pmc_metrics ---
	s.AddTool(mcp.NewTool("pmc_metrics",
		mcp.WithDescription("List the named training load metrics that can be used as the stress metric."),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the PMC MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager, opts ...pmc.Option) error {
	s := NewMCPServer(baseCfg, mgr, opts...)
	return server.ServeStdio(s)
}
