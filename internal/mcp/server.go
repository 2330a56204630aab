package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"classpulse/internal/config"
	"classpulse/internal/schema"
)

// Server exposes the report engine as MCP tools.
type Server struct {
	cfg     *config.AppConfig
	mapping schema.Mapping
	version string
}

// NewServer creates a new MCP server bound to one schema mapping.
func NewServer(cfg *config.AppConfig, mapping schema.Mapping, version string) *Server {
	return &Server{cfg: cfg, mapping: mapping, version: version}
}

// Serve runs the MCP protocol over stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	server, err := s.build()
	if err != nil {
		return err
	}
	log.Info().Str("version", s.version).Msg("MCP server listening on stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) build() (*mcp.Server, error) {
	server := mcp.NewServer(&mcp.Implementation{Name: "classpulse", Version: s.version}, nil)

	buildSchema, err := jsonschema.For[BuildReportInput](nil)
	if err != nil {
		return nil, fmt.Errorf("build_report schema: %w", err)
	}
	renderSchema, err := jsonschema.For[RenderReportInput](nil)
	if err != nil {
		return nil, fmt.Errorf("render_report schema: %w", err)
	}
	inspectSchema, err := jsonschema.For[InspectColumnsInput](nil)
	if err != nil {
		return nil, fmt.Errorf("inspect_columns schema: %w", err)
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "build_report",
		Description: "Build the weekly report data packet from a class activity spreadsheet (.xlsx or .csv). " +
			"Returns KPIs for the latest week, per-class arrays in natural name order, classes ranked by hours " +
			"with a below-average attendance flag, and the full weekly trend. All numbers are computed; do not recompute them.",
		InputSchema: buildSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in BuildReportInput) (*mcp.CallToolResult, any, error) {
		texts, err := s.handleBuildReport(in)
		if err != nil {
			return nil, nil, err
		}
		return textResult(texts...), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_report",
		Description: "Build the packet for a spreadsheet and write it as a standalone HTML report. Returns the written file path.",
		InputSchema: renderSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in RenderReportInput) (*mcp.CallToolResult, any, error) {
		text, err := s.handleRenderReport(in)
		if err != nil {
			return nil, nil, err
		}
		return textResult(text), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name: "inspect_columns",
		Description: "Show which spreadsheet column each logical field (week, class, hours, attendance, correctness, " +
			"assigned/watched minutes, completion) resolves to. Use this first when build_report reports a schema error.",
		InputSchema: inspectSchema,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in InspectColumnsInput) (*mcp.CallToolResult, any, error) {
		text, err := s.handleInspectColumns(in)
		if err != nil {
			return nil, nil, err
		}
		return textResult(text), nil, nil
	})

	return server, nil
}

// resolvePath makes relative paths relative to DATA_PATH.
func (s *Server) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || s.cfg == nil || s.cfg.DataPath == "" {
		return path
	}
	return filepath.Join(s.cfg.DataPath, path)
}

func textResult(texts ...string) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(texts))
	for _, t := range texts {
		content = append(content, &mcp.TextContent{Text: t})
	}
	return &mcp.CallToolResult{Content: content}
}

func formatResult(data any) (string, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(out), nil
}
