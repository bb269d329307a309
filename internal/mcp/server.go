// Package mcp exposes ziprune's scan and report operations as MCP tools.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ziprune/ziprune/internal/database"
	"github.com/ziprune/ziprune/internal/logging"
	"github.com/ziprune/ziprune/internal/usecase"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// Options configures a Server.
type Options struct {
	MinConfidence float64
	Analyzer      usecase.AnalyzerOptions
	Logger        *zap.Logger
}

// Server wraps the MCP server with ziprune-specific tools. Deletion is not
// exposed: it needs a confirmation the protocol cannot obtain.
type Server struct {
	server        *mcp.Server
	dbCtx         *database.Context
	analyzer      *usecase.Analyzer
	minConfidence float64
	logger        *zap.Logger
}

// NewServer creates a server bound to an open store. Run closes the store.
func NewServer(dbCtx *database.Context, opts Options) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "ziprune",
		Version: Version,
	}, nil)

	s := &Server{
		server:        mcpServer,
		dbCtx:         dbCtx,
		analyzer:      usecase.NewAnalyzer(dbCtx, opts.Analyzer),
		minConfidence: opts.MinConfidence,
		logger:        logging.OrNop(opts.Logger).Named("mcp"),
	}

	s.registerTools()

	return s
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	defer database.CloseDatabase(s.dbCtx)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ziprune_scan",
		Description: "Index a directory tree, list the contents of every zip archive in it and score sibling directories that look like extractions",
	}, s.handleScan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ziprune_report",
		Description: "List archives whose contents already exist in an extracted directory, most confident first",
	}, s.handleReport)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ziprune_stats",
		Description: "Count indexed files and archives by lifecycle state",
	}, s.handleStats)
}

type ScanInput struct {
	Root string `json:"root" jsonschema:"Absolute path of the directory tree to scan"`
}

type ScanOutput struct {
	Indexed    int      `json:"indexed"`
	Analyzed   int      `json:"analyzed"`
	Entries    int      `json:"entries"`
	Candidates int      `json:"candidates"`
	Matches    int      `json:"matches"`
	Failures   []string `json:"failures,omitempty"`
	Cancelled  bool     `json:"cancelled,omitempty"`
}

type ReportInput struct {
	MinConfidence *float64 `json:"minConfidence,omitempty" jsonschema:"Lowest confidence to report, between 0 and 1 (default from configuration)"`
}

type ReportOutput struct {
	Archives []ReportEntry `json:"archives"`
}

type ReportEntry struct {
	Archive    string  `json:"archive"`
	Directory  string  `json:"directory"`
	Confidence float64 `json:"confidence"`
}

type StatsInput struct{}

type StatsOutput struct {
	Files    int64            `json:"files"`
	Archives int64            `json:"archives"`
	ByStatus map[string]int64 `json:"byStatus"`
}

func (s *Server) handleScan(ctx context.Context, req *mcp.CallToolRequest, input ScanInput) (*mcp.CallToolResult, ScanOutput, error) {
	if input.Root == "" {
		return nil, ScanOutput{}, fmt.Errorf("root is required")
	}

	tk := s.analyzer.StartScan(ctx, input.Root)
	s.logger.Info("scan started", zap.String("task", tk.ID), zap.String("root", input.Root))
	for range tk.Progress() {
	}
	result, err := tk.Wait()
	if err != nil {
		return nil, ScanOutput{}, fmt.Errorf("failed to scan %s: %w", input.Root, err)
	}

	out := ScanOutput{Cancelled: result.Cancelled}
	if result.Index != nil {
		out.Indexed = result.Index.Indexed
	}
	if result.Analyze != nil {
		out.Analyzed = result.Analyze.Analyzed
		out.Entries = result.Analyze.Entries
	}
	if result.Extraction != nil {
		out.Candidates = result.Extraction.Candidates
		out.Matches = result.Extraction.Matches
	}
	for _, failure := range result.Failures() {
		out.Failures = append(out.Failures, failure.Error())
	}

	s.logger.Info("scan finished", zap.String("task", tk.ID), zap.Int("matches", out.Matches))
	return nil, out, nil
}

func (s *Server) handleReport(ctx context.Context, req *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	minConfidence := s.minConfidence
	if input.MinConfidence != nil {
		minConfidence = *input.MinConfidence
	}

	redundant, err := s.analyzer.GetRedundant(ctx, minConfidence)
	if err != nil {
		return nil, ReportOutput{}, fmt.Errorf("failed to query redundant archives: %w", err)
	}

	archives := make([]ReportEntry, 0, len(redundant))
	for _, r := range redundant {
		archives = append(archives, ReportEntry{
			Archive:    r.ArchivePath,
			Directory:  r.Directory,
			Confidence: r.Confidence,
		})
	}
	return nil, ReportOutput{Archives: archives}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.analyzer.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, fmt.Errorf("failed to read stats: %w", err)
	}

	byStatus := make(map[string]int64, len(stats.ByStatus))
	for _, c := range stats.ByStatus {
		byStatus[string(c.Status)] = c.Count
	}
	return nil, StatsOutput{
		Files:    stats.Files,
		Archives: stats.Archives,
		ByStatus: byStatus,
	}, nil
}
