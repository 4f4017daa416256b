package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with all 4 graph tools registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "repograph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_repo",
		Description: "Scan a repository and build its code graph. Walks the file tree, parses source files using tree-sitter, extracts declarations, calls, and imports, and loads the snapshot into the graph store.",
	}, svc.ScanRepo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "query_nodes",
		Description: "Search graph nodes (functions, methods, classes, types, files) by qualified-name substring match. Optionally filter by node kind and limit results.",
	}, svc.QueryNodes)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_neighbors",
		Description: "List edges of one kind touching a node: its callers or callees, imports, containment, or inheritance relations.",
	}, svc.GetNeighbors)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff_snapshots",
		Description: "Re-scan the repository and report nodes and edges added, updated, or removed since the previous scan, scoped to the files git reports changed.",
	}, svc.DiffSnapshots)

	return server
}

// RunMCPServer starts an HTTP server exposing the graph MCP tools.
func RunMCPServer(ctx context.Context, svc *GraphService, addr string) error {
	server := NewGraphMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
