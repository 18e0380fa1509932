// Package tools defines the catalog of Dune operations exposed to an MCP
// host: one named tool per API endpoint, bound to a single transport client
// call through a flat dispatch table.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"dune-mcp/internal/dune"
)

// Handler runs one tool invocation: coerce arguments, make exactly one
// client call, serialize the result. The returned string is the caller-facing
// payload (indented JSON, or raw CSV for the csv tools).
type Handler func(ctx context.Context, args Arguments) (string, error)

// Definition pairs a tool's declared schema with its handler.
type Definition struct {
	Tool   mcp.Tool
	Handle Handler
}

// UnknownToolError is returned for names outside the declared catalog.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// Registry is the flat catalog of tools backed by one dune.Client. Built
// once at startup; read-only afterwards, so dispatch is safe for concurrent
// invocations.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry builds the full catalog against the given client.
func NewRegistry(client *dune.Client) *Registry {
	r := &Registry{defs: make(map[string]Definition)}
	r.registerExecutionTools(client)
	r.registerQueryTools(client)
	r.registerMaterializedViewTools(client)
	r.registerTableTools(client)
	r.registerDatasetTools(client)
	r.registerPipelineTools(client)
	r.registerUsageTools(client)
	return r
}

func (r *Registry) add(tool mcp.Tool, h Handler) {
	r.defs[tool.Name] = Definition{Tool: tool, Handle: h}
}

// Tools returns the declared catalog sorted by name.
func (r *Registry) Tools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def.Tool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted tool names.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the named tool. Names outside the catalog fail with
// *UnknownToolError, never a silent no-op.
func (r *Registry) Dispatch(ctx context.Context, name string, args Arguments) (string, error) {
	def, ok := r.defs[name]
	if !ok {
		return "", &UnknownToolError{Name: name}
	}
	return def.Handle(ctx, args)
}

// Install registers every tool on the MCP server. Handler failures become
// structured tool errors; no raw error crosses the protocol boundary.
func (r *Registry) Install(s *server.MCPServer) {
	for _, def := range r.defs {
		def := def
		s.AddTool(def.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			out, err := def.Handle(ctx, Arguments(req.GetArguments()))
			if err != nil {
				return mcp.NewToolResultError(ErrorMessage(err)), nil
			}
			return mcp.NewToolResultText(out), nil
		})
	}
}

// ErrorMessage renders a failure as the human-readable payload sent to the
// invoking assistant.
func ErrorMessage(err error) string {
	var de *dune.Error
	if errors.As(err, &de) {
		if de.StatusCode > 0 {
			return fmt.Sprintf("Dune API error (%s, HTTP %d): %s", de.Kind, de.StatusCode, de.Message)
		}
		return fmt.Sprintf("%s error: %s", de.Kind, de.Message)
	}
	var ut *UnknownToolError
	if errors.As(err, &ut) {
		return ut.Error()
	}
	return "Error: " + err.Error()
}

// formatJSON renders a response record as indented JSON text.
func formatJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode response: %w", err)
	}
	return string(b), nil
}
