package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vgardrinier/a2a-marketplace/internal/service"
)

// catalogURI 合并目录资源
const catalogURI = "catalog://entries"

type handlers struct {
	svc *service.SolveService
}

// Register 注册工具与资源
func Register(s *server.MCPServer, svc *service.SolveService) {
	h := &handlers{svc: svc}

	s.AddTool(mcp.NewTool(
		service.ToolSolve,
		mcp.WithDescription("Fingerprint the workspace and return the catalog solutions relevant to the task. Falls back to worker suggestions when want_worker is set and nothing in the catalog applies."),
		mcp.WithString("task",
			mcp.Description("Free-text description of what needs to be done"),
			mcp.Required(),
		),
		mcp.WithString("workspace",
			mcp.Description("Workspace root, defaults to the server's working directory"),
		),
		mcp.WithArray("target_files",
			mcp.Description("Files the task is about"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("want_worker",
			mcp.Description("Suggest paid workers when no catalog entry matches"),
		),
		mcp.WithString("specialty",
			mcp.Description("Only suggest workers with exactly this specialty"),
		),
		mcp.WithNumber("budget",
			mcp.Description("Maximum price of a suggested worker"),
			mcp.Min(0),
		),
		mcp.WithArray("required_capabilities",
			mcp.Description("Capabilities every suggested worker must declare"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), h.handleSolve)

	s.AddTool(mcp.NewTool(
		service.ToolGetSkill,
		mcp.WithDescription("Load one catalog entry by id, fetching remote instructions when needed."),
		mcp.WithString("id",
			mcp.Description("Catalog entry id"),
			mcp.Required(),
		),
		mcp.WithString("workspace",
			mcp.Description("Workspace root used for project-local overrides"),
		),
	), h.handleGetSkill)

	s.AddTool(mcp.NewTool(
		service.ToolFindWorker,
		mcp.WithDescription("Match the task to an instant skill or rank active workers with reasons and confidence."),
		mcp.WithString("task",
			mcp.Description("Free-text description of what needs to be done"),
			mcp.Required(),
		),
		mcp.WithString("specialty",
			mcp.Description("Only consider workers with exactly this specialty"),
		),
		mcp.WithNumber("budget",
			mcp.Description("Maximum price"),
			mcp.Min(0),
		),
		mcp.WithArray("required_capabilities",
			mcp.Description("Capabilities every suggested worker must declare"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), h.handleFindWorker)

	s.AddTool(mcp.NewTool(
		service.ToolDetectProject,
		mcp.WithDescription("Return the workspace fingerprint: languages, framework, dependencies, config files, package manager and extensions."),
		mcp.WithString("workspace",
			mcp.Description("Workspace root, defaults to the server's working directory"),
		),
	), h.handleDetectProject)

	s.AddResource(mcp.NewResource(
		catalogURI,
		"Catalog",
		mcp.WithResourceDescription("Merged catalog entries (bundled and project-local) as JSON"),
		mcp.WithMIMEType("application/json"),
	), h.handleReadCatalog)
}

func (h *handlers) handleSolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := h.svc.Solve(ctx, service.SolveRequest{
		Task:                 task,
		Workspace:            request.GetString("workspace", ""),
		TargetFiles:          request.GetStringSlice("target_files", nil),
		WantWorker:           request.GetBool("want_worker", false),
		Specialty:            request.GetString("specialty", ""),
		Budget:               budgetArg(request),
		RequiredCapabilities: request.GetStringSlice("required_capabilities", nil),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(resp.Text), nil
}

func (h *handlers) handleGetSkill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	_, text, err := h.svc.GetSkill(ctx, id, request.GetString("workspace", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (h *handlers) handleFindWorker(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	task, err := request.RequireString("task")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.FindWorkerRequest{
		Task:                 task,
		Specialty:            request.GetString("specialty", ""),
		Budget:               budgetArg(request),
		RequiredCapabilities: request.GetStringSlice("required_capabilities", nil),
	}

	_, text, err := h.svc.FindWorker(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (h *handlers) handleDetectProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := h.svc.DetectProject(request.GetString("workspace", ""))
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (h *handlers) handleReadCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.svc.ListCatalog(""), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// budgetArg 未传 budget 时返回 nil，表示不限价
func budgetArg(request mcp.CallToolRequest) *float64 {
	if _, ok := request.GetArguments()["budget"]; !ok {
		return nil
	}
	budget := request.GetFloat("budget", 0)
	return &budget
}
