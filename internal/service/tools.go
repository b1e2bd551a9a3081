package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// 工具名称
const (
	ToolSolve         = "solve"
	ToolGetSkill      = "get_skill"
	ToolFindWorker    = "find_worker"
	ToolDetectProject = "detect_project"
)

// ToolNames 对外暴露的工具
var ToolNames = []string{ToolSolve, ToolGetSkill, ToolFindWorker, ToolDetectProject}

// ErrUnknownTool 未知工具
var ErrUnknownTool = errors.New("unknown tool")

type getSkillArgs struct {
	ID        string `json:"id"`
	Workspace string `json:"workspace"`
}

type detectArgs struct {
	Workspace string `json:"workspace"`
}

// CallTool 按名称调用工具，返回面向用户的文本
func (s *SolveService) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case ToolSolve:
		var req SolveRequest
		if err := decodeArgs(args, &req); err != nil {
			return "", err
		}
		resp, err := s.Solve(ctx, req)
		if err != nil {
			return "", err
		}
		return resp.Text, nil

	case ToolGetSkill:
		var req getSkillArgs
		if err := decodeArgs(args, &req); err != nil {
			return "", err
		}
		_, text, err := s.GetSkill(ctx, req.ID, req.Workspace)
		return text, err

	case ToolFindWorker:
		var req FindWorkerRequest
		if err := decodeArgs(args, &req); err != nil {
			return "", err
		}
		_, text, err := s.FindWorker(ctx, req)
		return text, err

	case ToolDetectProject:
		var req detectArgs
		if err := decodeArgs(args, &req); err != nil {
			return "", err
		}
		data, err := json.MarshalIndent(s.DetectProject(req.Workspace), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	return "", fmt.Errorf("%w %q (available: %s)", ErrUnknownTool, name, strings.Join(ToolNames, ", "))
}

// decodeArgs 通过 JSON 将松散参数映射为请求结构
func decodeArgs(args map[string]any, out any) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
