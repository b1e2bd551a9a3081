package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/formatter"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/matcher"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/profile"
)

var (
	ErrEmptyTask       = errors.New("task must not be empty")
	ErrMissingEntryID  = errors.New("entry id must not be empty")
	ErrInvalidArgument = errors.New("invalid tool arguments")
)

// Detector 工作区画像探测
type Detector interface {
	Detect(workspace string) *profile.Profile
}

// SolveRequest 路由请求
type SolveRequest struct {
	Task                 string   `json:"task" binding:"required"`
	Workspace            string   `json:"workspace"`
	TargetFiles          []string `json:"target_files"`
	WantWorker           bool     `json:"want_worker"`
	Specialty            string   `json:"specialty"`
	Budget               *float64 `json:"budget"`
	RequiredCapabilities []string `json:"required_capabilities"`
}

// FindWorkerRequest 工作者匹配请求
type FindWorkerRequest struct {
	Task                 string   `json:"task" binding:"required"`
	Workspace            string   `json:"workspace"`
	Specialty            string   `json:"specialty"`
	Budget               *float64 `json:"budget"`
	RequiredCapabilities []string `json:"required_capabilities"`
}

// SolveResponse 路由结果
type SolveResponse struct {
	RequestID string           `json:"request_id"`
	Text      string           `json:"text"`
	Profile   *profile.Profile `json:"profile"`
	Entries   []*catalog.Entry `json:"entries"`
	Match     *matcher.Result  `json:"match,omitempty"`
}

// SolveService 请求期路由：画像 -> 目录过滤 -> 工作者匹配 -> 渲染
type SolveService struct {
	detector   Detector
	library    *catalog.Library
	workers    matcher.WorkerSource
	maxResults int
}

// NewSolveService 创建路由服务，workers 可以为 nil
func NewSolveService(detector Detector, library *catalog.Library, workers matcher.WorkerSource, maxResults int) *SolveService {
	if maxResults <= 0 {
		maxResults = matcher.MaxResults
	}
	return &SolveService{
		detector:   detector,
		library:    library,
		workers:    workers,
		maxResults: maxResults,
	}
}

// Solve 处理一次路由请求
// 目录无匹配属于正常结果，只有参数错误或注册表不可用时返回错误
func (s *SolveService) Solve(ctx context.Context, req SolveRequest) (*SolveResponse, error) {
	task := strings.TrimSpace(req.Task)
	if task == "" {
		return nil, ErrEmptyTask
	}

	requestID := uuid.NewString()
	workspace := normalizeWorkspace(req.Workspace)

	p := s.detector.Detect(workspace)
	entries := s.library.LoadRelevantEntries(p)
	klog.V(6).Infof("[service.Solve] %s 工作区 %s 相关条目 %d 个", requestID, p.Root, len(entries))

	resp := &SolveResponse{
		RequestID: requestID,
		Profile:   p,
	}

	if len(entries) > 0 {
		resp.Entries = s.library.ResolveAll(ctx, entries)
		resp.Text = formatter.Render(p, resp.Entries, task, req.TargetFiles)
		return resp, nil
	}

	resp.Entries = []*catalog.Entry{}
	if !req.WantWorker {
		resp.Text = formatter.Render(p, nil, task, req.TargetFiles)
		return resp, nil
	}

	res, err := s.newMatcher(workspace).FindMatch(ctx, task, matcher.Options{
		Specialty:            req.Specialty,
		Budget:               req.Budget,
		RequiredCapabilities: req.RequiredCapabilities,
		MaxResults:           s.maxResults,
	})
	if err != nil {
		klog.Errorf("[service.Solve] %s 工作者匹配失败: %v", requestID, err)
		return nil, err
	}

	resp.Match = res
	resp.Text = formatter.RenderWithMatch(p, res, task, req.TargetFiles)
	return resp, nil
}

// FindWorker 直接进行技能/工作者匹配
func (s *SolveService) FindWorker(ctx context.Context, req FindWorkerRequest) (*matcher.Result, string, error) {
	task := strings.TrimSpace(req.Task)
	if task == "" {
		return nil, "", ErrEmptyTask
	}

	res, err := s.newMatcher(normalizeWorkspace(req.Workspace)).FindMatch(ctx, task, matcher.Options{
		Specialty:            req.Specialty,
		Budget:               req.Budget,
		RequiredCapabilities: req.RequiredCapabilities,
		MaxResults:           s.maxResults,
	})
	if err != nil {
		return nil, "", err
	}
	return res, formatter.RenderMatch(res, task), nil
}

// ScoreWorker 对指定工作者按任务单独评分，不做过滤与截断
func (s *SolveService) ScoreWorker(ctx context.Context, workerID, task string) (*matcher.WorkerMatch, string, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, "", ErrEmptyTask
	}
	m, err := s.newMatcher("").ScoreWorker(ctx, strings.TrimSpace(workerID), task)
	if err != nil {
		return nil, "", err
	}
	return m, formatter.RenderWorkerScore(m, task), nil
}

// GetSkill 获取条目并补全远端指令
func (s *SolveService) GetSkill(ctx context.Context, id, workspace string) (*catalog.Entry, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, "", ErrMissingEntryID
	}
	e, err := s.library.ResolveEntry(ctx, id, normalizeWorkspace(workspace))
	if err != nil {
		return nil, "", err
	}
	return e, formatter.RenderEntry(e), nil
}

// DetectProject 返回工作区画像
func (s *SolveService) DetectProject(workspace string) *profile.Profile {
	return s.detector.Detect(normalizeWorkspace(workspace))
}

// ListCatalog 返回合并后的全部条目
func (s *SolveService) ListCatalog(workspace string) []*catalog.Entry {
	return s.library.Entries(normalizeWorkspace(workspace))
}

// newMatcher 即时技能取自当前工作区的合并目录
func (s *SolveService) newMatcher(workspace string) *matcher.Matcher {
	skills := matcher.SkillSourceFunc(func(ctx context.Context) ([]matcher.Skill, error) {
		entries := s.library.Entries(workspace)
		out := make([]matcher.Skill, 0, len(entries))
		for _, e := range entries {
			out = append(out, matcher.Skill{
				ID:          e.ID,
				Type:        string(e.Type),
				Name:        e.Name,
				Description: e.Description,
				Category:    e.Category,
			})
		}
		return out, nil
	})
	return matcher.NewMatcher(skills, s.workers)
}

func normalizeWorkspace(workspace string) string {
	workspace = strings.TrimSpace(workspace)
	if workspace == "" {
		return "."
	}
	return workspace
}
