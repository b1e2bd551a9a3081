package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"k8s.io/klog/v2"

	"github.com/vgardrinier/a2a-marketplace/internal/model"
)

// NoMatchMessage 没有任何技能或工作者匹配时的提示
const NoMatchMessage = "No instant skill or available worker matches this task. " +
	"Try describing it with more specific terms, widen the budget or specialty, or handle it directly."

// Matcher 任务匹配器
// 先尝试即时技能，再对工作者评分排序
type Matcher struct {
	skills  SkillSource
	workers WorkerSource
}

// NewMatcher 创建匹配器，两个来源都可以为 nil
func NewMatcher(skills SkillSource, workers WorkerSource) *Matcher {
	return &Matcher{skills: skills, workers: workers}
}

// FindMatch 为任务寻找技能或工作者
func (m *Matcher) FindMatch(ctx context.Context, task string, opts Options) (*Result, error) {
	if strings.TrimSpace(task) == "" {
		return nil, ErrEmptyTask
	}

	keywords := ExtractKeywords(task)

	skill, keyword, err := m.matchSkill(ctx, keywords)
	if err != nil {
		return nil, err
	}
	if skill != nil {
		klog.V(6).Infof("[matcher.FindMatch] 即时技能命中: %s (关键词 %s)", skill.ID, keyword)
		return &Result{Kind: KindSkill, Skill: skill, Keyword: keyword}, nil
	}

	matches, err := m.RankWorkers(ctx, keywords, opts)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		klog.V(6).Infof("[matcher.FindMatch] 无匹配: %q", task)
		return &Result{Kind: KindNone, Message: NoMatchMessage}, nil
	}

	return &Result{
		Kind:      KindWorkers,
		Matches:   matches,
		Rationale: Rationale(task),
	}, nil
}

// matchSkill 按关键词顺序逐个尝试，第一个命中任意条目的关键词决定结果
func (m *Matcher) matchSkill(ctx context.Context, keywords []string) (*Skill, string, error) {
	if m.skills == nil || len(keywords) == 0 {
		return nil, "", nil
	}

	skills, err := m.skills.ListSkills(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list skills: %w", err)
	}

	haystacks := make([]string, len(skills))
	for i, s := range skills {
		haystacks[i] = lower(s.Name + "\n" + s.Description + "\n" + s.Category)
	}

	for _, kw := range keywords {
		for i := range skills {
			if strings.Contains(haystacks[i], kw) {
				s := skills[i]
				return &s, kw, nil
			}
		}
	}
	return nil, "", nil
}

// RankWorkers 评分并排序候选工作者，丢弃得分不大于 0 的候选
func (m *Matcher) RankWorkers(ctx context.Context, keywords []string, opts Options) ([]*WorkerMatch, error) {
	candidates, err := m.candidates(ctx, opts)
	if err != nil {
		return nil, err
	}

	matches := make([]*WorkerMatch, 0, len(candidates))
	for _, w := range candidates {
		score, reasons := Score(w, keywords)
		if score <= 0 {
			continue
		}
		matches = append(matches, &WorkerMatch{
			Worker:     w,
			Score:      score,
			Reasons:    reasons,
			Confidence: ConfidenceFor(score),
		})
	}

	sortMatches(matches)

	limit := opts.MaxResults
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *Matcher) candidates(ctx context.Context, opts Options) ([]*model.Worker, error) {
	if m.workers == nil {
		return nil, nil
	}

	var (
		workers []*model.Worker
		err     error
	)
	if opts.Specialty != "" {
		workers, err = m.workers.ListActiveBySpecialty(ctx, opts.Specialty)
	} else {
		workers, err = m.workers.ListActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	out := make([]*model.Worker, 0, len(workers))
	for _, w := range workers {
		if w == nil || !w.IsActive() {
			continue
		}
		if opts.Specialty != "" && w.Specialty != opts.Specialty {
			continue
		}
		if opts.Budget != nil && w.Pricing > *opts.Budget {
			continue
		}
		if !HasCapabilities(w, opts.RequiredCapabilities) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// sortMatches 分数降序；同分时价格低者优先，再按完成数降序，最后按 ID 升序
func sortMatches(matches []*WorkerMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Worker.Pricing != b.Worker.Pricing {
			return a.Worker.Pricing < b.Worker.Pricing
		}
		if a.Worker.CompletionCount != b.Worker.CompletionCount {
			return a.Worker.CompletionCount > b.Worker.CompletionCount
		}
		return a.Worker.ID < b.Worker.ID
	})
}

// ScoreWorker 对指定工作者单独评分，不做过滤与截断
func (m *Matcher) ScoreWorker(ctx context.Context, id, task string) (*WorkerMatch, error) {
	if m.workers == nil {
		return nil, ErrRegistryUnavailable
	}
	w, err := m.workers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	score, reasons := Score(w, ExtractKeywords(task))
	return &WorkerMatch{
		Worker:     w,
		Score:      score,
		Reasons:    reasons,
		Confidence: ConfidenceFor(score),
	}, nil
}
