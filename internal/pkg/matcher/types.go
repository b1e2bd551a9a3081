package matcher

import (
	"context"

	"github.com/vgardrinier/a2a-marketplace/internal/model"
)

// 评分策略常量，调整时需同步更新回归测试
const (
	HighConfidenceScore   = 70.0
	MediumConfidenceScore = 40.0
	LimitationPenalty     = 50.0
	CapabilityBonus       = 10.0
	ReputationWeight      = 10.0
	ExperienceRate        = 0.5
	ExperienceCap         = 20.0
	PricingCap            = 10.0
	PricingDivisor        = 5.0
	SpeedCap              = 10.0
	SpeedDivisor          = 10.0
	MaxResults            = 5
)

// Kind 匹配结果类型
type Kind string

const (
	KindSkill   Kind = "skill"
	KindWorkers Kind = "workers"
	KindNone    Kind = "none"
)

// Confidence 置信度档位
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceFor 按分数划分档位
func ConfidenceFor(score float64) Confidence {
	switch {
	case score >= HighConfidenceScore:
		return ConfidenceHigh
	case score >= MediumConfidenceScore:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Skill 可即时使用的目录条目摘要
type Skill struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// SkillSource 即时技能来源
type SkillSource interface {
	ListSkills(ctx context.Context) ([]Skill, error)
}

// SkillSourceFunc 函数适配器
type SkillSourceFunc func(ctx context.Context) ([]Skill, error)

// ListSkills 实现 SkillSource
func (f SkillSourceFunc) ListSkills(ctx context.Context) ([]Skill, error) {
	return f(ctx)
}

// WorkerSource 外部工作者注册表的只读视图
type WorkerSource interface {
	ListActive(ctx context.Context) ([]*model.Worker, error)
	ListActiveBySpecialty(ctx context.Context, specialty string) ([]*model.Worker, error)
	GetByID(ctx context.Context, id string) (*model.Worker, error)
}

// Options 匹配选项
type Options struct {
	Specialty            string
	Budget               *float64
	RequiredCapabilities []string
	MaxResults           int
}

// WorkerMatch 单个工作者的评分结果
type WorkerMatch struct {
	Worker     *model.Worker `json:"worker"`
	Score      float64       `json:"score"`
	Reasons    []string      `json:"reasons"`
	Confidence Confidence    `json:"confidence"`
}

// Result 匹配结果
type Result struct {
	Kind      Kind           `json:"kind"`
	Skill     *Skill         `json:"skill,omitempty"`
	Keyword   string         `json:"keyword,omitempty"`
	Matches   []*WorkerMatch `json:"matches,omitempty"`
	Rationale string         `json:"rationale,omitempty"`
	Message   string         `json:"message,omitempty"`
}
