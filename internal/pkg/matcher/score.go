package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/vgardrinier/a2a-marketplace/internal/model"
)

// Score 计算工作者针对关键词的得分，返回分数与各加减分项说明
func Score(w *model.Worker, keywords []string) (float64, []string) {
	reasons := make([]string, 0, 6)
	score := 0.0

	reputation := w.ReputationScore * ReputationWeight
	score += reputation
	reasons = append(reasons, fmt.Sprintf("reputation %.1f/5 (+%.1f)", w.ReputationScore, reputation))

	experience := math.Min(float64(w.CompletionCount)*ExperienceRate, ExperienceCap)
	score += experience
	if w.CompletionCount > 0 {
		reasons = append(reasons, fmt.Sprintf("%d completed jobs (+%.1f)", w.CompletionCount, experience))
	}

	capabilities := lowerAll(w.Capabilities)
	for _, kw := range keywords {
		if containsAny(capabilities, kw) {
			score += CapabilityBonus
			reasons = append(reasons, fmt.Sprintf("capability match: %s (+%.0f)", kw, CapabilityBonus))
		}
	}

	limitations := lowerAll(w.Limitations)
	for _, kw := range keywords {
		if containsAny(limitations, kw) {
			score -= LimitationPenalty
			reasons = append(reasons, fmt.Sprintf("limitation conflict: %s (-%.0f)", kw, LimitationPenalty))
			break
		}
	}

	pricing := math.Max(0, PricingCap-w.Pricing/PricingDivisor)
	score += pricing
	if pricing > 0 {
		reasons = append(reasons, fmt.Sprintf("price $%.2f (+%.1f)", w.Pricing, pricing))
	}

	speed := math.Max(0, SpeedCap-w.AvgCompletionTime/SpeedDivisor)
	score += speed
	if speed > 0 {
		reasons = append(reasons, fmt.Sprintf("avg completion %.0f min (+%.1f)", w.AvgCompletionTime, speed))
	}

	score = math.Round(score*100) / 100

	if ConfidenceFor(score) == ConfidenceLow {
		reasons = append(reasons, "low confidence: weak signal for this task")
	}

	return score, reasons
}

// HasCapabilities 每个必需能力都须是某个声明能力的子串（忽略大小写）
func HasCapabilities(w *model.Worker, required []string) bool {
	capabilities := lowerAll(w.Capabilities)
	for _, r := range required {
		r = strings.TrimSpace(lower(r))
		if r == "" {
			continue
		}
		if !containsAny(capabilities, r) {
			return false
		}
	}
	return true
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = lower(s)
	}
	return out
}

func containsAny(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}
