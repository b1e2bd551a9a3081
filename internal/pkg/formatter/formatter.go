package formatter

import (
	"fmt"
	"strings"

	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/matcher"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/profile"
)

// MaxListedDependencies 项目摘要中最多列出的依赖数
const MaxListedDependencies = 15

// NoCatalogMatch 没有相关条目时的提示
const NoCatalogMatch = "No catalog match for this project. Use your own judgment."

// Render 将画像、相关条目与任务渲染为一段说明文本
// 纯函数，相同输入得到相同输出
func Render(p *profile.Profile, entries []*catalog.Entry, task string, targetFiles []string) string {
	var b strings.Builder

	writeProfile(&b, p)

	if len(entries) == 0 {
		b.WriteString("\n")
		b.WriteString(NoCatalogMatch)
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "\n## Available solutions (%d)\n", len(entries))
		for i, e := range entries {
			writeEntry(&b, i+1, e, targetFiles)
		}
	}

	writeTask(&b, task, targetFiles)

	if len(entries) == 0 {
		b.WriteString("\nNo packaged solution applies. Solve the task with your own judgment.\n")
	} else {
		b.WriteString("\nPick the solution above that best fits the task and follow its instructions. " +
			"If none fits, fall back to your own judgment.\n")
	}

	return b.String()
}

// RenderMatch 渲染匹配器结果
func RenderMatch(res *matcher.Result, task string) string {
	var b strings.Builder

	if res == nil {
		res = &matcher.Result{Kind: matcher.KindNone, Message: matcher.NoMatchMessage}
	}

	switch res.Kind {
	case matcher.KindSkill:
		s := res.Skill
		b.WriteString("## Instant skill\n\n")
		fmt.Fprintf(&b, "**%s** (%s, %s)\n", s.Name, s.ID, s.Type)
		fmt.Fprintf(&b, "%s\n", s.Description)
		if res.Keyword != "" {
			fmt.Fprintf(&b, "\nMatched on keyword %q.\n", res.Keyword)
		}
		fmt.Fprintf(&b, "\nUse get_skill with id %q to load its instructions.\n", s.ID)

	case matcher.KindWorkers:
		fmt.Fprintf(&b, "## Suggested workers (%d)\n\n", len(res.Matches))
		b.WriteString(res.Rationale)
		b.WriteString("\n")
		for i, m := range res.Matches {
			writeWorkerMatch(&b, i+1, m)
		}

	default:
		b.WriteString("## No match\n\n")
		msg := res.Message
		if msg == "" {
			msg = matcher.NoMatchMessage
		}
		b.WriteString(msg)
		b.WriteString("\n")
	}

	if strings.TrimSpace(task) != "" {
		fmt.Fprintf(&b, "\nTask: %s\n", strings.TrimSpace(task))
	}
	return b.String()
}

// RenderWorkerScore 渲染单个工作者对任务的评分明细
func RenderWorkerScore(m *matcher.WorkerMatch, task string) string {
	var b strings.Builder
	b.WriteString("## Worker score\n")
	writeWorkerMatch(&b, 1, m)

	keywords := matcher.ExtractKeywords(task)
	fmt.Fprintf(&b, "\nKeywords (v%d): %s\n", matcher.KeywordsVersion, joinOr(keywords, "none"))
	if strings.TrimSpace(task) != "" {
		fmt.Fprintf(&b, "\nTask: %s\n", strings.TrimSpace(task))
	}
	return b.String()
}

func writeWorkerMatch(b *strings.Builder, n int, m *matcher.WorkerMatch) {
	w := m.Worker
	name := w.Name
	if name == "" {
		name = w.ID
	}
	fmt.Fprintf(b, "\n%d. %s [%s confidence, score %.1f]\n", n, name, m.Confidence, m.Score)
	fmt.Fprintf(b, "   id: %s", w.ID)
	if w.Specialty != "" {
		fmt.Fprintf(b, " | specialty: %s", w.Specialty)
	}
	fmt.Fprintf(b, " | price: $%.2f | avg time: %.0f min\n", w.Pricing, w.AvgCompletionTime)
	for _, r := range m.Reasons {
		fmt.Fprintf(b, "   - %s\n", r)
	}
}

// RenderWithMatch 没有相关条目时，渲染项目摘要与匹配器结果
func RenderWithMatch(p *profile.Profile, res *matcher.Result, task string, targetFiles []string) string {
	var b strings.Builder
	writeProfile(&b, p)
	b.WriteString("\n")
	b.WriteString(NoCatalogMatch)
	b.WriteString("\n\n")
	b.WriteString(RenderMatch(res, ""))
	writeTask(&b, task, targetFiles)
	return b.String()
}

// RenderEntry 渲染单个条目的完整内容
func RenderEntry(e *catalog.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Name)
	fmt.Fprintf(&b, "- id: %s\n- type: %s\n", e.ID, e.Type)
	if e.Category != "" {
		fmt.Fprintf(&b, "- category: %s\n", e.Category)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, "- source: %s (%s)\n", e.Source, e.Resolution)
	}
	fmt.Fprintf(&b, "\n%s\n", e.Description)
	if instructionsDiffer(e) {
		fmt.Fprintf(&b, "\n## Instructions\n\n%s\n", strings.TrimSpace(e.Instructions))
	}
	return b.String()
}

func writeProfile(b *strings.Builder, p *profile.Profile) {
	if p == nil {
		p = &profile.Profile{Languages: []string{profile.UnknownLanguage}}
	}

	b.WriteString("## Project\n\n")
	fmt.Fprintf(b, "- Languages: %s\n", joinOr(p.Languages, profile.UnknownLanguage))
	fmt.Fprintf(b, "- Framework: %s\n", orNone(p.Framework))
	fmt.Fprintf(b, "- Config files: %s\n", joinOr(p.ConfigFiles, "none"))
	fmt.Fprintf(b, "- Dependencies: %s\n", truncateList(p.Dependencies, MaxListedDependencies))
	fmt.Fprintf(b, "- Package manager: %s\n", orNone(p.PackageManager))
}

func writeEntry(b *strings.Builder, n int, e *catalog.Entry, targetFiles []string) {
	fmt.Fprintf(b, "\n%d. %s [%s] (id: %s)\n", n, e.Name, e.Type, e.ID)
	fmt.Fprintf(b, "   %s\n", e.Description)

	if hits := catalog.MatchContext(e, targetFiles); len(hits) > 0 {
		fmt.Fprintf(b, "   Applies to: %s\n", strings.Join(hits, ", "))
	}

	if instructionsDiffer(e) {
		b.WriteString("   Instructions:\n")
		for _, line := range strings.Split(strings.TrimSpace(e.Instructions), "\n") {
			if line == "" {
				b.WriteString("\n")
				continue
			}
			fmt.Fprintf(b, "   %s\n", line)
		}
	}
}

func writeTask(b *strings.Builder, task string, targetFiles []string) {
	fmt.Fprintf(b, "\n## Task\n\n%s\n", strings.TrimSpace(task))
	if len(targetFiles) > 0 {
		fmt.Fprintf(b, "\nTarget files: %s\n", strings.Join(targetFiles, ", "))
	}
}

// instructionsDiffer 指令与描述实质不同（忽略空白与大小写）时才输出
func instructionsDiffer(e *catalog.Entry) bool {
	ins := normalizeText(e.Instructions)
	return ins != "" && ins != normalizeText(e.Description)
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func truncateList(items []string, max int) string {
	if len(items) == 0 {
		return "none"
	}
	if len(items) <= max {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(items[:max], ", "), len(items)-max)
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
