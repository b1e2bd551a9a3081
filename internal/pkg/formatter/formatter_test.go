package formatter

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vgardrinier/a2a-marketplace/internal/model"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/catalog"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/matcher"
	"github.com/vgardrinier/a2a-marketplace/internal/pkg/profile"
)

func nextProfile() *profile.Profile {
	return &profile.Profile{
		Languages:      []string{"TypeScript"},
		Framework:      "Next.js",
		Dependencies:   []string{"@sentry/nextjs", "next", "react"},
		ConfigFiles:    []string{"next.config.js", "package.json", "tsconfig.json"},
		PackageManager: "npm",
	}
}

func TestRender_WithEntries(t *testing.T) {
	entries := []*catalog.Entry{
		{
			ID:              "sentry-nextjs",
			Type:            catalog.TypeSkill,
			Name:            "Sentry for Next.js",
			Description:     "Wire Sentry into a Next.js app",
			Instructions:    "Run the wizard.\n\nVerify the DSN.",
			ContextPatterns: []string{"sentry.*.config.ts"},
		},
		{
			ID:           "commit-style",
			Type:         catalog.TypeCLI,
			Name:         "commit-style",
			Description:  "Conventional commits",
			Instructions: "  conventional   commits ",
		},
	}

	out := Render(nextProfile(), entries, "add error tracking", []string{"sentry.client.config.ts"})

	assert.Contains(t, out, "- Languages: TypeScript")
	assert.Contains(t, out, "- Framework: Next.js")
	assert.Contains(t, out, "- Package manager: npm")
	assert.Contains(t, out, "## Available solutions (2)")
	assert.Contains(t, out, "1. Sentry for Next.js [skill] (id: sentry-nextjs)")
	assert.Contains(t, out, "   Run the wizard.\n\n   Verify the DSN.")
	assert.Contains(t, out, "Applies to: sentry.client.config.ts")
	assert.Contains(t, out, "2. commit-style [cli] (id: commit-style)")
	assert.Equal(t, 1, strings.Count(out, "Instructions:"), "placeholder instructions are not repeated")
	assert.Contains(t, out, "## Task\n\nadd error tracking")
	assert.Contains(t, out, "Target files: sentry.client.config.ts")
	assert.Contains(t, out, "Pick the solution above")
	assert.NotContains(t, out, NoCatalogMatch)
}

func TestRender_NoEntries(t *testing.T) {
	out := Render(&profile.Profile{Languages: []string{profile.UnknownLanguage}}, nil, "do something", nil)

	assert.Contains(t, out, "- Languages: Unknown")
	assert.Contains(t, out, "- Framework: none")
	assert.Contains(t, out, "- Dependencies: none")
	assert.Contains(t, out, NoCatalogMatch)
	assert.NotContains(t, out, "Target files")
}

func TestRender_Deterministic(t *testing.T) {
	entries := []*catalog.Entry{{ID: "a", Type: catalog.TypeSkill, Name: "a", Description: "d", Instructions: "d"}}
	first := Render(nextProfile(), entries, "task", []string{"x.ts"})
	assert.Equal(t, first, Render(nextProfile(), entries, "task", []string{"x.ts"}))
}

func TestRender_TruncatesDependencies(t *testing.T) {
	deps := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		deps = append(deps, fmt.Sprintf("dep%02d", i))
	}
	out := Render(&profile.Profile{Dependencies: deps}, nil, "t", nil)
	assert.Contains(t, out, "dep14 (+5 more)")
	assert.NotContains(t, out, "dep15")
}

func TestRenderMatch(t *testing.T) {
	skill := RenderMatch(&matcher.Result{
		Kind:    matcher.KindSkill,
		Skill:   &matcher.Skill{ID: "stripe", Type: "skill", Name: "Stripe", Description: "billing"},
		Keyword: "stripe",
	}, "add stripe")
	assert.Contains(t, skill, "## Instant skill")
	assert.Contains(t, skill, `Matched on keyword "stripe"`)

	workers := RenderMatch(&matcher.Result{
		Kind:      matcher.KindWorkers,
		Rationale: matcher.GenericRationale,
		Matches: []*matcher.WorkerMatch{{
			Worker:     &model.Worker{ID: "ts-pro", Specialty: "typescript", Pricing: 8, AvgCompletionTime: 15},
			Score:      94.9,
			Reasons:    []string{"reputation 4.8/5 (+48.0)"},
			Confidence: matcher.ConfidenceHigh,
		}},
	}, "fix ts")
	assert.Contains(t, workers, "1. ts-pro [high confidence, score 94.9]")
	assert.Contains(t, workers, "   - reputation 4.8/5 (+48.0)")
	assert.Contains(t, workers, matcher.GenericRationale)

	none := RenderMatch(nil, "")
	assert.Contains(t, none, matcher.NoMatchMessage)
	assert.NotContains(t, none, "Task:")
}

func TestRenderWorkerScore(t *testing.T) {
	text := RenderWorkerScore(&matcher.WorkerMatch{
		Worker:     &model.Worker{ID: "ts-pro", Name: "TS Pro", Pricing: 8, AvgCompletionTime: 15},
		Score:      94.9,
		Reasons:    []string{"capability match: typescript (+10)"},
		Confidence: matcher.ConfidenceHigh,
	}, "fix my typescript errors")

	assert.Contains(t, text, "## Worker score")
	assert.Contains(t, text, "1. TS Pro [high confidence, score 94.9]")
	assert.Contains(t, text, "   - capability match: typescript (+10)")
	assert.Contains(t, text, fmt.Sprintf("Keywords (v%d): ", matcher.KeywordsVersion))
	assert.Contains(t, text, "typescript")
	assert.Contains(t, text, "Task: fix my typescript errors")
}

func TestRenderWithMatch(t *testing.T) {
	out := RenderWithMatch(nextProfile(), &matcher.Result{Kind: matcher.KindNone, Message: "nothing"}, "refactor", []string{"a.ts"})
	assert.Contains(t, out, "- Framework: Next.js")
	assert.Contains(t, out, NoCatalogMatch)
	assert.Contains(t, out, "## No match\n\nnothing")
	assert.Contains(t, out, "## Task\n\nrefactor")
	assert.Contains(t, out, "Target files: a.ts")
}

func TestRenderEntry(t *testing.T) {
	e := &catalog.Entry{
		ID:           "sentry-nextjs",
		Type:         catalog.TypeSkill,
		Name:         "Sentry",
		Description:  "Wire Sentry",
		Instructions: "Run the wizard.",
		Source:       "github:getsentry/skills/nextjs",
		Resolution:   catalog.Resolved,
	}
	out := RenderEntry(e)
	assert.Contains(t, out, "# Sentry")
	assert.Contains(t, out, "- source: github:getsentry/skills/nextjs (resolved)")
	assert.Contains(t, out, "## Instructions\n\nRun the wizard.")

	e.Instructions = e.Description
	assert.NotContains(t, RenderEntry(e), "## Instructions")
}
