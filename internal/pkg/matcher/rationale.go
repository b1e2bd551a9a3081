package matcher

import "strings"

// GenericRationale 没有触发任何短语时使用
const GenericRationale = "No catalog skill covers this task directly, so a specialist worker is suggested."

var rationalePhrases = []struct {
	phrase string
	text   string
}{
	{"refactor", "Refactoring changes existing structure and needs someone who can reason about the whole module."},
	{"redesign", "A redesign involves judgment calls that a packaged skill cannot make."},
	{"complex", "The task is described as complex, which calls for a specialist who can own it end to end."},
	{"custom", "Custom work falls outside what reusable catalog skills provide."},
}

// Rationale 说明为何推荐工作者而不是即时技能
func Rationale(task string) string {
	t := lower(task)
	parts := make([]string, 0, len(rationalePhrases))
	for _, p := range rationalePhrases {
		if strings.Contains(t, p.phrase) {
			parts = append(parts, p.text)
		}
	}
	if len(parts) == 0 {
		return GenericRationale
	}
	return strings.Join(parts, " ")
}
