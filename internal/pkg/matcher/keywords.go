package matcher

// KeywordsVersion 关键词提取规则版本，停用词或切分规则变化时递增
const KeywordsVersion = 1

// minKeywordLen 保留长度大于该值的词
const minKeywordLen = 2

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "are": {}, "was": {}, "were": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "for": {}, "with": {}, "from": {}, "its": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "can": {}, "may": {},
	"might": {}, "must": {}, "about": {}, "into": {}, "through": {}, "during": {},
	"before": {}, "after": {}, "above": {}, "below": {}, "between": {}, "under": {},
	"again": {}, "further": {}, "then": {}, "once": {}, "here": {}, "there": {},
	"when": {}, "where": {}, "why": {}, "how": {}, "all": {}, "each": {}, "few": {},
	"more": {}, "most": {}, "other": {}, "some": {}, "such": {}, "nor": {}, "not": {},
	"only": {}, "own": {}, "same": {}, "than": {}, "too": {}, "very": {}, "just": {},
	"now": {}, "also": {}, "please": {}, "want": {}, "need": {}, "needs": {},
	"him": {}, "his": {}, "she": {}, "her": {}, "hers": {}, "they": {}, "them": {},
	"their": {}, "our": {}, "ours": {}, "you": {}, "your": {}, "yours": {},
	"mine": {}, "what": {}, "which": {}, "who": {}, "any": {}, "out": {}, "get": {},
	"make": {}, "let": {},
}

// ExtractKeywords 提取任务关键词
// 仅按 ASCII 规则处理：A-Z 转小写，字母数字以外的字节一律视为分隔符，
// 去掉停用词与长度不超过 2 的词，按首次出现顺序去重
func ExtractKeywords(text string) []string {
	keywords := make([]string, 0)
	seen := make(map[string]struct{})

	token := make([]byte, 0, 32)
	flush := func() {
		if len(token) > minKeywordLen {
			w := string(token)
			if _, stop := stopWords[w]; !stop {
				if _, dup := seen[w]; !dup {
					seen[w] = struct{}{}
					keywords = append(keywords, w)
				}
			}
		}
		token = token[:0]
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c >= 'A' && c <= 'Z':
			token = append(token, c+('a'-'A'))
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			token = append(token, c)
		default:
			flush()
		}
	}
	flush()

	return keywords
}

// lower ASCII 小写，与关键词规则保持一致
func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
