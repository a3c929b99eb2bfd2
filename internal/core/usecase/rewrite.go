package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
	"github.com/dataengy/llm-rag-from-yt/internal/core/ports"
)

// QueryRewriter expands a user query into semantically equivalent variants:
// paraphrases from an optional LLM backend plus deterministic rule-based
// transformations that are always available. A failing LLM never fails the
// rewrite; rule variants and the original query survive on their own.
type QueryRewriter struct {
	llm           ports.CompletionClient
	domainContext string
	params        SearchParams
}

func NewQueryRewriter(llm ports.CompletionClient, domainContext string, params SearchParams) *QueryRewriter {
	if strings.TrimSpace(domainContext) == "" {
		domainContext = "YouTube audio content"
	}
	return &QueryRewriter{
		llm:           llm,
		domainContext: domainContext,
		params:        params.normalize(),
	}
}

// Rewrite produces the variant set for a query. AllQueries keeps first-seen
// order: original, then LLM paraphrases, then rule variants, deduplicated
// case-insensitively with blanks dropped.
func (r *QueryRewriter) Rewrite(ctx context.Context, query string) domain.RewriteResult {
	llmVariants := r.llmVariants(ctx, query)
	ruleVariants := r.ruleVariants(query)

	all := make([]string, 0, 1+len(llmVariants)+len(ruleVariants))
	all = append(all, query)
	all = append(all, llmVariants...)
	all = append(all, ruleVariants...)

	seen := make(map[string]struct{}, len(all))
	unique := make([]string, 0, len(all))
	for _, variant := range all {
		variant = strings.TrimSpace(variant)
		key := strings.ToLower(variant)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, variant)
	}

	result := domain.RewriteResult{
		OriginalQuery: query,
		AllQueries:    unique,
	}
	if len(unique) > 1 {
		result.RewrittenQueries = unique[1:]
	} else {
		result.RewrittenQueries = []string{}
	}
	return result
}

func (r *QueryRewriter) llmVariants(ctx context.Context, query string) []string {
	if r.llm == nil {
		return nil
	}

	systemPrompt := fmt.Sprintf(`You are a query expansion expert for %s.
Rewrite the user's query to improve information retrieval.

Generate %d different variants of the query that:
1. Preserve the original intent
2. Use different keywords or phrasing
3. Add relevant context or specificity

Return only the rewritten queries, one per line, without numbering or extra text.`,
		r.domainContext, r.params.RewriteVariants)
	userPrompt := fmt.Sprintf("Original query: %s\n\nGenerate %d improved variants:", query, r.params.RewriteVariants)

	response, err := r.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		// Recoverable by design of the pipeline: rule-based variants and the
		// original query still run.
		slog.Warn("llm_rewrite_failed", "error", err)
		return nil
	}

	variants := make([]string, 0, r.params.RewriteVariants)
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		variants = append(variants, line)
		if len(variants) == r.params.RewriteVariants {
			break
		}
	}
	return variants
}

func (r *QueryRewriter) ruleVariants(query string) []string {
	variants := make([]string, 0, 8)
	variants = append(variants, injectQuestionWords(query)...)
	variants = append(variants, expandSynonyms(query)...)
	variants = append(variants, isolateKeyTerms(query)...)
	variants = append(variants, expandDomainTerms(query)...)

	if len(variants) > r.params.RuleVariantCap {
		variants = variants[:r.params.RuleVariantCap]
	}
	return variants
}

// Rule tables are ordered slices, not maps, so variant order is stable
// across runs.

var questionPatterns = []struct {
	pattern    *regexp.Regexp
	expansions []string
}{
	{regexp.MustCompile(`(^|\s)(about|про|о)($|\s)`), []string{"What is discussed about", "Tell me about"}},
	{regexp.MustCompile(`(^|\s)(how|как)($|\s)`), []string{"How exactly", "In what way"}},
	{regexp.MustCompile(`(^|\s)(why|почему|зачем)($|\s)`), []string{"What is the reason", "Why specifically"}},
	{regexp.MustCompile(`(^|\s)(when|когда)($|\s)`), []string{"At what time", "When exactly"}},
	{regexp.MustCompile(`(^|\s)(who|кто)($|\s)`), []string{"Which person", "Who specifically"}},
}

func injectQuestionWords(query string) []string {
	lower := strings.ToLower(query)
	variants := make([]string, 0, 4)
	for _, qp := range questionPatterns {
		if !qp.pattern.MatchString(lower) {
			continue
		}
		for _, expansion := range qp.expansions {
			if strings.HasPrefix(lower, strings.ToLower(expansion)) {
				continue
			}
			variants = append(variants, expansion+" "+query)
		}
	}
	return variants
}

var synonymTable = []struct {
	word     string
	synonyms []string
}{
	{"говорить", []string{"обсуждать", "рассказывать", "упоминать"}},
	{"видео", []string{"контент", "запись", "материал"}},
	{"тема", []string{"вопрос", "проблема", "аспект"}},
	{"discuss", []string{"talk about", "mention", "cover"}},
	{"video", []string{"content", "recording", "material"}},
	{"topic", []string{"subject", "theme", "issue"}},
}

func expandSynonyms(query string) []string {
	variants := make([]string, 0, 4)
	for _, entry := range synonymTable {
		for _, synonym := range entry.synonyms {
			variant := replaceWholeWord(query, entry.word, synonym)
			if variant != query {
				variants = append(variants, variant)
			}
		}
	}
	return variants
}

// replaceWholeWord substitutes every whole-word occurrence, case-insensitive.
// Go's regexp \b is ASCII-only, so Cyrillic boundaries are handled by
// trimming non-letter runes per token instead.
func replaceWholeWord(query, from, to string) string {
	fields := strings.Fields(query)
	changed := false
	for i, field := range fields {
		core := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if core == "" || !strings.EqualFold(core, from) {
			continue
		}
		fields[i] = strings.Replace(field, core, to, 1)
		changed = true
	}
	if !changed {
		return query
	}
	return strings.Join(fields, " ")
}

var interrogativeWords = map[string]struct{}{
	"что": {}, "как": {}, "где": {}, "когда": {}, "почему": {}, "кто": {}, "какой": {},
	"what": {}, "how": {}, "where": {}, "when": {}, "why": {}, "who": {}, "which": {},
}

// isolateKeyTerms strips interrogative words and punctuation, leaving the
// content terms as one additional variant when it differs from the original.
func isolateKeyTerms(query string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, query)

	kept := make([]string, 0, 8)
	for _, word := range strings.Fields(cleaned) {
		if _, drop := interrogativeWords[strings.ToLower(word)]; drop {
			continue
		}
		kept = append(kept, word)
	}

	terms := strings.Join(kept, " ")
	if terms == "" || terms == strings.TrimSpace(query) {
		return nil
	}
	return []string{terms}
}

func expandDomainTerms(query string) []string {
	lower := strings.ToLower(query)
	variants := make([]string, 0, 4)

	if !containsAny(lower, "видео", "видеозапись", "video", "recording") {
		variants = append(variants, query+" в видео", "в записи "+query)
	}
	if !containsAny(lower, "говорят", "обсуждают", "mention", "discuss") {
		variants = append(variants, "что говорят про "+query, "обсуждение "+query)
	}
	return variants
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
