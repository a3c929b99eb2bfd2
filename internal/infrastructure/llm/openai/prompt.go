package openai

import (
	"fmt"
	"strings"

	"github.com/dataengy/llm-rag-from-yt/internal/core/domain"
)

const answerSystemPrompt = `Ты помощник, отвечающий на вопросы о содержании видео.
Отвечай только на основе контекста. Если ответа нет в контексте, скажи, что не знаешь.`

func buildAnswerPrompt(question string, sources []domain.ScoredDocument) string {
	var contextBuilder strings.Builder
	for idx, src := range sources {
		contextBuilder.WriteString(fmt.Sprintf(
			"[%d] score=%.3f method=%s\n%s\n\n",
			idx+1,
			src.HybridScore,
			src.Method,
			src.Text,
		))
	}

	return fmt.Sprintf(`Вопрос:
%s

Контекст:
%s`, question, contextBuilder.String())
}
