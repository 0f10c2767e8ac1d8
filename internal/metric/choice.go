package metric

import (
	"strings"

	"github.com/stellarlinkco/benchlab/internal/bench"
	"github.com/stellarlinkco/benchlab/internal/stats"
)

// choiceLetters bounds how far into the alphabet a multiple-choice
// answer may reach.
const choiceLetters = "ABCDEFGH"

// AnswerChoice is a categorical metric: the multiple-choice letter the
// response settles on, normalized to upper case. Scores nil when the
// attempt has no response or no letter can be extracted.
type AnswerChoice struct{}

// Name returns the metric identifier.
func (AnswerChoice) Name() string { return "answer_choice" }

// Kind returns the output type tag.
func (AnswerChoice) Kind() stats.Kind { return stats.Categorical }

// Score extracts the chosen letter from one attempt's response.
func (AnswerChoice) Score(inst bench.Instance, att bench.Attempt) any {
	if att.Response == nil {
		return nil
	}
	letter, ok := extractChoice(*att.Response)
	if !ok {
		return nil
	}
	return letter
}

// extractChoice scans for a standalone choice letter, preferring the
// first token of the response ("B", "B.", "(b) because ...").
func extractChoice(s string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	for _, f := range fields {
		token := strings.Trim(f, "().:,*")
		if len(token) != 1 {
			continue
		}
		upper := strings.ToUpper(token)
		if strings.Contains(choiceLetters, upper) {
			return upper, true
		}
	}
	return "", false
}
