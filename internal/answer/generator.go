// Package answer generates grounded clinical answers from retrieval results.
// When no chat capability is configured (or the call fails) it falls back to a
// deterministic template response, so answer generation never fails a request.
package answer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"patient360/internal/contextutil"
	"patient360/internal/llm"
	"patient360/internal/retrieval"
)

const systemInstructions = `You are a clinical decision support assistant helping healthcare providers review patient information.

Your role is to:
1. Answer questions accurately based ONLY on the provided context
2. Cite sources using [Source N] format when referencing information
3. Suggest appropriate next clinical actions
4. Be concise but thorough
5. If the context doesn't contain enough information to fully answer, say so

IMPORTANT:
- Only use information from the provided sources
- Always cite which source(s) you used
- Do not make up information not present in the context
- Use clinical terminology appropriately`

// Answer is a generated response with recommended follow-up actions.
type Answer struct {
	Text        string
	NextActions []string
	ModelUsed   string // Empty when the template fallback produced the answer
}

// Generator produces grounded answers from retrieval results.
type Generator struct {
	completer llm.Completer // nil means template fallback only
	model     string
	timeout   time.Duration
	logger    *slog.Logger
}

// NewGenerator creates a new answer generator.
// completer may be nil; every answer then comes from the template fallback.
func NewGenerator(completer llm.Completer, model string, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{
		completer: completer,
		model:     model,
		timeout:   timeout,
		logger:    slog.Default(),
	}
}

// Generate answers a clinical question grounded in the given sources.
// It never returns an error for capability failures: the template fallback
// covers unconfigured and failing completers alike.
func (g *Generator) Generate(ctx context.Context, question, patientName string, sources []retrieval.Result) Answer {
	logger := contextutil.LoggerFromContext(ctx)

	if g.completer == nil {
		return templateAnswer(question, patientName, sources)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	messages := []llm.Message{
		{Role: "system", Content: systemInstructions},
		{Role: "user", Content: buildPrompt(question, patientName, sources)},
	}

	text, err := g.completer.ChatWithMessages(callCtx, messages, llm.ChatParams{
		MaxTokens:   1000,
		Temperature: 0.3,
	})
	if err != nil {
		logger.WarnContext(ctx, "chat completion failed, using template answer", "error", err)
		return templateAnswer(question, patientName, sources)
	}

	answerText, actions := parseResponse(text)
	return Answer{
		Text:        answerText,
		NextActions: actions,
		ModelUsed:   g.model,
	}
}

// buildPrompt formats the question and numbered sources into the user message.
func buildPrompt(question, patientName string, sources []retrieval.Result) string {
	var contextBuilder strings.Builder
	for i, source := range sources {
		fmt.Fprintf(&contextBuilder, "[Source %d - %s] %s:\n%s\n\n",
			i+1, strings.ToUpper(string(source.SourceType)), source.Label, source.Snippet)
	}

	contextStr := contextBuilder.String()
	if contextStr == "" {
		contextStr = "No relevant context found.\n\n"
	}

	return fmt.Sprintf(`Patient: %s

Question: %s

Relevant Context:
%s
Please provide:
1. A direct answer to the question based on the context
2. 2-3 recommended next actions for the care team

Format your response as:
ANSWER: [Your answer here with citations]

NEXT ACTIONS:
- [Action 1]
- [Action 2]
- [Action 3]`, patientName, question, contextStr)
}

// parseResponse splits a completion into the answer text and next actions.
func parseResponse(text string) (string, []string) {
	answer := text
	var actions []string

	if idx := strings.Index(text, "NEXT ACTIONS:"); idx >= 0 {
		answer = text[:idx]
		for _, line := range strings.Split(text[idx+len("NEXT ACTIONS:"):], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
				action := strings.TrimSpace(strings.TrimLeft(line, "-•"))
				if action != "" {
					actions = append(actions, action)
				}
			}
		}
	}

	if idx := strings.Index(answer, "ANSWER:"); idx >= 0 {
		answer = answer[idx+len("ANSWER:"):]
	}
	answer = strings.TrimSpace(answer)

	if len(actions) == 0 {
		actions = []string{
			"Review full clinical context",
			"Document assessment in patient record",
			"Follow up as clinically appropriate",
		}
	}

	return answer, actions
}

// templateAnswer builds a deterministic answer when no completer is available.
// The shape of the response is keyed on question keywords so common clinical
// questions still get a useful summary of the retrieved sources.
func templateAnswer(question, patientName string, sources []retrieval.Result) Answer {
	questionLower := strings.ToLower(question)

	var notes, labs, meds []retrieval.Result
	for _, s := range sources {
		switch s.SourceType {
		case retrieval.SourceNote:
			notes = append(notes, s)
		case retrieval.SourceLab:
			labs = append(labs, s)
		case retrieval.SourceMedication:
			meds = append(meds, s)
		}
	}

	var text string
	var actions []string

	switch {
	case strings.Contains(questionLower, "changed") || strings.Contains(questionLower, "recent"):
		text = changesTemplate(patientName, notes, labs, meds)
		actions = []string{
			"Review medication changes with patient",
			"Confirm lab trends are in expected direction",
			"Schedule follow-up to assess treatment response",
		}
	case strings.Contains(questionLower, "dose") || len(meds) > 0:
		text = medicationTemplate(patientName, meds, labs, notes)
		actions = []string{
			"Monitor relevant lab values",
			"Assess clinical response to medication changes",
			"Document rationale in medication history",
		}
	default:
		text = genericTemplate(patientName, sources)
		actions = []string{
			"Review relevant clinical context",
			"Document findings in patient record",
			"Follow up as clinically indicated",
		}
	}

	return Answer{Text: text, NextActions: actions}
}

func changesTemplate(patientName string, notes, labs, meds []retrieval.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the available records for %s, here are the key changes:\n", patientName)

	if len(meds) > 0 {
		b.WriteString("\n**Medication Changes:**\n")
		for _, med := range capSources(meds, 3) {
			fmt.Fprintf(&b, "- %s: %s [Source: %s]\n", med.Label, med.Snippet, med.SourceType)
		}
	}
	if len(labs) > 0 {
		b.WriteString("\n**Lab Results:**\n")
		for _, lab := range capSources(labs, 3) {
			fmt.Fprintf(&b, "- %s: %s [Source: %s]\n", lab.Label, lab.Snippet, lab.SourceType)
		}
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, "\n**Clinical Notes:**\n- %d relevant clinical notes found documenting recent care\n", len(notes))
	}
	if len(meds) == 0 && len(labs) == 0 && len(notes) == 0 {
		b.WriteString("Limited information available in the retrieved context.\n")
	}
	return b.String()
}

func medicationTemplate(patientName string, meds, labs, notes []retrieval.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Regarding medication management for %s:\n", patientName)

	if len(meds) > 0 {
		fmt.Fprintf(&b, "\n**Medication Record:** %s\n", meds[0].Snippet)
	}
	if len(labs) > 0 {
		b.WriteString("\n**Related Lab Values:**\n")
		for _, lab := range capSources(labs, 3) {
			fmt.Fprintf(&b, "- %s: %s\n", lab.Label, lab.Snippet)
		}
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, "\n**Clinical Documentation:** Found %d relevant notes discussing this decision\n", len(notes))
	}
	if len(meds) == 0 {
		b.WriteString("No medication records matched the question in the retrieved context.\n")
	}
	return b.String()
}

func genericTemplate(patientName string, sources []retrieval.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the available records for %s:\n", patientName)

	if len(sources) == 0 {
		b.WriteString("No relevant information found in the available records.\n")
		b.WriteString("Please try rephrasing your question or check that relevant data exists for this patient.\n")
		return b.String()
	}

	b.WriteString("\n**Relevant Information Found:**\n")
	for _, source := range capSources(sources, 5) {
		fmt.Fprintf(&b, "\n[%s - %s]\n%s\n", strings.ToUpper(string(source.SourceType)), source.Label, source.Snippet)
	}
	return b.String()
}

func capSources(sources []retrieval.Result, n int) []retrieval.Result {
	if len(sources) > n {
		return sources[:n]
	}
	return sources
}
