package service

import (
	"strings"

	"github.com/docuchat/pdf-gpt-be/types"
)

const answerTemplate = `You are an AI assistant designed to help users understand and explore the content of an uploaded PDF document. Answer the user's question using the document content below as the primary source of truth.

Guidelines:
- Whenever the answer is found in the document content, use it and say so ("According to the document...").
- If the document does not contain the answer, you may use general knowledge, but make clear that the information does not come from the document ("Based on general knowledge...").
- Never attribute to the document information that is not in it.
- If the question is a follow-up or ambiguous, use the conversation history to interpret it.
- If neither the document nor your knowledge covers the question, say you do not know.

Conversation History:
{conversation_history}

PDF Content:
{context}

User Question:
{question}`

// ComposePrompt assembles the final prompt from the retrieved chunks, the
// question and the conversation history. Pure function: no I/O, inputs are
// not mutated. An empty chunk list yields a prompt with an empty context
// block, leaving the model to answer from history and general knowledge.
func ComposePrompt(chunks []types.ScoredChunk, question string, history []types.Turn) string {
	contexts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		contexts = append(contexts, c.Chunk.Content)
	}

	replacer := strings.NewReplacer(
		"{conversation_history}", RenderHistory(history),
		"{context}", strings.Join(contexts, "\n\n"),
		"{question}", question,
	)
	return replacer.Replace(answerTemplate)
}

// RenderHistory renders the conversation as "role: content" lines, oldest
// first.
func RenderHistory(history []types.Turn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		lines = append(lines, turn.Role+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
