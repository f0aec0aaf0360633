package ai

import "fmt"

const chatSystemPrompt = `You are a study assistant. Answer the question ` +
	`using only the provided document context. Answer in the language of the ` +
	`question. If the context does not contain the answer, say so briefly.`

func conceptPrompt(text string) string {
	return fmt.Sprintf(`Extract the key concepts from the following study material.
For each concept give a short label, a type (concept, topic, definition, example, theory, formula, person, place or event), a one-sentence description and an importance between 0 and 1.

Material:
%s`, text)
}

func relationPrompt(text string, concepts []string) string {
	return fmt.Sprintf(`Identify relations between the listed concepts as they appear in the material.
Use the relation types related_to, part_of, depends_on, similar_to, opposite_to, example_of or leads_to, and give each relation a weight between 0 and 1.

Concepts: %v

Material:
%s`, concepts, text)
}

func questionPrompt(text string, count int) string {
	return fmt.Sprintf(`Write %d study questions that test understanding of the following material. Return only the questions.

Material:
%s`, count, text)
}

func summaryPrompt(text string, maxLength int) string {
	return fmt.Sprintf(`Summarize the following study material in at most %d characters. Keep the language of the material.

Material:
%s`, maxLength, text)
}

func chatPrompt(contextText, question string) string {
	return fmt.Sprintf(`Context:
%s

Question: %s`, contextText, question)
}
