package llm

import "fmt"

// SummarySystemPrompt directs the model toward short Markdown summaries.
const SummarySystemPrompt = "You are an expert summarizer. Provide a concise, easy-to-understand summary of the key points from the following video transcript. Focus on the main topics and conclusions. Format the output using Markdown with clear headings (e.g., ## Key Points, ## Summary) and bullet points for key takeaways."

const healthCheckPrompt = "Reply with the single word OK."

// SummaryUserPrompt wraps transcript in the delimited block the system prompt
// refers to.
func SummaryUserPrompt(transcript string) string {
	return fmt.Sprintf("Please summarize this transcript:\n\n---\n%s\n---", transcript)
}
