package session

import (
	"fmt"
	"strings"
	"time"
)

// EstimateTokens estimates the token count of text with a Unicode-aware
// heuristic: roughly 4 ASCII characters per token, one non-ASCII character
// per token.
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		if r <= 127 {
			weight += 1
		} else {
			weight += 4
		}
	}
	return (weight + 3) / 4
}

// AddMessage appends a turn to the history with an estimated token count.
func AddMessage(history []Message, role, content string) []Message {
	return append(history, Message{
		Role:       role,
		Content:    content,
		TokenCount: EstimateTokens(content),
		Timestamp:  time.Now(),
	})
}

// TruncateHistory trims the history to the limits, dropping the oldest
// messages first. The message limit applies before the token limit.
func TruncateHistory(history []Message, tokenLimit, messageLimit int) []Message {
	if len(history) == 0 {
		return history
	}

	if messageLimit > 0 && len(history) > messageLimit {
		history = history[len(history)-messageLimit:]
	}

	totalTokens := 0
	for _, msg := range history {
		totalTokens += msg.TokenCount
	}
	for tokenLimit > 0 && totalTokens > tokenLimit && len(history) > 0 {
		totalTokens -= history[0].TokenCount
		history = history[1:]
	}
	return history
}

// Transcript renders the user turns of a history as numbered lines in the
// form the chat prompt expects, oldest first.
func Transcript(history []Message) string {
	var lines []string
	n := 0
	for _, msg := range history {
		if msg.Role != "user" {
			continue
		}
		n++
		lines = append(lines, fmt.Sprintf("history ke-%d: %s", n, msg.Content))
	}
	return strings.Join(lines, "\n")
}
