package suggest

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write Chinese vocabulary flashcards for an English speaking learner.

Rules:
- Each card is one word or short phrase that a learner would meet when studying the topic.
- Give pinyin with tone marks, zhuyin, and a short English meaning of at most a few words.
- Never put a comma in any field.
- Prefer common, everyday words over rare ones.
- Never repeat a word from the "already known" list.
- Return exactly the requested number of cards.`

func userMessage(topic string, n int, known []string, maxKnown int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Number of cards: %d\n", n)

	b.WriteString("\nAlready known:\n")
	if maxKnown > 0 && len(known) > maxKnown {
		known = known[len(known)-maxKnown:]
	}
	if len(known) == 0 {
		b.WriteString("None")
	} else {
		b.WriteString(strings.Join(known, ", "))
	}
	return b.String()
}
