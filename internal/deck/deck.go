// Package deck reads and writes the line-oriented deck format:
//
//	character,pinyin,meaning
//	character,pinyin,zhuyin,meaning
package deck

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/hanzi/internal/card"
)

const bom = "\uFEFF"

// ParseLine parses a single deck line. It returns false for blank lines and
// lines with fewer than three fields. Fields past the fourth are ignored.
func ParseLine(line string) (card.Draft, bool) {
	line = strings.TrimSpace(strings.TrimPrefix(line, bom))
	if line == "" {
		return card.Draft{}, false
	}

	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch {
	case len(parts) < 3:
		return card.Draft{}, false
	case len(parts) == 3:
		return card.Draft{Character: parts[0], Pinyin: parts[1], Meaning: parts[2]}, true
	default:
		return card.Draft{Character: parts[0], Pinyin: parts[1], Zhuyin: parts[2], Meaning: parts[3]}, true
	}
}

// Parse reads deck lines from r. Malformed lines are skipped.
func Parse(r io.Reader) ([]card.Draft, error) {
	scanner := bufio.NewScanner(r)
	var drafts []card.Draft
	for scanner.Scan() {
		if d, ok := ParseLine(scanner.Text()); ok {
			drafts = append(drafts, d)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return drafts, nil
}

// ParseFile reads the deck file at path.
func ParseFile(path string) ([]card.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f)
}

// FormatLine renders c as one deck line without a trailing newline. Both
// pronunciations produce four fields; otherwise the one present fills the
// pronunciation slot.
func FormatLine(c card.Card) string {
	if c.Pinyin != "" && c.Zhuyin != "" {
		return strings.Join([]string{c.Character, c.Pinyin, c.Zhuyin, c.Meaning}, ",")
	}
	pron := c.Pinyin
	if pron == "" {
		pron = c.Zhuyin
	}
	return strings.Join([]string{c.Character, pron, c.Meaning}, ",")
}

// ErrComma is returned by Export for a card whose fields contain a comma.
// Such a card would not survive a round trip through the deck format.
var ErrComma = errors.New("field contains a comma")

// Export writes one line per card to w. Nothing is written if any card has a
// comma in one of its fields.
func Export(w io.Writer, cards []card.Card) error {
	for _, c := range cards {
		if strings.Contains(c.Character+c.Pinyin+c.Zhuyin+c.Meaning, ",") {
			return fmt.Errorf("export %s: %w", c.Character, ErrComma)
		}
	}
	bw := bufio.NewWriter(w)
	for _, c := range cards {
		if _, err := bw.WriteString(FormatLine(c) + "\n"); err != nil {
			return fmt.Errorf("write deck: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write deck: %w", err)
	}
	return nil
}
