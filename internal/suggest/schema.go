package suggest

import "github.com/abhisek/hanzi/internal/llm"

// CardsSchema is the shape of a suggestion response.
var CardsSchema = &llm.Schema{
	Name:        "hanzi-cards",
	Description: "A batch of Chinese vocabulary flashcards",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"character": map[string]any{
							"type":        "string",
							"description": "The word in simplified or traditional Chinese characters",
						},
						"pinyin": map[string]any{
							"type":        "string",
							"description": "Pinyin with tone marks, e.g. nǐ hǎo",
						},
						"zhuyin": map[string]any{
							"type":        "string",
							"description": "Zhuyin (bopomofo) reading, e.g. ㄋㄧˇ ㄏㄠˇ",
						},
						"meaning": map[string]any{
							"type":        "string",
							"description": "Short English gloss",
						},
					},
					"required":             []any{"character", "pinyin", "zhuyin", "meaning"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}
