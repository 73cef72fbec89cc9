package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/hanzi/internal/card"
)

// MaxPairs caps the number of cards laid out on a matching board.
const MaxPairs = 8

// TileKind says which face of a card a tile shows.
type TileKind int

const (
	CharacterTile TileKind = iota
	MeaningTile
)

// Tile is one face-down square on the board.
type Tile struct {
	CardID  card.ID
	Kind    TileKind
	Text    string
	Matched bool
}

// MatchResult describes what a selection did.
type MatchResult int

const (
	// Picked means the tile is the first of a pair.
	Picked MatchResult = iota
	// Matched means the tile completed a pair.
	Matched
	// Mismatched means the two tiles did not belong together.
	Mismatched
)

// MatchingBoard pairs each card's character with its meaning.
type MatchingBoard struct {
	tiles    []Tile
	selected int
	found    int
	moves    int
}

// NewMatchingBoard lays out the first MaxPairs cards as shuffled tiles.
func NewMatchingBoard(cards []card.Card, rng *rand.Rand) (*MatchingBoard, error) {
	if len(cards) < OptionCount {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughCards, OptionCount, len(cards))
	}

	n := min(MaxPairs, len(cards))
	tiles := make([]Tile, 0, 2*n)
	for _, c := range cards[:n] {
		tiles = append(tiles,
			Tile{CardID: c.ID, Kind: CharacterTile, Text: c.Character},
			Tile{CardID: c.ID, Kind: MeaningTile, Text: c.Meaning},
		)
	}
	rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })

	return &MatchingBoard{tiles: tiles, selected: -1}, nil
}

// Tiles returns a copy of the board.
func (b *MatchingBoard) Tiles() []Tile {
	return append([]Tile(nil), b.tiles...)
}

// Selected returns the index of the tile waiting for its pair, or -1.
func (b *MatchingBoard) Selected() int {
	return b.selected
}

// Select turns over tile i. The second tile of a move either matches the
// first or both are turned back.
func (b *MatchingBoard) Select(i int) (MatchResult, error) {
	if b.Done() {
		return 0, ErrRoundOver
	}
	if i < 0 || i >= len(b.tiles) || b.tiles[i].Matched {
		return 0, fmt.Errorf("%w: tile %d", ErrBadChoice, i)
	}
	if b.selected < 0 || b.selected == i {
		b.selected = i
		return Picked, nil
	}

	first, second := &b.tiles[b.selected], &b.tiles[i]
	b.selected = -1
	b.moves++
	if first.CardID == second.CardID && first.Kind != second.Kind {
		first.Matched = true
		second.Matched = true
		b.found++
		return Matched, nil
	}
	return Mismatched, nil
}

// Done reports whether every pair has been found.
func (b *MatchingBoard) Done() bool {
	return b.found*2 == len(b.tiles)
}

// Moves returns the number of pair attempts.
func (b *MatchingBoard) Moves() int {
	return b.moves
}

// Pairs returns the number of pairs found and on the board.
func (b *MatchingBoard) Pairs() (found, total int) {
	return b.found, len(b.tiles) / 2
}
