// Package scramble builds randomized face-turn sequences.
package scramble

import (
	"iter"
	"math/rand"
	"strings"
	"time"
)

// DefaultLength is the number of moves in a standard 3x3 scramble.
const DefaultLength = 20

// maxDraws bounds rejection sampling for the next face.
const maxDraws = 16

// Face identifies one of the six cube faces.
type Face uint8

// Cube faces.
const (
	FaceR Face = iota
	FaceL
	FaceU
	FaceD
	FaceF
	FaceB
	faceCount
)

var faceNames = [faceCount]string{"R", "L", "U", "D", "F", "B"}

// String returns the face letter.
func (f Face) String() string {
	if f >= faceCount {
		return "?"
	}
	return faceNames[f]
}

// Suffix modifies a face turn.
type Suffix uint8

// Turn suffixes.
const (
	SuffixNone Suffix = iota
	SuffixInverse
	SuffixDouble
	suffixCount
)

var suffixNames = [suffixCount]string{"", "'", "2"}

// String returns the suffix notation.
func (s Suffix) String() string {
	if s >= suffixCount {
		return ""
	}
	return suffixNames[s]
}

// Move is a single scramble token.
type Move struct {
	Face   Face
	Suffix Suffix
}

// String returns the move in standard notation.
func (m Move) String() string {
	return m.Face.String() + m.Suffix.String()
}

// Generator produces random scrambles.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Moves lazily yields length moves with no two consecutive moves on the same face.
func (g *Generator) Moves(length int) iter.Seq[Move] {
	return func(yield func(Move) bool) {
		prev := faceCount
		for i := 0; i < length; i++ {
			face := g.nextFace(prev)
			move := Move{Face: face, Suffix: Suffix(g.rnd.Intn(int(suffixCount)))}
			if !yield(move) {
				return
			}
			prev = face
		}
	}
}

// Generate collects a full scramble.
func (g *Generator) Generate(length int) []Move {
	if length <= 0 {
		return nil
	}
	moves := make([]Move, 0, length)
	for m := range g.Moves(length) {
		moves = append(moves, m)
	}
	return moves
}

// Text returns a space-separated scramble of the given length.
func (g *Generator) Text(length int) string {
	return Join(g.Generate(length))
}

// Join renders moves separated by single spaces.
func Join(moves []Move) string {
	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

func (g *Generator) nextFace(prev Face) Face {
	for i := 0; i < maxDraws; i++ {
		face := Face(g.rnd.Intn(int(faceCount)))
		if face != prev {
			return face
		}
	}
	// Pick among the remaining faces once the draw budget is spent.
	offset := Face(1 + g.rnd.Intn(int(faceCount)-1))
	return (prev + offset) % faceCount
}
