package table

import (
	"sort"

	"tictactoe/game"
)

// QTable maps (state, move) pairs to learned values. Unseen pairs read as 0.
// It is not safe for concurrent use.
type QTable struct {
	values map[game.StateKey]map[game.Move]float64
}

type QEntry struct {
	State game.StateKey
	Move  game.Move
	Value float64
}

func NewQTable() *QTable {
	return &QTable{values: make(map[game.StateKey]map[game.Move]float64)}
}

func (q *QTable) Get(key game.StateKey, move game.Move) float64 {
	return q.values[key][move]
}

func (q *QTable) Set(key game.StateKey, move game.Move, value float64) {
	row, ok := q.values[key]
	if !ok {
		row = make(map[game.Move]float64)
		q.values[key] = row
	}
	row[move] = value
}

// Has reports whether any move has been recorded for key.
func (q *QTable) Has(key game.StateKey) bool {
	return len(q.values[key]) > 0
}

// MaxOver returns the highest value among moves from key, or 0 without moves.
func (q *QTable) MaxOver(key game.StateKey, moves []game.Move) float64 {
	if len(moves) == 0 {
		return 0
	}
	best := q.Get(key, moves[0])
	for _, move := range moves[1:] {
		if v := q.Get(key, move); v > best {
			best = v
		}
	}
	return best
}

// BestMove returns the recorded move with the highest value for key, the
// first in row-major order on ties.
func (q *QTable) BestMove(key game.StateKey, _ game.Symbol) (game.Move, bool) {
	row := q.values[key]
	if len(row) == 0 {
		return game.Move{}, false
	}
	moves := sortedMoves(row)
	best := moves[0]
	for _, move := range moves[1:] {
		if row[move] > row[best] {
			best = move
		}
	}
	return best, true
}

// Len returns the number of recorded (state, move) pairs.
func (q *QTable) Len() int {
	n := 0
	for _, row := range q.values {
		n += len(row)
	}
	return n
}

// States returns the number of distinct states with recorded moves.
func (q *QTable) States() int {
	return len(q.values)
}

func (q *QTable) Reset() {
	q.values = make(map[game.StateKey]map[game.Move]float64)
}

// Entries lists every pair ordered by state then move.
func (q *QTable) Entries() []QEntry {
	keys := make([]game.StateKey, 0, len(q.values))
	for key := range q.values {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	entries := make([]QEntry, 0, q.Len())
	for _, key := range keys {
		row := q.values[key]
		for _, move := range sortedMoves(row) {
			entries = append(entries, QEntry{State: key, Move: move, Value: row[move]})
		}
	}
	return entries
}

func sortedMoves(row map[game.Move]float64) []game.Move {
	moves := make([]game.Move, 0, len(row))
	for move := range row {
		moves = append(moves, move)
	}
	sort.Slice(moves, func(i, j int) bool { return moves[i].Less(moves[j]) })
	return moves
}
