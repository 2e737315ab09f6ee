package table

import (
	"sort"

	"tictactoe/game"
)

// ValueTable maps states to learned values. Unseen states read as 0. It
// doubles as the set of states value iteration refines.
type ValueTable struct {
	values map[game.StateKey]float64
}

func NewValueTable() *ValueTable {
	return &ValueTable{values: make(map[game.StateKey]float64)}
}

func (v *ValueTable) Get(key game.StateKey) float64 {
	return v.values[key]
}

func (v *ValueTable) Set(key game.StateKey, value float64) {
	v.values[key] = value
}

func (v *ValueTable) Has(key game.StateKey) bool {
	_, ok := v.values[key]
	return ok
}

// Register records key with value 0 unless it is already known.
func (v *ValueTable) Register(key game.StateKey) {
	if _, ok := v.values[key]; !ok {
		v.values[key] = 0
	}
}

// Keys returns a sorted snapshot of the known states.
func (v *ValueTable) Keys() []game.StateKey {
	keys := make([]game.StateKey, 0, len(v.values))
	for key := range v.values {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (v *ValueTable) Len() int {
	return len(v.values)
}

func (v *ValueTable) Reset() {
	v.values = make(map[game.StateKey]float64)
}

// BestMove picks, for a known state, the legal move whose successor state has
// the highest stored value when mover plays it.
func (v *ValueTable) BestMove(key game.StateKey, mover game.Symbol) (game.Move, bool) {
	if !v.Has(key) {
		return game.Move{}, false
	}
	board, err := game.Decode(key)
	if err != nil {
		return game.Move{}, false
	}
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return game.Move{}, false
	}

	var best game.Move
	bestValue := 0.0
	for i, move := range moves {
		if err := board.Apply(move, mover); err != nil {
			return game.Move{}, false
		}
		value := v.Get(game.Encode(board))
		board.Undo(move)
		if i == 0 || value > bestValue {
			best, bestValue = move, value
		}
	}
	return best, true
}
