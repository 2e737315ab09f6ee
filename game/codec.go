package game

import (
	"fmt"
	"math"
)

// StateKey is the row-major concatenation of a board's cell symbols.
type StateKey string

// Encode maps a board to its state key.
func Encode(b *Board) StateKey {
	buf := make([]byte, len(b.cells))
	for i, cell := range b.cells {
		buf[i] = byte(cell)
	}
	return StateKey(buf)
}

// Decode rebuilds the board a key was encoded from. The key length must be a
// non-zero perfect square and every character a cell symbol.
func Decode(key StateKey) (*Board, error) {
	size := sideLength(len(key))
	if size == 0 || size*size != len(key) {
		return nil, fmt.Errorf("%w: length %d is not a perfect square", ErrInvalidStateKey, len(key))
	}

	cells := make([]Symbol, len(key))
	for i := 0; i < len(key); i++ {
		s := Symbol(key[i])
		if !s.Valid() {
			return nil, fmt.Errorf("%w: unexpected symbol %q at %d", ErrInvalidStateKey, key[i], i)
		}
		cells[i] = s
	}
	return &Board{size: size, cells: cells}, nil
}

// Size returns the board side length encoded by the key, or 0 when the key
// length is not a perfect square.
func (k StateKey) Size() int {
	size := sideLength(len(k))
	if size*size != len(k) {
		return 0
	}
	return size
}

// sideLength is the integer square root of n.
func sideLength(n int) int {
	size := int(math.Sqrt(float64(n)))
	for size*size > n {
		size--
	}
	for (size+1)*(size+1) <= n {
		size++
	}
	return size
}
