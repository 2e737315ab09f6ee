package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func boardFrom(t *testing.T, rows ...string) *Board {
	t.Helper()
	key := ""
	for _, row := range rows {
		key += row
	}
	b, err := Decode(StateKey(key))
	require.NoError(t, err)
	return b
}

func TestBoardStatus(t *testing.T) {
	t.Run("full boards report a line before declaring a draw", func(t *testing.T) {
		b := boardFrom(t, "XXO", "OXO", "OXX")
		// X holds the main diagonal on this board, so it is not a draw.
		status, winner := b.Status()
		require.Equal(t, Won, status)
		require.Equal(t, X, winner)

		b = boardFrom(t, "XXO", "OOX", "XOX")
		status, winner = b.Status()
		require.Equal(t, Draw, status, "Full board with no line should be a draw")
		require.Equal(t, Empty, winner)
		require.True(t, b.IsTerminal())
	})

	t.Run("top row wins", func(t *testing.T) {
		b := boardFrom(t, "XXX", "OO ", "   ")
		status, winner := b.Status()
		require.Equal(t, Won, status)
		require.Equal(t, X, winner, "X should win via the top row")
	})

	t.Run("column and anti-diagonal win", func(t *testing.T) {
		require.Equal(t, O, boardFrom(t, "XO ", "XO ", " O ").Winner())
		require.Equal(t, O, boardFrom(t, "X O", "XO ", "O  ").Winner())
	})

	t.Run("empty board is ongoing", func(t *testing.T) {
		b, err := NewBoard(5)
		require.NoError(t, err)
		status, _ := b.Status()
		require.Equal(t, Ongoing, status)
		require.Len(t, b.LegalMoves(), 25)
	})

	t.Run("a partial line does not win on larger boards", func(t *testing.T) {
		b := boardFrom(t, "XXXX ", "     ", "     ", "     ", "     ")
		require.Equal(t, Empty, b.Winner())
	})
}

func TestBoardApply(t *testing.T) {
	b, err := NewBoard(3)
	require.NoError(t, err)

	require.NoError(t, b.Apply(Move{Row: 1, Col: 2}, X))
	require.Equal(t, X, b.At(1, 2))

	err = b.Apply(Move{Row: 1, Col: 2}, O)
	require.ErrorIs(t, err, ErrInvalidMove, "Occupied cell should be rejected")

	err = b.Apply(Move{Row: 3, Col: 0}, O)
	require.ErrorIs(t, err, ErrInvalidMove, "Out of bounds cell should be rejected")

	err = b.Apply(Move{Row: 0, Col: 0}, Empty)
	require.ErrorIs(t, err, ErrInvalidSymbol)

	b.Undo(Move{Row: 1, Col: 2})
	require.Equal(t, Empty, b.At(1, 2))
	require.Len(t, b.LegalMoves(), 9)

	_, err = NewBoard(0)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestBoardCopyIsIndependent(t *testing.T) {
	b, err := NewBoard(3)
	require.NoError(t, err)
	c := b.Copy()
	require.NoError(t, c.Apply(Move{Row: 0, Col: 0}, O))

	require.Equal(t, Empty, b.At(0, 0), "Original board should not change")
	require.False(t, b.Equal(c))
}
