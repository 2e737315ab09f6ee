package game

import "fmt"

// Move identifies a cell by zero-based row and column.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.Row, m.Col)
}

// Less orders moves row-major.
func (m Move) Less(other Move) bool {
	if m.Row != other.Row {
		return m.Row < other.Row
	}
	return m.Col < other.Col
}
