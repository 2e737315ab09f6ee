package searcher

import "tictactoe/game"

// NodeID is a handle into a Tree's node arena.
type NodeID int

const NoNode NodeID = -1

// Node is one position reached from the root. Parent and children are arena
// handles, so a whole tree is released by dropping the Tree.
type Node struct {
	game     *game.Game
	parent   NodeID
	children []NodeID
	move     game.Move
	visits   int
	value    float64
}

func (n *Node) Game() *game.Game   { return n.game }
func (n *Node) Parent() NodeID     { return n.parent }
func (n *Node) Children() []NodeID { return n.children }
func (n *Node) Visits() int        { return n.visits }
func (n *Node) Value() float64     { return n.value }

// Move returns the move that produced this node; false for the root.
func (n *Node) Move() (game.Move, bool) {
	return n.move, n.parent != NoNode
}

type Tree struct {
	nodes []Node
}

// NewTree returns a tree whose root wraps an independent copy of g.
func NewTree(g *game.Game) *Tree {
	t := &Tree{nodes: make([]Node, 0, 64)}
	t.nodes = append(t.nodes, Node{game: g.Copy(), parent: NoNode})
	return t
}

func (t *Tree) Root() NodeID {
	return 0
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node behind id. The pointer is invalidated by AddChild.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// AddChild appends a child of parent reached by move. The tree takes
// ownership of g.
func (t *Tree) AddChild(parent NodeID, move game.Move, g *game.Game) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{game: g, parent: parent, move: move})
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

func (t *Tree) childMoves(id NodeID) []game.Move {
	children := t.nodes[id].children
	moves := make([]game.Move, len(children))
	for i, child := range children {
		moves[i] = t.nodes[child].move
	}
	return moves
}

// score is the UCB1 value of a non-root node.
func (t *Tree) score(id NodeID, c float64) float64 {
	n := &t.nodes[id]
	return ucb1(n.value, n.visits, t.nodes[n.parent].visits, c)
}

// pickChild returns the child with the highest UCB1 score, the first
// unvisited child winning outright.
func (t *Tree) pickChild(id NodeID, c float64) NodeID {
	best := NoNode
	bestScore := 0.0
	for _, child := range t.nodes[id].children {
		s := t.score(child, c)
		if best == NoNode || s > bestScore {
			best, bestScore = child, s
		}
	}
	return best
}

func (t *Tree) update(id NodeID, result float64) NodeID {
	n := &t.nodes[id]
	n.visits++
	n.value += result
	return n.parent
}

// mostVisited returns the root child with the most visits, first on ties.
func (t *Tree) mostVisited(id NodeID) NodeID {
	best := NoNode
	maxVisits := -1
	for _, child := range t.nodes[id].children {
		if v := t.nodes[child].visits; v > maxVisits {
			best, maxVisits = child, v
		}
	}
	return best
}
