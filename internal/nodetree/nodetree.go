package nodetree

import "time"

type (
	// Node is a closed span of a frame. Timestamps are nanoseconds relative
	// to the start of the frame the node belongs to.
	//
	// A Node has no reference to its parent: trees are built bottom-up by the
	// recorder and only ever walked downward once they leave it.
	Node struct {
		DurationNS uint64  `json:"duration_ns"`
		EndNS      uint64  `json:"-"`
		Name       string  `json:"name"`
		StartNS    uint64  `json:"-"`
		Children   []*Node `json:"children,omitempty"`
	}
)

func NodeFromSpan(name string, start, end uint64) *Node {
	n := Node{
		EndNS:   end,
		Name:    name,
		StartNS: start,
	}
	if end > start {
		n.DurationNS = n.EndNS - n.StartNS
	}
	return &n
}

func (n *Node) Duration() time.Duration {
	return time.Duration(n.DurationNS)
}

// Walk visits n and its descendants depth first, in sibling order.
func (n *Node) Walk(fn func(depth int, n *Node)) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(int, *Node)) {
	fn(depth, n)
	for _, c := range n.Children {
		c.walk(depth+1, fn)
	}
}

// Size returns the number of nodes in the tree rooted at n.
func (n *Node) Size() int {
	var size int
	n.Walk(func(int, *Node) {
		size++
	})
	return size
}
