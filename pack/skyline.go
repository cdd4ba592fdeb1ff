package pack

import (
	"fmt"
	"math"
	"sort"
)

// none terminates an index chain.
const none = -1

// unbounded is the height of the sentinel node.
const unbounded = math.MaxInt32

// node is one step of the skyline: the profile has height y from x up to
// the x of the next node.
type node struct {
	x, y int
	next int
}

// InsertAt identifies the link a new skyline node is spliced into: either
// the packer's head link or the next link of an arena node.
type InsertAt struct {
	head  bool
	after int
}

// Head returns the insertion point at the start of the active list.
func Head() InsertAt { return InsertAt{head: true, after: none} }

// AfterNode returns the insertion point following arena node i.
func AfterNode(i int) InsertAt { return InsertAt{after: i} }

// IsHead reports whether the insertion point is the head link.
func (at InsertAt) IsHead() bool { return at.head }

// Node returns the predecessor arena index, or -1 for the head link.
func (at InsertAt) Node() int {
	if at.head {
		return none
	}
	return at.after
}

func (at InsertAt) String() string {
	if at.head {
		return "Head"
	}
	return fmt.Sprintf("AfterNode(%d)", at.after)
}

// Point is a skyline step start.
type Point struct {
	X, Y int
}

// Option configures a Packer.
type Option func(*Packer)

// WithDebug enables the skyline invariant check after every insertion.
// A violated invariant panics.
func WithDebug() Option {
	return func(p *Packer) { p.debug = true }
}

// Packer is a skyline packer over a fixed pool of nodes.
//
// The arena holds the pool nodes [0, n), the initial head node n at (0, 0)
// and the sentinel node n+1 at (width, +inf). Every arena node is at all
// times on exactly one of the active list (the skyline) or the free list.
//
// Packer is not safe for concurrent use.
type Packer struct {
	width, height int
	nodes         []node
	head          int
	free          int
	debug         bool
}

// New creates a packer for a width x height area with a pool of nodes
// skyline nodes. A pool as large as width never runs out.
func New(width, height, nodes int, opts ...Option) *Packer {
	if nodes < 0 {
		nodes = 0
	}
	p := &Packer{
		width:  width,
		height: height,
		nodes:  make([]node, nodes+2),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Reset()
	return p
}

// Reset restores the empty skyline, returning every pool node to the free
// list.
func (p *Packer) Reset() {
	n := len(p.nodes) - 2
	for i := 0; i < n; i++ {
		p.nodes[i] = node{next: i + 1}
	}
	p.free = none
	if n > 0 {
		p.nodes[n-1].next = none
		p.free = 0
	}
	sentinel := n + 1
	p.nodes[n] = node{x: 0, y: 0, next: sentinel}
	p.nodes[sentinel] = node{x: p.width, y: unbounded, next: none}
	p.head = n
}

// Width returns the packing area width.
func (p *Packer) Width() int { return p.width }

// Height returns the packing area height.
func (p *Packer) Height() int { return p.height }

// Capacity returns the total number of arena nodes, including the initial
// head node and the sentinel.
func (p *Packer) Capacity() int { return len(p.nodes) }

// ActiveCount returns the number of nodes on the skyline, sentinel included.
func (p *Packer) ActiveCount() int { return chainLen(p.nodes, p.head) }

// FreeCount returns the number of nodes available for new placements.
func (p *Packer) FreeCount() int { return chainLen(p.nodes, p.free) }

func chainLen(nodes []node, i int) int {
	n := 0
	for ; i != none && n <= len(nodes); i = nodes[i].next {
		n++
	}
	return n
}

// Skyline returns the current height profile, one point per active node
// excluding the sentinel.
func (p *Packer) Skyline() []Point {
	var pts []Point
	for i := p.head; i != none && p.nodes[i].next != none; i = p.nodes[i].next {
		pts = append(pts, Point{X: p.nodes[i].x, Y: p.nodes[i].y})
	}
	return pts
}

// Pack places rects and reports whether all of them fit.
//
// Rects are visited tallest first, then widest first, then in input order.
// Each one goes to the skyline position with the lowest resulting top edge;
// the leftmost such position wins ties. Rects that do not fit keep
// X = Y = Unplaced and Placed = false. Zero-sized rects are placed at (0, 0).
// The order of rects is unchanged.
func (p *Packer) Pack(rects []Rect) bool {
	order := make([]int, len(rects))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := &rects[order[a]], &rects[order[b]]
		if ra.H != rb.H {
			return ra.H > rb.H
		}
		return ra.W > rb.W
	})

	all := true
	for _, i := range order {
		r := &rects[i]
		if r.W == 0 || r.H == 0 {
			r.X, r.Y, r.Placed = 0, 0, true
			continue
		}
		x, y, ok := p.Insert(r.W, r.H)
		if !ok {
			r.X, r.Y, r.Placed = Unplaced, Unplaced, false
			all = false
			continue
		}
		r.X, r.Y, r.Placed = x, y, true
	}
	return all
}

// Insert places a single w x h rectangle.
// Returns x, y and true on success, or -1, -1, false if it does not fit.
func (p *Packer) Insert(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, true
	}
	at, bx, by, found := p.findBestPos(w, h)
	if !found || by+h > p.height || p.free == none {
		return Unplaced, Unplaced, false
	}

	n := p.free
	p.free = p.nodes[n].next
	p.nodes[n].x = bx
	p.nodes[n].y = by + h

	cur := p.link(at)
	if p.nodes[cur].x < bx {
		next := p.nodes[cur].next
		p.nodes[cur].next = n
		cur = next
	} else {
		p.setLink(at, n)
	}

	// Free every node covered by the new step.
	right := bx + w
	for p.nodes[cur].next != none && p.nodes[p.nodes[cur].next].x <= right {
		next := p.nodes[cur].next
		p.nodes[cur].next = p.free
		p.free = cur
		cur = next
	}
	p.nodes[n].next = cur
	if p.nodes[cur].x < right {
		p.nodes[cur].x = right
	}

	if p.debug {
		if err := p.Validate(); err != nil {
			panic(err)
		}
	}
	return bx, by, true
}

// link returns the node the insertion point refers to.
func (p *Packer) link(at InsertAt) int {
	if at.head {
		return p.head
	}
	return p.nodes[at.after].next
}

func (p *Packer) setLink(at InsertAt, n int) {
	if at.head {
		p.head = n
		return
	}
	p.nodes[at.after].next = n
}

// findBestPos scans every skyline node that can start a w-wide interval
// and returns the one with the lowest required y.
func (p *Packer) findBestPos(w, h int) (at InsertAt, x, y int, ok bool) {
	if w > p.width || h > p.height {
		return InsertAt{}, 0, 0, false
	}

	best := unbounded
	prev := Head()
	for i := p.head; p.nodes[i].x+w <= p.width; i = p.nodes[i].next {
		if miny := p.findMinY(i, w); miny < best {
			best = miny
			at, x, ok = prev, p.nodes[i].x, true
		}
		prev = AfterNode(i)
	}
	return at, x, best, ok
}

// findMinY returns the highest skyline step under [x, x+w) starting at
// node first.
func (p *Packer) findMinY(first, w int) int {
	x1 := p.nodes[first].x + w
	miny := 0
	for i := first; p.nodes[i].x < x1; i = p.nodes[i].next {
		if p.nodes[i].y > miny {
			miny = p.nodes[i].y
		}
	}
	return miny
}

// Validate checks the skyline invariants: the active list is strictly
// increasing in x and ends at a node with x == width and no successor, and
// every arena node is on exactly one of the two lists.
func (p *Packer) Validate() error {
	seen := make([]bool, len(p.nodes))
	count := 0
	i := p.head
	for {
		if i < 0 || i >= len(p.nodes) {
			return fmt.Errorf("pack: active list references node %d outside arena", i)
		}
		if seen[i] {
			return fmt.Errorf("pack: node %d linked twice", i)
		}
		seen[i] = true
		count++
		nd := p.nodes[i]
		if nd.x >= p.width {
			break
		}
		if nd.next == none {
			return fmt.Errorf("pack: active list ends at x=%d before width %d", nd.x, p.width)
		}
		if nx := p.nodes[nd.next].x; nd.x >= nx {
			return fmt.Errorf("pack: active list not increasing: x=%d then x=%d", nd.x, nx)
		}
		i = nd.next
	}
	if p.nodes[i].next != none {
		return fmt.Errorf("pack: sentinel at x=%d has a successor", p.nodes[i].x)
	}
	for j := p.free; j != none; j = p.nodes[j].next {
		if j < 0 || j >= len(p.nodes) {
			return fmt.Errorf("pack: free list references node %d outside arena", j)
		}
		if seen[j] {
			return fmt.Errorf("pack: node %d linked twice", j)
		}
		seen[j] = true
		count++
	}
	if count != len(p.nodes) {
		return fmt.Errorf("pack: %d nodes linked, want %d", count, len(p.nodes))
	}
	return nil
}
