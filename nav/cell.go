package nav

import (
	"navgrid/pkg/alg"

	"github.com/go-gl/mathgl/mgl32"
)

// Movement tags carried by cells and connections.
const (
	TagOccupied = "occupied"
	TagEdge     = "edge"
	TagStep     = "step"
	TagDrop     = "drop"
	TagJump     = "jump"
)

// TagSet is the small mutable tag set of a cell. Tags are written by
// independent producers (occupancy refresh, generation passes) at a
// periodic cadence with no locking; readers accept the documented
// staleness window between refresh passes.
type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	s := make(TagSet)
	for _, tag := range tags {
		s[tag] = struct{}{}
	}
	return s
}

func (s TagSet) Has(tag string) bool {
	_, exist := s[tag]
	return exist
}

func (s TagSet) Add(tag string) {
	s[tag] = struct{}{}
}

func (s TagSet) Remove(tag string) {
	delete(s, tag)
}

func (s TagSet) List() []string {
	ret := make([]string, 0, len(s))
	for tag := range s {
		ret = append(ret, tag)
	}
	return ret
}

// Connection is a traversable link that is not a plain geometric
// neighbour, tagged with the movement type needed to traverse it.
type Connection struct {
	Target *Cell
	Tag    string
}

// Corner sample order of a cell.
const (
	CornerBottomLeft = iota
	CornerBottomRight
	CornerTopLeft
	CornerTopRight
)

// cornerPair matches a corner of one cell against a corner of the cell
// in some direction. Two cells are geometric neighbours when every pair
// for that direction agrees in height.
type cornerPair struct {
	mine   int
	theirs int
}

// neighbourCornerPairs is the fixed 8-direction table of shared corner
// samples between adjacent cells.
var neighbourCornerPairs = map[alg.IntVec2][]cornerPair{
	{X: 1, Y: 0}:   {{CornerBottomRight, CornerBottomLeft}, {CornerTopRight, CornerTopLeft}},
	{X: -1, Y: 0}:  {{CornerBottomLeft, CornerBottomRight}, {CornerTopLeft, CornerTopRight}},
	{X: 0, Y: 1}:   {{CornerTopLeft, CornerBottomLeft}, {CornerTopRight, CornerBottomRight}},
	{X: 0, Y: -1}:  {{CornerBottomLeft, CornerTopLeft}, {CornerBottomRight, CornerTopRight}},
	{X: 1, Y: 1}:   {{CornerTopRight, CornerBottomLeft}},
	{X: -1, Y: 1}:  {{CornerTopLeft, CornerBottomRight}},
	{X: 1, Y: -1}:  {{CornerBottomRight, CornerTopLeft}},
	{X: -1, Y: -1}: {{CornerBottomLeft, CornerTopRight}},
}

// cornerHeightTolerance is the maximum height mismatch between shared
// corner samples of neighbouring cells.
const cornerHeightTolerance = 0.1

// Cell is a convex quad patch of walkable terrain. Geometry is
// immutable after creation, tags and occupancy mutate at runtime.
type Cell struct {
	grid          *Grid
	gridPosition  alg.IntVec2
	position      mgl32.Vec3
	cornerHeights [4]float32
	tags          TagSet
	connections   []Connection
	occupant      Occupant
}

func NewCell(grid *Grid, gridPosition alg.IntVec2, position mgl32.Vec3, cornerHeights [4]float32) *Cell {
	c := new(Cell)
	c.grid = grid
	c.gridPosition = gridPosition
	c.position = position
	c.cornerHeights = cornerHeights
	c.tags = NewTagSet()
	c.connections = make([]Connection, 0)
	return c
}

func (c *Cell) Grid() *Grid {
	return c.grid
}

func (c *Cell) GridPosition() alg.IntVec2 {
	return c.gridPosition
}

func (c *Cell) Position() mgl32.Vec3 {
	return c.position
}

func (c *Cell) CornerHeights() [4]float32 {
	return c.cornerHeights
}

// Height is the lowest corner sample of the cell.
func (c *Cell) Height() float32 {
	h := c.cornerHeights[0]
	for _, v := range c.cornerHeights[1:] {
		if v < h {
			h = v
		}
	}
	return h
}

func (c *Cell) Tags() TagSet {
	return c.tags
}

func (c *Cell) HasTag(tag string) bool {
	return c.tags.Has(tag)
}

func (c *Cell) AddTag(tag string) {
	c.tags.Add(tag)
}

func (c *Cell) RemoveTag(tag string) {
	c.tags.Remove(tag)
}

func (c *Cell) Connections() []Connection {
	return c.connections
}

func (c *Cell) AddConnection(target *Cell, tag string) {
	c.connections = append(c.connections, Connection{Target: target, Tag: tag})
}

func (c *Cell) HasConnectionTo(target *Cell) bool {
	for _, conn := range c.connections {
		if conn.Target == target {
			return true
		}
	}
	return false
}

func (c *Cell) Occupant() Occupant {
	return c.occupant
}

func (c *Cell) SetOccupant(occupant Occupant) {
	c.occupant = occupant
	if occupant != nil {
		c.tags.Add(TagOccupied)
	} else {
		c.tags.Remove(TagOccupied)
	}
}

func (c *Cell) IsOccupied() bool {
	return c.tags.Has(TagOccupied)
}

// OccupiedBlocks reports whether the cell is occupied by someone other
// than the given mover.
func (c *Cell) OccupiedBlocks(mover Occupant) bool {
	if !c.IsOccupied() {
		return false
	}
	if mover != nil && c.occupant != nil && c.occupant.ID() == mover.ID() {
		return false
	}
	return true
}

// IsNeighbour reports whether other is a plain geometric neighbour:
// coordinates differ by at most one per axis and every shared corner
// sample agrees within tolerance.
func (c *Cell) IsNeighbour(other *Cell) bool {
	if other == nil || other == c {
		return false
	}
	offset := other.gridPosition.Sub(c.gridPosition)
	pairs, exist := neighbourCornerPairs[offset]
	if !exist {
		return false
	}
	for _, pair := range pairs {
		if alg.Abs(c.cornerHeights[pair.mine]-other.cornerHeights[pair.theirs]) > cornerHeightTolerance {
			return false
		}
	}
	return true
}
