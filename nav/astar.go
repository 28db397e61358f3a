package nav

import (
	"container/heap"
	"context"
	"errors"

	"navgrid/pkg/alg"
)

// ErrInvalidCell is the only hard failure a search surfaces: a nil
// start or target cell. Every other outcome is communicated as data.
var ErrInvalidCell = errors.New("start or target cell is nil")

// Waypoint is one step of a path: the cell plus the movement tag of
// the edge used to reach it. Plain neighbour steps carry no tag.
type Waypoint struct {
	Cell *Cell
	Tag  string
}

// PathFinder runs A* over the cell graph. Cost and heuristic are both
// 3D euclidean distance, which keeps the heuristic admissible and
// consistent.
type PathFinder struct {
	Grid            *Grid
	Creator         Occupant
	PartialEnabled  bool
	MaxDistance     float32
	WithConnections bool
	Reversed        bool
}

type pathNode struct {
	cell      *Cell
	g         float32
	h         float32
	f         float32
	via       string
	parent    *pathNode
	heapIndex int
	closed    bool
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*pathNode)
	n.heapIndex = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	x.heapIndex = -1
	*h = old[:n-1]
	return x
}

// FindPath searches from start to target. No path and cancellation
// both yield an empty result and a nil error; with PartialEnabled an
// unreachable target yields a best-effort path to the closest node
// explored.
func (p *PathFinder) FindPath(ctx context.Context, start, target *Cell) ([]Waypoint, error) {
	if start == nil || target == nil {
		return nil, ErrInvalidCell
	}
	if start == target {
		return []Waypoint{{Cell: start}}, nil
	}

	nodes := make(map[*Cell]*pathNode)
	open := make(nodeHeap, 0, 64)
	heap.Init(&open)

	startNode := &pathNode{
		cell: start,
		h:    alg.Sqrt(alg.SqrDist(start.Position(), target.Position())),
	}
	startNode.f = startNode.h
	nodes[start] = startNode
	heap.Push(&open, startNode)
	closest := startNode

	for open.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, nil
		default:
		}

		current := heap.Pop(&open).(*pathNode)
		if current.cell == target {
			return p.reconstruct(current), nil
		}
		current.closed = true

		for _, step := range p.neighbours(current.cell) {
			if step.Cell.OccupiedBlocks(p.Creator) {
				continue
			}
			node, seen := nodes[step.Cell]
			if seen && node.closed {
				continue
			}
			tentative := current.g + alg.Sqrt(alg.SqrDist(current.cell.Position(), step.Cell.Position()))
			if p.MaxDistance > 0 && tentative > p.MaxDistance {
				continue
			}
			if !seen {
				node = &pathNode{
					cell:   step.Cell,
					g:      tentative,
					h:      alg.Sqrt(alg.SqrDist(step.Cell.Position(), target.Position())),
					via:    step.Tag,
					parent: current,
				}
				node.f = node.g + node.h
				nodes[step.Cell] = node
				heap.Push(&open, node)
				if node.h < closest.h {
					closest = node
				}
			} else if tentative < node.g {
				node.g = tentative
				node.f = node.g + node.h
				node.via = step.Tag
				node.parent = current
				heap.Fix(&open, node.heapIndex)
			}
		}
	}

	if p.PartialEnabled && closest != startNode {
		return p.reconstruct(closest), nil
	}
	return nil, nil
}

// neighbours enumerates the plain geometric neighbours of cell and,
// when enabled, its synthesized connections (drop and jump edges).
func (p *PathFinder) neighbours(cell *Cell) []Waypoint {
	plain := p.Grid.GetNeighbours(cell)
	steps := make([]Waypoint, 0, len(plain)+len(cell.Connections()))
	for _, neighbour := range plain {
		steps = append(steps, Waypoint{Cell: neighbour})
	}
	if p.WithConnections {
		for _, conn := range cell.Connections() {
			steps = append(steps, Waypoint{Cell: conn.Target, Tag: conn.Tag})
		}
	}
	return steps
}

// reconstruct follows parent pointers back to the start. The result is
// start-to-end order unless Reversed is set.
func (p *PathFinder) reconstruct(end *pathNode) []Waypoint {
	waypoints := make([]Waypoint, 0, 16)
	for node := end; node != nil; node = node.parent {
		waypoints = append(waypoints, Waypoint{Cell: node.cell, Tag: node.via})
	}
	if !p.Reversed {
		for i, j := 0, len(waypoints)-1; i < j; i, j = i+1, j-1 {
			waypoints[i], waypoints[j] = waypoints[j], waypoints[i]
		}
	}
	return waypoints
}
