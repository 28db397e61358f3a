package nav

import (
	"sync"
)

// GridManager is the registry of live grids keyed by identifier. The
// lock guards the registry map only; the grids themselves follow the
// build-then-read model and take no locks.
type GridManager struct {
	lock    sync.RWMutex
	gridMap map[string]*Grid
}

func NewGridManager() (r *GridManager) {
	r = new(GridManager)
	r.gridMap = make(map[string]*Grid)
	return r
}

func (g *GridManager) Register(grid *Grid) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.gridMap[grid.Settings().Identifier] = grid
}

func (g *GridManager) Unregister(identifier string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	delete(g.gridMap, identifier)
}

func (g *GridManager) GetGrid(identifier string) *Grid {
	g.lock.RLock()
	defer g.lock.RUnlock()
	grid, exist := g.gridMap[identifier]
	if !exist {
		return nil
	}
	return grid
}

func (g *GridManager) GetAllGrid() []*Grid {
	g.lock.RLock()
	defer g.lock.RUnlock()
	gridList := make([]*Grid, 0, len(g.gridMap))
	for _, grid := range g.gridMap {
		gridList = append(gridList, grid)
	}
	return gridList
}

func (g *GridManager) GetGridIdentifierList() []string {
	g.lock.RLock()
	defer g.lock.RUnlock()
	identifierList := make([]string, 0, len(g.gridMap))
	for identifier := range g.gridMap {
		identifierList = append(identifierList, identifier)
	}
	return identifierList
}
