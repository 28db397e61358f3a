package nav

import (
	"fmt"

	"navgrid/pkg/alg"
)

// Wire snapshot of a grid. Connections reference their target by
// coordinate plus stack index so cross-links survive the round trip,
// and cells are listed in per-coordinate stack order so lookups behave
// identically after a reload.

type GridData struct {
	Identifier      string      `msgpack:"identifier"`
	BoundsMins      [3]float32  `msgpack:"bounds_mins"`
	BoundsMaxs      [3]float32  `msgpack:"bounds_maxs"`
	Yaw             float32     `msgpack:"yaw"`
	CellSize        float32     `msgpack:"cell_size"`
	StepSize        float32     `msgpack:"step_size"`
	WidthClearance  float32     `msgpack:"width_clearance"`
	HeightClearance float32     `msgpack:"height_clearance"`
	StandableAngle  float32     `msgpack:"standable_angle"`
	MaxDropHeight   float32     `msgpack:"max_drop_height"`
	CellList        []*CellData `msgpack:"cell_list"`
}

type CellData struct {
	X              int32             `msgpack:"x"`
	Y              int32             `msgpack:"y"`
	Position       [3]float32        `msgpack:"position"`
	CornerHeights  [4]float32        `msgpack:"corner_heights"`
	TagList        []string          `msgpack:"tag_list"`
	ConnectionList []*ConnectionData `msgpack:"connection_list"`
}

type ConnectionData struct {
	X          int32  `msgpack:"x"`
	Y          int32  `msgpack:"y"`
	StackIndex int32  `msgpack:"stack_index"`
	Tag        string `msgpack:"tag"`
}

// Data snapshots the grid. Occupancy is runtime state and is not
// captured.
func (g *Grid) Data() *GridData {
	data := &GridData{
		Identifier:      g.settings.Identifier,
		BoundsMins:      g.settings.Bounds.Mins,
		BoundsMaxs:      g.settings.Bounds.Maxs,
		Yaw:             g.settings.Rotation.Yaw,
		CellSize:        g.settings.CellSize,
		StepSize:        g.settings.StepSize,
		WidthClearance:  g.settings.WidthClearance,
		HeightClearance: g.settings.HeightClearance,
		StandableAngle:  g.settings.StandableAngle,
		MaxDropHeight:   g.settings.MaxDropHeight,
		CellList:        make([]*CellData, 0, g.CellCount()),
	}
	stackIndexMap := make(map[*Cell]int32, g.CellCount())
	for _, stack := range g.cellMap {
		for i, cell := range stack {
			stackIndexMap[cell] = int32(i)
		}
	}
	for _, stack := range g.cellMap {
		for _, cell := range stack {
			tagList := make([]string, 0, len(cell.Tags()))
			for _, tag := range cell.Tags().List() {
				// Occupancy is runtime state.
				if tag == TagOccupied {
					continue
				}
				tagList = append(tagList, tag)
			}
			cellData := &CellData{
				X:              cell.GridPosition().X,
				Y:              cell.GridPosition().Y,
				Position:       cell.Position(),
				CornerHeights:  cell.CornerHeights(),
				TagList:        tagList,
				ConnectionList: make([]*ConnectionData, 0, len(cell.Connections())),
			}
			for _, connection := range cell.Connections() {
				cellData.ConnectionList = append(cellData.ConnectionList, &ConnectionData{
					X:          connection.Target.GridPosition().X,
					Y:          connection.Target.GridPosition().Y,
					StackIndex: stackIndexMap[connection.Target],
					Tag:        connection.Tag,
				})
			}
			data.CellList = append(data.CellList, cellData)
		}
	}
	return data
}

// GridFromData rebuilds a grid from a snapshot, re-linking connections
// in a second pass once every cell exists.
func GridFromData(data *GridData) (*Grid, error) {
	settings := GridSettings{
		Identifier:      data.Identifier,
		Bounds:          alg.BBox{Mins: data.BoundsMins, Maxs: data.BoundsMaxs},
		Rotation:        alg.Rotation{Yaw: data.Yaw},
		CellSize:        data.CellSize,
		StepSize:        data.StepSize,
		WidthClearance:  data.WidthClearance,
		HeightClearance: data.HeightClearance,
		StandableAngle:  data.StandableAngle,
		MaxDropHeight:   data.MaxDropHeight,
	}
	grid := NewGrid(settings)
	for _, cellData := range data.CellList {
		coord := alg.IntVec2{X: cellData.X, Y: cellData.Y}
		cell := NewCell(grid, coord, cellData.Position, cellData.CornerHeights)
		for _, tag := range cellData.TagList {
			cell.AddTag(tag)
		}
		grid.AddCell(cell)
	}
	for _, cellData := range data.CellList {
		if len(cellData.ConnectionList) == 0 {
			continue
		}
		coord := alg.IntVec2{X: cellData.X, Y: cellData.Y}
		cell := grid.cellAtStackIndex(coord, stackIndexOf(grid, coord, cellData.Position))
		if cell == nil {
			return nil, fmt.Errorf("cell not found at coord %v", coord)
		}
		for _, connectionData := range cellData.ConnectionList {
			targetCoord := alg.IntVec2{X: connectionData.X, Y: connectionData.Y}
			target := grid.cellAtStackIndex(targetCoord, connectionData.StackIndex)
			if target == nil {
				return nil, fmt.Errorf("connection target not found at coord %v stack index %v", targetCoord, connectionData.StackIndex)
			}
			cell.AddConnection(target, connectionData.Tag)
		}
	}
	return grid, nil
}

func (g *Grid) cellAtStackIndex(coord alg.IntVec2, index int32) *Cell {
	stack, exist := g.cellMap[coord]
	if !exist || index < 0 || int(index) >= len(stack) {
		return nil
	}
	return stack[index]
}

func stackIndexOf(grid *Grid, coord alg.IntVec2, position [3]float32) int32 {
	stack, exist := grid.cellMap[coord]
	if !exist {
		return -1
	}
	for i, cell := range stack {
		if cell.Position() == position {
			return int32(i)
		}
	}
	return -1
}
