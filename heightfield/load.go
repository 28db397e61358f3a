package heightfield

import (
	"fmt"
	"os"

	"navgrid/pkg/alg"

	"github.com/hjson/hjson-go/v4"
)

// Terrain file layout. Heights is row-major, one row per lattice line
// along Y, spacing world units apart starting at the origin.
type terrainFile struct {
	OriginX float32       `json:"origin_x"`
	OriginY float32       `json:"origin_y"`
	Spacing float32       `json:"spacing"`
	Heights [][]float32   `json:"heights"`
	Solids  []solidConfig `json:"solids"`
}

type solidConfig struct {
	Mins [3]float32 `json:"mins"`
	Maxs [3]float32 `json:"maxs"`
}

// LoadFile reads an hjson terrain file into a HeightField.
func LoadFile(filePath string) (*HeightField, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read terrain file error: %v", err)
	}
	terrain := new(terrainFile)
	err = hjson.Unmarshal(fileData, terrain)
	if err != nil {
		return nil, fmt.Errorf("parse terrain file error: %v", err)
	}
	if terrain.Spacing <= 0 {
		return nil, fmt.Errorf("terrain spacing invalid: %v", terrain.Spacing)
	}
	rows := len(terrain.Heights)
	if rows == 0 {
		return nil, fmt.Errorf("terrain height data empty")
	}
	columns := len(terrain.Heights[0])
	if columns == 0 {
		return nil, fmt.Errorf("terrain height data empty")
	}
	field := NewHeightField(terrain.OriginX, terrain.OriginY, terrain.Spacing, columns, rows)
	for row, rowData := range terrain.Heights {
		if len(rowData) != columns {
			return nil, fmt.Errorf("terrain height row %v length mismatch: %v != %v", row, len(rowData), columns)
		}
		for column, height := range rowData {
			field.SetHeight(column, row, height)
		}
	}
	for _, solid := range terrain.Solids {
		field.AddSolid(alg.NewBBox(solid.Mins, solid.Maxs))
	}
	return field, nil
}
