package main

import (
	"context"
	"errors"
	"fmt"

	cfg "navgrid/common/config"
	"navgrid/dao"
	"navgrid/nav"

	"github.com/spf13/cobra"
)

func QueryCmd() *cobra.Command {
	var configFile string
	var identifier string
	var from []float32
	var to []float32
	var partial bool
	var connections bool
	var parallel bool
	var maxDistance float32
	c := &cobra.Command{
		Use:   "query",
		Short: "query a path on a stored grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InitConfig(configFile)
			if len(from) != 3 || len(to) != 3 {
				return errors.New("from/to need 3 components")
			}
			db, err := dao.NewDao()
			if err != nil {
				return err
			}
			defer db.CloseDao()
			gridData, err := db.QueryGrid(identifier)
			if err != nil {
				return err
			}
			if gridData == nil {
				return fmt.Errorf("grid not found, id: %v", identifier)
			}
			grid, err := nav.GridFromData(gridData)
			if err != nil {
				return err
			}
			start := grid.GetNearestCell([3]float32(from), false, false)
			target := grid.GetNearestCell([3]float32(to), false, false)
			if start == nil || target == nil {
				return errors.New("position outside grid")
			}
			builder := nav.NewPathBuilder(grid)
			if partial {
				builder.WithPartialEnabled()
			}
			if connections {
				builder.WithConnections()
			}
			if maxDistance > 0 {
				builder.WithMaxDistance(maxDistance)
			}
			var path *nav.Path = nil
			if parallel {
				path, err = builder.RunParallelAsync(context.Background(), start, target)
			} else {
				path, err = builder.RunAsync(context.Background(), start, target)
			}
			if err != nil {
				return err
			}
			if path.IsEmpty() {
				fmt.Println("no path")
				return nil
			}
			for i, waypoint := range path.Waypoints() {
				position := waypoint.Cell.Position()
				tag := waypoint.Tag
				if tag == "" {
					tag = "walk"
				}
				fmt.Printf("%v: (%.1f, %.1f, %.1f) %v\n", i, position.X(), position.Y(), position.Z(), tag)
			}
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "application.hjson", "config file")
	c.Flags().StringVar(&identifier, "id", "main", "grid identifier")
	c.Flags().Float32SliceVar(&from, "from", []float32{0, 0, 0}, "source position x,y,z")
	c.Flags().Float32SliceVar(&to, "to", []float32{0, 0, 0}, "destination position x,y,z")
	c.Flags().BoolVar(&partial, "partial", false, "return best-effort partial path")
	c.Flags().BoolVar(&connections, "connections", false, "traverse drop and jump connections")
	c.Flags().BoolVar(&parallel, "parallel", false, "race forward and reverse searches")
	c.Flags().Float32Var(&maxDistance, "max-distance", 0, "search cost cutoff")
	return c
}
