package main

import (
	"context"
	"errors"

	cfg "navgrid/common/config"
	"navgrid/dao"
	"navgrid/heightfield"
	"navgrid/nav"
	"navgrid/pkg/alg"
	"navgrid/pkg/logger"

	"github.com/spf13/cobra"
)

func GenCmd() *cobra.Command {
	var configFile string
	var terrainFile string
	var identifier string
	var mins []float32
	var maxs []float32
	var yaw float32
	var enableJump bool
	c := &cobra.Command{
		Use:   "gen",
		Short: "generate a navigation grid from a terrain file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.InitConfig(configFile)
			logger.InitLogger(&logger.Config{
				AppName:      "gen",
				Level:        logger.ParseLogLevel(cfg.GetConfig().Logger.Level),
				TrackLine:    cfg.GetConfig().Logger.TrackLine,
				EnableFile:   cfg.GetConfig().Logger.EnableFile,
				DisableColor: cfg.GetConfig().Logger.DisableColor,
			})
			defer logger.CloseLogger()
			if len(mins) != 3 || len(maxs) != 3 {
				return errors.New("bounds mins/maxs need 3 components")
			}
			field, err := heightfield.LoadFile(terrainFile)
			if err != nil {
				return err
			}
			gridConfig := cfg.GetConfig().Grid
			settings := nav.GridSettings{
				Identifier:      identifier,
				Bounds:          alg.NewBBox([3]float32(mins), [3]float32(maxs)),
				Rotation:        alg.NewRotation(yaw),
				CellSize:        gridConfig.CellSize,
				StepSize:        gridConfig.StepSize,
				WidthClearance:  gridConfig.WidthClearance,
				HeightClearance: gridConfig.HeightClearance,
				StandableAngle:  gridConfig.StandableAngle,
				MaxDropHeight:   gridConfig.MaxDropHeight,
			}
			grid := nav.NewGrid(settings)
			generator := nav.NewGenerator(grid, field)
			if enableJump {
				generator.EnableJump = true
				generator.HorizontalSpeed = 200.0
				generator.VerticalSpeed = 300.0
				generator.Gravity = 980.0
			}
			err = generator.Generate(context.Background())
			if err != nil {
				return err
			}
			db, err := dao.NewDao()
			if err != nil {
				return err
			}
			defer db.CloseDao()
			err = db.SaveGrid(grid.Data())
			if err != nil {
				return err
			}
			logger.Info("grid saved, id: %v, cell count: %v", identifier, grid.CellCount())
			return nil
		},
	}
	c.Flags().StringVar(&configFile, "config", "application.hjson", "config file")
	c.Flags().StringVar(&terrainFile, "terrain", "terrain.hjson", "terrain file")
	c.Flags().StringVar(&identifier, "id", "main", "grid identifier")
	c.Flags().Float32SliceVar(&mins, "mins", []float32{0, 0, 0}, "bounds min corner x,y,z")
	c.Flags().Float32SliceVar(&maxs, "maxs", []float32{1000, 1000, 500}, "bounds max corner x,y,z")
	c.Flags().Float32Var(&yaw, "yaw", 0, "grid yaw degrees")
	c.Flags().BoolVar(&enableJump, "jump", false, "generate jump connections")
	return c
}
