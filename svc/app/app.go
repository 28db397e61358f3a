package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"navgrid/common/config"
	"navgrid/dao"
	"navgrid/nav"
	"navgrid/pkg/logger"
	"navgrid/svc/controller"
)

func Run(ctx context.Context) error {
	logger.InitLogger(&logger.Config{
		AppName:      "navgrid",
		Level:        logger.ParseLogLevel(config.GetConfig().Logger.Level),
		TrackLine:    config.GetConfig().Logger.TrackLine,
		EnableFile:   config.GetConfig().Logger.EnableFile,
		DisableColor: config.GetConfig().Logger.DisableColor,
	})
	defer func() {
		logger.CloseLogger()
	}()
	logger.Warn("navgrid start")
	defer func() {
		logger.Warn("navgrid exit")
	}()
	defer func() {
		if err := recover(); err != nil {
			logger.Error("application panic: %v\n%v", err, logger.Stack())
		}
	}()

	db, err := dao.NewDao()
	if err != nil {
		return err
	}
	defer db.CloseDao()

	gridManager := nav.NewGridManager()
	identifierList, err := db.QueryGridIdentifierList()
	if err != nil {
		return err
	}
	for _, identifier := range identifierList {
		gridData, err := db.QueryGrid(identifier)
		if err != nil {
			logger.Error("query grid error: %v, id: %v", err, identifier)
			continue
		}
		if gridData == nil {
			continue
		}
		grid, err := nav.GridFromData(gridData)
		if err != nil {
			logger.Error("load grid error: %v, id: %v", err, identifier)
			continue
		}
		gridManager.Register(grid)
		logger.Info("grid loaded, id: %v, cell count: %v", identifier, grid.CellCount())
	}

	http := controller.NewController(gridManager, db)
	defer http.Close()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-c:
			logger.Warn("get a signal %s", s.String())
			switch s {
			case syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT:
				return nil
			case syscall.SIGHUP:
			default:
				return nil
			}
		}
	}
}
