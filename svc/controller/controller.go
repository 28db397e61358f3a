package controller

import (
	"context"
	"net/http"
	"time"

	"navgrid/common/config"
	"navgrid/dao"
	"navgrid/nav"
	"navgrid/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	gridManager *nav.GridManager
	db          *dao.Dao
	httpServer  *http.Server
}

func NewController(gridManager *nav.GridManager, db *dao.Dao) *Controller {
	r := new(Controller)
	r.gridManager = gridManager
	r.db = db
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.POST("/query_path", r.queryPath)
	engine.GET("/grid_list", r.gridList)
	engine.GET("/grid_info", r.gridInfo)
	engine.POST("/grid_load", r.gridLoad)
	engine.POST("/grid_delete", r.gridDelete)
	addr := config.GetConfig().Http.Addr
	r.httpServer = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	go func() {
		logger.Info("http server start, addr: %v", addr)
		err := r.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Error("http server listen error: %v", err)
		}
	}()
	return r
}

func (c *Controller) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := c.httpServer.Shutdown(ctx)
	if err != nil {
		logger.Error("http server shutdown error: %v", err)
	}
}

type HttpRsp struct {
	Code int32  `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func (c *Controller) okRsp(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, &HttpRsp{Code: 0, Msg: "ok", Data: data})
}

func (c *Controller) failRsp(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusOK, &HttpRsp{Code: -1, Msg: msg})
}

type QueryPathReq struct {
	GridIdentifier  string     `json:"grid_identifier"`
	SourcePos       [3]float32 `json:"source_pos"`
	DestinationPos  [3]float32 `json:"destination_pos"`
	PartialEnabled  bool       `json:"partial_enabled"`
	WithConnections bool       `json:"with_connections"`
	MaxDistance     float32    `json:"max_distance"`
	Parallel        bool       `json:"parallel"`
}

type PathCorner struct {
	Position [3]float32 `json:"position"`
	Tag      string     `json:"tag,omitempty"`
}

type QueryPathRsp struct {
	Corners []*PathCorner `json:"corners"`
}

// 路径查询
func (c *Controller) queryPath(ctx *gin.Context) {
	req := new(QueryPathReq)
	err := ctx.ShouldBindJSON(req)
	if err != nil {
		c.failRsp(ctx, "bad request")
		return
	}
	grid := c.gridManager.GetGrid(req.GridIdentifier)
	if grid == nil {
		c.failRsp(ctx, "grid not found")
		return
	}
	start := grid.GetNearestCell(req.SourcePos, false, false)
	target := grid.GetNearestCell(req.DestinationPos, false, false)
	if start == nil || target == nil {
		c.failRsp(ctx, "position outside grid")
		return
	}
	builder := nav.NewPathBuilder(grid)
	if req.PartialEnabled {
		builder.WithPartialEnabled()
	}
	if req.WithConnections {
		builder.WithConnections()
	}
	if req.MaxDistance > 0 {
		builder.WithMaxDistance(req.MaxDistance)
	}
	var path *nav.Path = nil
	if req.Parallel {
		path, err = builder.RunParallelAsync(ctx.Request.Context(), start, target)
	} else {
		path, err = builder.RunAsync(ctx.Request.Context(), start, target)
	}
	if err != nil {
		logger.Error("query path error: %v", err)
		c.failRsp(ctx, "query path error")
		return
	}
	rsp := &QueryPathRsp{Corners: make([]*PathCorner, 0, path.Count())}
	for _, waypoint := range path.Waypoints() {
		rsp.Corners = append(rsp.Corners, &PathCorner{
			Position: waypoint.Cell.Position(),
			Tag:      waypoint.Tag,
		})
	}
	c.okRsp(ctx, rsp)
}

type GridInfo struct {
	Identifier string `json:"identifier"`
	CellCount  int    `json:"cell_count"`
}

// 网格列表
func (c *Controller) gridList(ctx *gin.Context) {
	infoList := make([]*GridInfo, 0)
	for _, grid := range c.gridManager.GetAllGrid() {
		infoList = append(infoList, &GridInfo{
			Identifier: grid.Identifier(),
			CellCount:  grid.CellCount(),
		})
	}
	c.okRsp(ctx, infoList)
}

// 网格详情
func (c *Controller) gridInfo(ctx *gin.Context) {
	identifier := ctx.Query("identifier")
	grid := c.gridManager.GetGrid(identifier)
	if grid == nil {
		c.failRsp(ctx, "grid not found")
		return
	}
	settings := grid.Settings()
	c.okRsp(ctx, gin.H{
		"identifier":       settings.Identifier,
		"cell_count":       grid.CellCount(),
		"cell_size":        settings.CellSize,
		"step_size":        settings.StepSize,
		"width_clearance":  settings.WidthClearance,
		"height_clearance": settings.HeightClearance,
		"standable_angle":  settings.StandableAngle,
		"max_drop_height":  settings.MaxDropHeight,
	})
}

type GridIdentifierReq struct {
	Identifier string `json:"identifier"`
}

// 从存储加载网格到注册表
func (c *Controller) gridLoad(ctx *gin.Context) {
	req := new(GridIdentifierReq)
	err := ctx.ShouldBindJSON(req)
	if err != nil {
		c.failRsp(ctx, "bad request")
		return
	}
	gridData, err := c.db.QueryGrid(req.Identifier)
	if err != nil {
		logger.Error("query grid error: %v", err)
		c.failRsp(ctx, "query grid error")
		return
	}
	if gridData == nil {
		c.failRsp(ctx, "grid not found")
		return
	}
	grid, err := nav.GridFromData(gridData)
	if err != nil {
		logger.Error("load grid error: %v", err)
		c.failRsp(ctx, "load grid error")
		return
	}
	c.gridManager.Register(grid)
	c.okRsp(ctx, nil)
}

// 删除网格
func (c *Controller) gridDelete(ctx *gin.Context) {
	req := new(GridIdentifierReq)
	err := ctx.ShouldBindJSON(req)
	if err != nil {
		c.failRsp(ctx, "bad request")
		return
	}
	c.gridManager.Unregister(req.Identifier)
	err = c.db.DeleteGrid(req.Identifier)
	if err != nil {
		logger.Error("delete grid error: %v", err)
		c.failRsp(ctx, "delete grid error")
		return
	}
	c.okRsp(ctx, nil)
}
