package http

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/data"
	"Automancy/internal/game/interfaces/handler"
	"Automancy/internal/game/interfaces/handler/dto"
	"Automancy/internal/shared/transport"
	"context"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultRenderRadius = 32

type HttpHandler struct {
	game *handler.Game
}

func NewHttpHandler(g *handler.Game) *HttpHandler {
	return &HttpHandler{game: g}
}

func (h *HttpHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/map", h.MapInfo)
	group.GET("/maps", h.ListMaps)
	group.POST("/save", h.SaveMap)
	group.POST("/load", h.LoadMap)

	tiles := group.Group("/tiles/:q/:r")
	tiles.GET("", h.GetTile)
	tiles.PUT("", h.PlaceTile)
	tiles.DELETE("", h.RemoveTile)
	tiles.PUT("/data/:key", h.SetData)
	tiles.DELETE("/data/:key", h.RemoveData)

	group.POST("/move", h.MoveTiles)
	group.POST("/link", h.LinkTiles)
	group.POST("/undo", h.Undo)
	group.POST("/tick", h.Step)
	group.POST("/ticking", h.Ticking)
	group.GET("/render", h.Render)
	group.GET("/transactions", h.Transactions)
}

func (h *HttpHandler) MapInfo(c *gin.Context) {
	ctx := c.Request.Context()
	info, err := h.game.Runtime.MapInfo(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.MapResp{Info: info})
}

func (h *HttpHandler) ListMaps(c *gin.Context) {
	ctx := c.Request.Context()
	maps, err := h.game.Runtime.ListMaps(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, maps)
}

func (h *HttpHandler) SaveMap(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.MapReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.fail(c, transport.InvalidParam, "invalid request body")
			return
		}
	}
	info, err := h.game.Runtime.SaveMap(ctx, req.Name)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.MapResp{Info: info, Saved: true})
}

func (h *HttpHandler) LoadMap(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.MapReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		h.fail(c, transport.InvalidParam, "map name is required")
		return
	}
	info, err := h.game.Runtime.LoadMap(ctx, req.Name)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.MapResp{Info: info})
}

func (h *HttpHandler) GetTile(c *gin.Context) {
	ctx := c.Request.Context()
	at, ok := tileCoord(c)
	if !ok {
		h.fail(c, transport.InvalidParam, "invalid coordinate")
		return
	}
	resp, ok, err := h.game.Tile(ctx, at)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if !ok {
		h.fail(c, transport.NotFound, "no tile at coordinate")
		return
	}
	h.ok(c, resp)
}

func (h *HttpHandler) PlaceTile(c *gin.Context) {
	ctx := c.Request.Context()
	at, ok := tileCoord(c)
	if !ok {
		h.fail(c, transport.InvalidParam, "invalid coordinate")
		return
	}
	var req dto.TileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "invalid request body")
		return
	}
	resp, ok, err := h.game.Place(ctx, at, req)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if !ok {
		h.fail(c, transport.InvalidParam, "unknown tile type")
		return
	}
	h.ok(c, resp)
}

func (h *HttpHandler) RemoveTile(c *gin.Context) {
	ctx := c.Request.Context()
	at, ok := tileCoord(c)
	if !ok {
		h.fail(c, transport.InvalidParam, "invalid coordinate")
		return
	}
	record := c.Query("record") != "false"
	res, err := h.game.Runtime.PlaceTile(ctx, at, h.game.Registry.IDs.None, 0, record, nil)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.PlaceResp{Result: res.String()})
}

func (h *HttpHandler) SetData(c *gin.Context) {
	ctx := c.Request.Context()
	at, ok := tileCoord(c)
	if !ok {
		h.fail(c, transport.InvalidParam, "invalid coordinate")
		return
	}
	key, ok := h.game.Key(c.Param("key"))
	if !ok {
		h.fail(c, transport.InvalidParam, "unknown data key")
		return
	}
	var raw data.DataRaw
	if err := c.ShouldBindJSON(&raw); err != nil {
		h.fail(c, transport.InvalidParam, "invalid request body")
		return
	}
	v, ok := raw.FromRaw(h.game.Registry.Interner)
	if !ok {
		h.fail(c, transport.InvalidParam, "invalid data value")
		return
	}
	ok, err := h.game.Runtime.SetTileData(ctx, at, key, v)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if !ok {
		h.fail(c, transport.NotFound, "no tile at coordinate")
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) RemoveData(c *gin.Context) {
	ctx := c.Request.Context()
	at, ok := tileCoord(c)
	if !ok {
		h.fail(c, transport.InvalidParam, "invalid coordinate")
		return
	}
	key, ok := h.game.Key(c.Param("key"))
	if !ok {
		h.fail(c, transport.InvalidParam, "unknown data key")
		return
	}
	ok, err := h.game.Runtime.RemoveTileData(ctx, at, key)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if !ok {
		h.fail(c, transport.NotFound, "no tile at coordinate")
		return
	}
	h.ok(c, nil)
}

func (h *HttpHandler) MoveTiles(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.MoveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "invalid request body")
		return
	}
	record := req.Record == nil || *req.Record
	moved, err := h.game.Runtime.MoveTiles(ctx, req.Coords, req.Offset, record)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.MoveResp{Moved: moved})
}

func (h *HttpHandler) LinkTiles(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.LinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, transport.InvalidParam, "invalid request body")
		return
	}
	linked, ok, err := h.game.Runtime.ToggleLink(ctx, req.From, req.To)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	if !ok {
		h.fail(c, transport.NotFound, "no tile at coordinate")
		return
	}
	h.ok(c, dto.LinkResp{Linked: linked})
}

func (h *HttpHandler) Undo(c *gin.Context) {
	ctx := c.Request.Context()
	undone, err := h.game.Runtime.Undo(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, dto.UndoResp{Undone: undone})
}

func (h *HttpHandler) Step(c *gin.Context) {
	ctx := c.Request.Context()
	resp, err := h.game.Step(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, resp)
}

func (h *HttpHandler) Ticking(c *gin.Context) {
	ctx := c.Request.Context()
	var req dto.TickingReq
	if err := c.ShouldBindJSON(&req); err != nil || req.IntervalMs < 0 {
		h.fail(c, transport.InvalidParam, "invalid request body")
		return
	}
	var err error
	var resp dto.TickingResp
	if req.Running {
		reply, e := h.game.Runtime.StartTicking(ctx, time.Duration(req.IntervalMs)*time.Millisecond)
		resp, err = handler.TickingResp(reply), e
	} else {
		reply, e := h.game.Runtime.StopTicking(ctx)
		resp, err = handler.TickingResp(reply), e
	}
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, resp)
}

// Render answers ?q=&r=&radius=; the default view is centred on the origin.
func (h *HttpHandler) Render(c *gin.Context) {
	ctx := c.Request.Context()
	q, errQ := strconv.ParseInt(c.DefaultQuery("q", "0"), 10, 32)
	r, errR := strconv.ParseInt(c.DefaultQuery("r", "0"), 10, 32)
	radius, errRad := strconv.ParseUint(c.DefaultQuery("radius", strconv.Itoa(defaultRenderRadius)), 10, 32)
	if errQ != nil || errR != nil || errRad != nil {
		h.fail(c, transport.InvalidParam, "invalid render bounds")
		return
	}
	bounds := coord.TileBounds{Center: coord.New(int32(q), int32(r)), Radius: uint32(radius)}
	frame, err := h.game.Frame(ctx, bounds)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, frame)
}

func (h *HttpHandler) Transactions(c *gin.Context) {
	ctx := c.Request.Context()
	txs, err := h.game.Transactions(ctx)
	if err != nil {
		h.error(ctx, c, err)
		return
	}
	h.ok(c, txs)
}

func tileCoord(c *gin.Context) (coord.TileCoord, bool) {
	q, err := strconv.ParseInt(c.Param("q"), 10, 32)
	if err != nil {
		return coord.TileCoord{}, false
	}
	r, err := strconv.ParseInt(c.Param("r"), 10, 32)
	if err != nil {
		return coord.TileCoord{}, false
	}
	return coord.New(int32(q), int32(r)), true
}

func (h *HttpHandler) ok(c *gin.Context, data any) {
	c.JSON(nethttp.StatusOK, transport.Success(data))
}

func (h *HttpHandler) fail(c *gin.Context, code int, msg string) {
	c.JSON(nethttp.StatusOK, transport.Failure(code, msg))
}

func (h *HttpHandler) error(ctx context.Context, c *gin.Context, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(c, code, msg)
}
