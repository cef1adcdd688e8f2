package ws

import (
	"Automancy/internal/game/coord"
	"Automancy/internal/game/interfaces/handler"
	"Automancy/internal/game/interfaces/handler/dto"
	"Automancy/internal/shared/transport"
	"Automancy/internal/shared/transport/ws"
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// FrameMsg is the name of pushed render frames.
	FrameMsg = "render.frame"

	connKeyFeed = "render.feed"

	defaultFrameInterval = 100 * time.Millisecond
	minFrameInterval     = 16 * time.Millisecond
	frameTimeout         = 2 * time.Second
)

type WsHandler struct {
	game *handler.Game
}

func NewWsHandler(g *handler.Game) *WsHandler {
	return &WsHandler{game: g}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	renderGroup := r.Group("render")
	renderGroup.Handle("subscribe", h.Subscribe)
	renderGroup.Handle("unsubscribe", h.Unsubscribe)

	tileGroup := r.Group("tile")
	tileGroup.Handle("place", h.Place)

	gameGroup := r.Group("game")
	gameGroup.Handle("step", h.Step)
	gameGroup.Handle("undo", h.Undo)
}

// Subscribe starts pushing frames for the requested view, replacing any feed
// the connection already has.
func (h *WsHandler) Subscribe(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Body == nil || wsReq.Conn == nil || wsResp == nil || wsResp.Body == nil {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return
	}
	var req dto.SubscribeReq
	if err := ws.Bind(wsReq, &req); err != nil || req.IntervalMs < 0 {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return
	}
	interval := time.Duration(req.IntervalMs) * time.Millisecond
	switch {
	case interval == 0:
		interval = defaultFrameInterval
	case interval < minFrameInterval:
		interval = minFrameInterval
	}

	stopFeed(wsReq.Conn)
	feedCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	wsReq.Conn.SetProperty(connKeyFeed, cancel)
	bounds := coord.TileBounds{Center: req.Center, Radius: req.Radius}
	go h.feed(feedCtx, wsReq.Conn, bounds, interval)

	h.ok(wsResp, dto.SubscribeResp{IntervalMs: interval.Milliseconds()})
}

func (h *WsHandler) Unsubscribe(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Conn == nil {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return
	}
	stopFeed(wsReq.Conn)
	h.ok(wsResp, nil)
}

func (h *WsHandler) Place(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	var req dto.PlaceReq
	if err := ws.Bind(wsReq, &req); err != nil || req.ID == "" {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return
	}
	resp, ok, err := h.game.Place(ctx, req.Coord, req.TileReq)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	if !ok {
		h.fail(wsResp, transport.InvalidParam, "unknown tile type")
		return
	}
	h.ok(wsResp, resp)
}

func (h *WsHandler) Step(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	resp, err := h.game.Step(ctx)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, resp)
}

func (h *WsHandler) Undo(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	undone, err := h.game.Runtime.Undo(ctx)
	if err != nil {
		h.error(ctx, wsResp, err)
		return
	}
	h.ok(wsResp, dto.UndoResp{Undone: undone})
}

func (h *WsHandler) feed(ctx context.Context, conn ws.WSConn, bounds coord.TileBounds, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-conn.Done():
			return
		case <-t.C:
		}
		fctx, cancel := context.WithTimeout(ctx, frameTimeout)
		frame, err := h.game.Frame(fctx, bounds)
		cancel()
		if err != nil {
			if ctx.Err() == nil {
				h.game.Log.Warn("render frame failed", zap.String("addr", conn.Addr()), zap.Error(err))
			}
			continue
		}
		conn.Push(FrameMsg, frame)
	}
}

func stopFeed(conn ws.WSConn) {
	if cancel, ok := conn.GetProperty(connKeyFeed).(context.CancelFunc); ok {
		cancel()
	}
	conn.RemoveProperty(connKeyFeed)
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, err error) {
	code, msg := handler.HandleError(ctx, err)
	h.fail(resp, code, msg)
}
