package ws

import (
	"Automancy/modules/kit/logx"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	outQueue     = 256
	writeTimeout = 5 * time.Second
)

// WsServer is one client connection. Frames are JSON text messages; every
// request gets a response with the same seq, pushes carry seq 0.
type WsServer struct {
	conn     *websocket.Conn
	router   *Router
	outChan  chan *WsMsgResp
	property map[string]any
	sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	log       logx.Logger
}

func NewWsServer(parent context.Context, wsConn *websocket.Conn, l logx.Logger) *WsServer {
	ctx, cancel := context.WithCancel(parent)
	return &WsServer{
		conn:     wsConn,
		outChan:  make(chan *WsMsgResp, outQueue),
		property: make(map[string]any),
		ctx:      ctx,
		cancel:   cancel,
		log:      l,
	}
}

func (s *WsServer) Router(router *Router) {
	s.router = router
}

func (s *WsServer) SetProperty(key string, value any) {
	s.Lock()
	defer s.Unlock()
	s.property[key] = value
}

func (s *WsServer) GetProperty(key string) any {
	s.RLock()
	defer s.RUnlock()
	return s.property[key]
}

func (s *WsServer) RemoveProperty(key string) {
	s.Lock()
	defer s.Unlock()
	delete(s.property, key)
}

func (s *WsServer) Addr() string {
	return s.conn.RemoteAddr().String()
}

// Push queues a server-initiated message. It drops the message once the
// connection is closed or its queue is full.
func (s *WsServer) Push(name string, data any) {
	s.send(&WsMsgResp{Body: &RespBody{Name: name, Msg: data}})
}

func (s *WsServer) send(msg *WsMsgResp) {
	select {
	case <-s.ctx.Done():
	case s.outChan <- msg:
	default:
		s.log.Warn("ws_server out queue full, dropping", zap.String("name", msg.Body.Name))
	}
}

func (s *WsServer) Run() {
	go s.readMsgLoop()
	go s.writeMsgLoop()
}

func (s *WsServer) readMsgLoop() {
	defer func() {
		if err := recover(); err != nil {
			s.log.Error("ws readMsgLoop panic", zap.String("err", fmt.Sprintf("%v", err)))
		}
		s.Close()
	}()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("ws_server read msg", zap.Error(err))
			}
			return
		}

		reqBody := ReqBody{}
		if err := json.Unmarshal(data, &reqBody); err != nil {
			s.log.Warn("ws_server unmarshal json", zap.Error(err))
			continue
		}

		req := WsMsgReq{Body: &reqBody, Conn: s}
		resp := WsMsgResp{Body: &RespBody{Seq: reqBody.Seq, Name: reqBody.Name}}
		if reqBody.Name == HeartbeatMsg {
			h := &Heartbeat{}
			_ = mapstructure.Decode(reqBody.Msg, h)
			h.STime = time.Now().UnixMilli()
			resp.Body.Msg = h
		} else {
			s.router.Dispatch(s.ctx, &req, &resp)
		}
		s.send(&resp)
	}
}

func (s *WsServer) writeMsgLoop() {
	for {
		select {
		case msg := <-s.outChan:
			s.write(msg)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *WsServer) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		_ = s.conn.Close()
	})
}

func (s *WsServer) Done() <-chan struct{} {
	return s.ctx.Done()
}

func (s *WsServer) write(msg *WsMsgResp) {
	raw, err := json.Marshal(msg.Body)
	if err != nil {
		s.log.Error("ws_server marshal json", zap.Error(err), zap.String("name", msg.Body.Name))
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		s.log.Warn("ws_server write", zap.Error(err))
		s.Close()
	}
}
