package ws

import (
	"Automancy/modules/kit/logx"
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Server struct {
	router   *Router
	log      logx.Logger
	upgrader websocket.Upgrader
}

func NewServer(r *Router, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	return &Server{
		router: r,
		log:    l,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	wsConn, err := s.upgrader.Upgrade(resp, req, nil)
	if err != nil {
		s.log.Error("websocket upgrade error", zap.Error(err))
		return
	}
	s.log.Debug("websocket connected", zap.String("addr", wsConn.RemoteAddr().String()))

	// The request context ends with the handler; the connection outlives it.
	wsServer := NewWsServer(context.WithoutCancel(req.Context()), wsConn, s.log)
	wsServer.Router(s.router)
	wsServer.Run()
}
