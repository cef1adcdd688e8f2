package interfaces

import (
	"Automancy/internal/game/actor"
	"Automancy/internal/game/interfaces/handler"
	"Automancy/internal/game/interfaces/handler/http"
	ws2 "Automancy/internal/game/interfaces/handler/ws"
	transporthttp "Automancy/internal/shared/transport/http"
	"Automancy/internal/shared/transport/ws"
	"Automancy/modules/kit/logx"
	"time"

	"github.com/gin-gonic/gin"
)

type Module struct {
	wsHandler   *ws2.WsHandler
	httpHandler *http.HttpHandler
}

func New(rt *actor.Runtime, transactionTTL time.Duration, l logx.Logger) *Module {
	game := handler.NewGame(rt, transactionTTL, l)
	return &Module{
		wsHandler:   ws2.NewWsHandler(game),
		httpHandler: http.NewHttpHandler(game),
	}
}

func (m *Module) WsRegister(r *ws.Router) {
	m.wsHandler.RegisterRoutes(r)
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ ws.Registrar = (*Module)(nil)
var _ transporthttp.Registrar = (*Module)(nil)
