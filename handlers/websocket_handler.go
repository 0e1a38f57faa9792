package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/playgrid/arena-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Фронтенд ходит с другого origin, проверку делегируем CORS-слою.
		return true
	},
}

type WebsocketHandler struct {
	hub *live.Hub
}

func NewWebsocketHandler(hub *live.Hub) *WebsocketHandler {
	return &WebsocketHandler{hub: hub}
}

// LiveGamesWSHandler подписывает клиента на общую комнату живых игр.
func (h *WebsocketHandler) LiveGamesWSHandler(w http.ResponseWriter, r *http.Request) {
	h.subscribe(w, r, live.RoomLiveGames)
}

// TournamentWSHandler подписывает клиента на комнату конкретного турнира:
// туда прилетают события о рассмотренных результатах.
func (h *WebsocketHandler) TournamentWSHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getUUIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.subscribe(w, r, live.TournamentRoom(tournamentID))
}

func (h *WebsocketHandler) subscribe(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}

	client := live.NewClient(h.hub, conn, room)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
