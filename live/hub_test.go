package live

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgrid/arena-system/models"
)

func TestTournamentRoomNaming(t *testing.T) {
	assert.Equal(t, "tournament_abc", TournamentRoom("abc"))
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	// Без подписчиков рассылка не должна ни паниковать, ни блокироваться.
	hub.BroadcastToRoom(RoomLiveGames, Event{Type: EventLiveGames})
	assert.Zero(t, hub.RoomSize(RoomLiveGames))
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, RoomLiveGames)
	hub.Register <- client
	require.Eventually(t, func() bool {
		return hub.RoomSize(RoomLiveGames) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister <- client
	require.Eventually(t, func() bool {
		return hub.RoomSize(RoomLiveGames) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBroadcastDeliversToRoomMembers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	subscriber := NewClient(hub, nil, TournamentRoom("t1"))
	outsider := NewClient(hub, nil, TournamentRoom("t2"))
	hub.Register <- subscriber
	hub.Register <- outsider
	require.Eventually(t, func() bool {
		return hub.RoomSize(TournamentRoom("t1")) == 1 && hub.RoomSize(TournamentRoom("t2")) == 1
	}, time.Second, 10*time.Millisecond)

	NewStandingsBroadcaster(hub).ResultReviewed(context.Background(), "t1", "result-1", true)

	select {
	case raw := <-subscriber.send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventResultReviewed, event.Type)
		assert.Equal(t, TournamentRoom("t1"), event.RoomID)
		payload, ok := event.Payload.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "result-1", payload["result_id"])
		assert.Equal(t, true, payload["approved"])
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case <-outsider.send:
		t.Fatal("event leaked into another tournament room")
	default:
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticLiveGames struct {
	games []models.LiveGame
}

func (s *staticLiveGames) LiveGames(ctx context.Context) ([]models.LiveGame, error) {
	return s.games, nil
}

func TestBroadcasterPublishesLiveGames(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub, nil, RoomLiveGames)
	hub.Register <- client
	require.Eventually(t, func() bool {
		return hub.RoomSize(RoomLiveGames) == 1
	}, time.Second, 10*time.Millisecond)

	source := &staticLiveGames{games: []models.LiveGame{{ID: "match-1"}}}
	broadcaster := NewBroadcaster(hub, source, 20*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go broadcaster.Run(ctx)

	select {
	case raw := <-client.send:
		var event Event
		require.NoError(t, json.Unmarshal(raw, &event))
		assert.Equal(t, EventLiveGames, event.Type)
		assert.Equal(t, RoomLiveGames, event.RoomID)
	case <-time.After(time.Second):
		t.Fatal("broadcaster did not publish live games")
	}
}
