// Package ws hosts the socket.io relay. The relay is deliberately dumb: it
// tracks room membership and rebroadcasts named events verbatim to everyone
// else in the sender's room. It never inspects or stores game state; the
// clients are the replicas.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/xonyis/triman/internal/room"
)

type ConnCtx struct {
	Room string
}

type Server struct {
	mu      sync.Mutex
	members map[string]map[string]socketio.Conn // room id -> socket id -> conn
}

func New() *Server {
	return &Server{members: make(map[string]map[string]socketio.Conn)}
}

// Mount attaches the Socket.IO server with all relay handlers to the given
// Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", room.EventRoomJoin, func(s socketio.Conn, roomID string) {
		if roomID == "" {
			return
		}
		ctx := s.Context().(*ConnCtx)
		if ctx.Room != "" {
			s.Leave(ctx.Room)
			srv.removeMember(ctx.Room, s)
		}
		ctx.Room = roomID
		s.Join(roomID)
		srv.addMember(roomID, s)
		log.Info().Str("sid", s.ID()).Str("room", roomID).Msg(room.EventRoomJoin)
		srv.relay(s, room.EventRoomJoined, mustRaw(map[string]string{"id": s.ID()}))
	})

	// Roster edits, rolls and state requests carry a payload; it is relayed
	// untouched, receivers re-derive the transition themselves.
	for _, ev := range room.RelayedEvents {
		switch ev {
		case room.EventGameStart, room.EventGameReset:
			io.OnEvent("/", ev, func(event string) func(socketio.Conn) {
				return func(s socketio.Conn) { srv.relay(s, event, nil) }
			}(ev))
		default:
			io.OnEvent("/", ev, func(event string) func(socketio.Conn, json.RawMessage) {
				return func(s socketio.Conn, payload json.RawMessage) {
					srv.relay(s, event, payload)
				}
			}(ev))
		}
	}

	// The one point-to-point path: a snapshot reply goes only to the socket
	// it is addressed to, with the address stripped.
	io.OnEvent("/", room.EventStateUpdate, func(s socketio.Conn, payload struct {
		To    string          `json:"to"`
		State json.RawMessage `json:"state"`
	}) {
		ctx, _ := s.Context().(*ConnCtx)
		if ctx == nil || ctx.Room == "" || payload.To == "" {
			return
		}
		srv.mu.Lock()
		target := srv.members[ctx.Room][payload.To]
		srv.mu.Unlock()
		if target == nil {
			log.Warn().Str("room", ctx.Room).Str("to", payload.To).Msg("state:update target not in room")
			return
		}
		target.Emit(room.EventStateUpdate, map[string]json.RawMessage{"state": payload.State})
		log.Info().Str("room", ctx.Room).Str("from", s.ID()).Str("to", payload.To).Msg(room.EventStateUpdate)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Room != "" {
			srv.removeMember(ctx.Room, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	return io
}

// RoomSize returns the number of connected sockets in a room.
func (srv *Server) RoomSize(roomID string) int {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	return len(srv.members[roomID])
}

// relay rebroadcasts an event to everyone in the sender's room except the
// sender. A sender that never joined a room gets dropped rather than leaking
// into a global broadcast.
func (srv *Server) relay(s socketio.Conn, event string, payload json.RawMessage) {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil || ctx.Room == "" {
		log.Warn().Str("sid", s.ID()).Str("event", event).Msg("relay without room, dropping")
		return
	}
	srv.mu.Lock()
	conns := make([]socketio.Conn, 0, len(srv.members[ctx.Room]))
	for sid, c := range srv.members[ctx.Room] {
		if sid == s.ID() {
			continue
		}
		conns = append(conns, c)
	}
	srv.mu.Unlock()

	for _, c := range conns {
		if payload == nil {
			c.Emit(event)
		} else {
			c.Emit(event, payload)
		}
	}
	log.Debug().Str("room", ctx.Room).Str("event", event).Int("peers", len(conns)).Msg("relayed")
}

func (srv *Server) addMember(roomID string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[roomID] == nil {
		srv.members[roomID] = make(map[string]socketio.Conn)
	}
	srv.members[roomID][c.ID()] = c
}

func (srv *Server) removeMember(roomID string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[roomID]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, roomID)
		}
	}
}

func mustRaw(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
