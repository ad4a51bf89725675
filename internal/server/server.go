// Package server accepts client connections and speaks the line protocol:
// one request per line in, response frames out. Plain TCP is the primary
// transport; ws.go adds a websocket gateway over the same handler.
package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/bogglefr/bogglesrv/internal/config"
	"github.com/bogglefr/bogglesrv/internal/errs"
	"github.com/bogglefr/bogglesrv/internal/game"
	"github.com/bogglefr/bogglesrv/internal/gamelog"
	"github.com/bogglefr/bogglesrv/internal/players"
	"github.com/bogglefr/bogglesrv/internal/protocol"
	"github.com/bogglefr/bogglesrv/internal/scheduler"
)

// Server is the game server accepting player connections.
type Server struct {
	cfg   config.Server
	game  *game.Game
	sched *scheduler.Scheduler
	glog  *gamelog.Log

	listener net.Listener
	mu       sync.Mutex
}

func New(cfg config.Server, g *game.Game, sched *scheduler.Scheduler, glog *gamelog.Log) *Server {
	return &Server{cfg: cfg, game: g, sched: sched, glog: glog}
}

// Addr returns the address the server is listening on, or nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens on cfg.BindAddress:cfg.Port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln. Used directly by tests with their own
// listeners.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("serveur démarré", "address", ln.Addr())

	var wg sync.WaitGroup
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil
			default:
				slog.Error("failed to accept new connection", "error", err)
				continue
			}
		}

		// Detect dead peers that never said SORT.
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				slog.Warn("set keepalive failed", "error", err)
			}
			if err := tcpConn.SetKeepAlivePeriod(30 * time.Second); err != nil {
				slog.Warn("set keepalive period failed", "error", err)
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleConnection(ctx, conn)
		}()
	}
}

// handleConnection drives one client: a CONNEXION line first, then the
// request loop until SORT, EOF or cancellation.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	slog.Info("nouvelle connexion", "remote", conn.RemoteAddr())

	br := bufio.NewReader(conn)
	line, err := br.ReadString('\n')
	if err != nil {
		slog.Debug("connection dropped before login", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	// Before login, any line that is not a well-formed CONNEXION is an
	// unauthorized request.
	req, err := protocol.Parse(line)
	if err != nil {
		s.glog.Record(gamelog.Error(errs.NewUnauthorizedRequest(line)))
		return
	}
	hello, ok := req.(protocol.Login)
	if !ok {
		s.glog.Record(gamelog.Error(errs.NewUnauthorizedRequest(line)))
		return
	}

	user := hello.Username
	pc := players.NewNetConn(conn)
	if err := s.game.Register(user, pc); err != nil {
		s.glog.Record(gamelog.Error(err))
		return
	}

	// Kick the session loop only once the player is registered: the loop's
	// empty check either counts the newcomer and keeps going, or has already
	// cleared the running flag and gets relaunched here. Either way the turn
	// gate the welcome parks on will open.
	s.sched.EnsureRunning(ctx)

	if err := s.game.AwaitWelcome(ctx, user, pc); err != nil {
		s.glog.Record(gamelog.Error(err))
		return
	}
	s.glog.Record(gamelog.Login(user))

	// A vanished peer leaves the game the same way a SORT would, minus the
	// double logout when SORT already ran.
	defer func() {
		if s.game.IsConnected(user) {
			if err := s.game.Logout(user); err == nil {
				s.glog.Record(gamelog.Logout(user))
			}
		}
	}()

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				slog.Debug("read failed", "player", user, "error", err)
			}
			return
		}

		req, err := protocol.Parse(line)
		if err != nil {
			s.glog.Record(gamelog.Error(err))
			continue
		}

		switch r := req.(type) {
		case protocol.Found:
			ack, err := s.game.Found(user, r.Word, r.Trajectory)
			if err != nil {
				s.glog.Record(gamelog.Rejected(user, r.Word, err))
				s.write(pc, user, protocol.MInvalide(err))
				continue
			}
			s.glog.Record(gamelog.Accepted(user, r.Word))
			if ack {
				s.write(pc, user, protocol.MValide(r.Word))
			}

		case protocol.Logout:
			if r.Username != user {
				s.glog.Record(gamelog.Error(errs.NewBadRequest(line)))
				continue
			}
			if err := s.game.Logout(user); err != nil {
				s.glog.Record(gamelog.Error(err))
				continue
			}
			s.glog.Record(gamelog.Logout(user))
			return

		case protocol.ChatAll:
			s.game.ChatAll(r.Message)

		case protocol.Chat:
			if err := s.game.Chat(user, r.Recipient, r.Message); err != nil {
				s.glog.Record(gamelog.Error(err))
			}

		case protocol.Login:
			s.glog.Record(gamelog.Error(errs.NewBadRequest(line)))
		}
	}
}

func (s *Server) write(pc players.Conn, user, frame string) {
	if _, err := pc.Write([]byte(frame)); err != nil {
		slog.Warn("write failed", "player", user, "error", err)
	}
}
