package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// The gateway is meant for local browser clients; same-origin checks
	// would only get in their way.
	CheckOrigin: func(*http.Request) bool { return true },
}

// RunWS serves the line protocol over websocket on cfg.WSPort, one text
// message per line. Each upgraded connection goes through the same handler
// as a plain TCP one. No-op when the gateway is disabled.
func (s *Server) RunWS(ctx context.Context) error {
	if s.cfg.WSPort == 0 {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/socket", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		s.handleConnection(ctx, &wsConn{conn: conn})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.WSPort),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("passerelle websocket démarrée", "address", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("websocket gateway: %w", err)
	}
	return nil
}

// wsConn adapts a websocket connection to net.Conn so the request loop can
// read it through bufio like any socket. Reads re-frame messages as lines;
// the newline terminator is restored when the client omits it.
type wsConn struct {
	conn *websocket.Conn
	buf  []byte
}

func (c *wsConn) Read(p []byte) (int, error) {
	if len(c.buf) == 0 {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		c.buf = data
	}
	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error { return c.conn.Close() }

func (c *wsConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *wsConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

func (c *wsConn) SetDeadline(t time.Time) error {
	if err := c.conn.SetReadDeadline(t); err != nil {
		return err
	}
	return c.conn.SetWriteDeadline(t)
}

func (c *wsConn) SetReadDeadline(t time.Time) error  { return c.conn.SetReadDeadline(t) }
func (c *wsConn) SetWriteDeadline(t time.Time) error { return c.conn.SetWriteDeadline(t) }
