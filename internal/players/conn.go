package players

import (
	"io"
	"net"
	"sync"
)

// Conn is the write side of a player connection. The registry is its
// exclusive owner; the read side stays with the per-connection goroutine.
//
// Write must not interleave concurrent frames; Shutdown tears the
// connection down and may be called more than once.
type Conn interface {
	io.Writer
	Shutdown() error
}

// NetConn adapts a net.Conn into a Conn. A mutex keeps frames written from
// different goroutines (direct replies, broadcasts) from interleaving.
type NetConn struct {
	mu   sync.Mutex
	conn net.Conn
}

func NewNetConn(conn net.Conn) *NetConn {
	return &NetConn{conn: conn}
}

func (c *NetConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Write(p)
}

// Shutdown closes the connection, unblocking the reader goroutine.
func (c *NetConn) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
