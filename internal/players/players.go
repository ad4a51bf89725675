// Package players maps usernames to the write side of their connections and
// carries all message fan-out: login/logout notifications, broadcasts and
// private chat.
package players

import (
	"fmt"
	"log/slog"

	"github.com/bogglefr/bogglesrv/internal/errs"
)

// Registry is the set of logged-in players. It is not internally locked;
// the game façade serializes access behind its players lock.
type Registry struct {
	conns map[string]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Login registers a new player. The CONNECTE notification goes out to the
// players present before the newcomer is inserted, so the newcomer never
// sees their own arrival.
func (r *Registry) Login(name string, conn Conn) error {
	if _, ok := r.conns[name]; ok {
		return errs.NewExistingUser(name)
	}
	r.Broadcast(fmt.Sprintf("CONNECTE/%s/\n", name))
	r.conns[name] = conn
	return nil
}

// Logout removes the player, notifies everyone left and shuts the leaver's
// connection down. The frame keeps the bare '/' terminator of the reference
// client.
func (r *Registry) Logout(name string) error {
	conn, ok := r.conns[name]
	if !ok {
		return errs.NewNonExistingUser(name)
	}
	delete(r.conns, name)
	r.Broadcast(fmt.Sprintf("DECONNEXION/%s/", name))

	// Already-dead peers make this fail; the reader side is gone either way.
	if err := conn.Shutdown(); err != nil {
		slog.Debug("shutdown after logout", "player", name, "error", err)
	}
	return nil
}

// IsConnected reports whether the player is logged in.
func (r *Registry) IsConnected(name string) bool {
	_, ok := r.conns[name]
	return ok
}

// Count returns the number of logged-in players.
func (r *Registry) Count() int { return len(r.conns) }

// Users lists the logged-in player names in unspecified order.
func (r *Registry) Users() []string {
	names := make([]string, 0, len(r.conns))
	for name := range r.conns {
		names = append(names, name)
	}
	return names
}

// Broadcast writes the message to every player. A failing connection is
// logged and skipped; it is retired later when its reader sees EOF.
func (r *Registry) Broadcast(message string) {
	for name, conn := range r.conns {
		if _, err := conn.Write([]byte(message)); err != nil {
			slog.Warn("broadcast write failed", "player", name, "error", err)
		}
	}
}

// Chat delivers a private message to receiver only.
func (r *Registry) Chat(sender, receiver, message string) error {
	if !r.IsConnected(sender) {
		return errs.NewInvalidChat(sender, receiver, message, errs.NewNonExistingUser(sender))
	}
	conn, ok := r.conns[receiver]
	if !ok {
		return errs.NewInvalidChat(sender, receiver, message, errs.NewNonExistingUser(receiver))
	}

	frame := fmt.Sprintf("PRECEPTION/%s/%s/\n", message, sender)
	if _, err := conn.Write([]byte(frame)); err != nil {
		slog.Warn("chat write failed", "from", sender, "to", receiver, "error", err)
	}
	return nil
}
