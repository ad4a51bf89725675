// Package protocol implements the line-oriented wire grammar: '/'-separated
// request parsing and response frame formatting.
//
// Requests and responses are newline-delimited UTF-8; every response ends
// with a '/' terminator before the newline.
package protocol

import (
	"fmt"
	"strings"

	"github.com/bogglefr/bogglesrv/internal/errs"
)

// Request is one parsed client request: Login, Logout, Found, ChatAll or
// Chat.
type Request interface{ request() }

// Login is CONNEXION/<username>/.
type Login struct{ Username string }

// Logout is SORT/<username>/.
type Logout struct{ Username string }

// Found is TROUVE/<word>/<trajectory>/.
type Found struct{ Word, Trajectory string }

// ChatAll is ENVOI/<message>/.
type ChatAll struct{ Message string }

// Chat is PENVOI/<recipient>/<message>/.
type Chat struct{ Recipient, Message string }

func (Login) request()   {}
func (Logout) request()  {}
func (Found) request()   {}
func (ChatAll) request() {}
func (Chat) request()    {}

// Parse destructs a request line. An unknown verb, a missing field or an
// empty mandatory field yields BadRequest.
func Parse(line string) (Request, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), "/")
	bad := errs.NewBadRequest(line)

	field := func(i int) (string, bool) {
		if i >= len(parts) || parts[i] == "" {
			return "", false
		}
		return parts[i], true
	}

	switch parts[0] {
	case "CONNEXION":
		name, ok := field(1)
		if !ok {
			return nil, bad
		}
		return Login{Username: name}, nil
	case "SORT":
		name, ok := field(1)
		if !ok {
			return nil, bad
		}
		return Logout{Username: name}, nil
	case "TROUVE":
		word, ok := field(1)
		trajectory, ok2 := field(2)
		if !ok || !ok2 {
			return nil, bad
		}
		return Found{Word: word, Trajectory: trajectory}, nil
	case "ENVOI":
		msg, ok := field(1)
		if !ok {
			return nil, bad
		}
		return ChatAll{Message: msg}, nil
	case "PENVOI":
		to, ok := field(1)
		msg, ok2 := field(2)
		if !ok || !ok2 {
			return nil, bad
		}
		return Chat{Recipient: to, Message: msg}, nil
	default:
		return nil, bad
	}
}

// Response frame constructors. The board and the registry format the frames
// tied to their own state (BIENVENUE, BILANMOTS, CONNECTE, DECONNEXION,
// PRECEPTION); everything else is here.

func Session() string { return "SESSION/\n" }

func Tour(grid string) string { return fmt.Sprintf("TOUR/%s/\n", grid) }

func RFin() string { return "RFIN/\n" }

func Vainqueur(scores string) string { return fmt.Sprintf("VAINQUEUR/%s/\n", scores) }

func MValide(word string) string { return fmt.Sprintf("MVALIDE/%s/\n", word) }

func MInvalide(err error) string { return fmt.Sprintf("MINVALIDE/%v/\n", err) }

func Reception(message string) string { return fmt.Sprintf("RECEPTION/%s/\n", message) }
