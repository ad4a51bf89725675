// Package errs defines the game error taxonomy.
//
// Every fallible gameplay operation returns an *Error. The Kind drives the
// server's reaction (reject the frame, close the connection, log only); the
// Error() string is the French message sent back in MINVALIDE frames.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the semantic class of a game error.
type Kind int

const (
	// ExistingUser is returned on a duplicate login name.
	ExistingUser Kind = iota
	// NonExistingUser is returned when an operation names an unknown player.
	NonExistingUser
	// InvalidCoordinates is returned for a square outside A-D / 1-4.
	InvalidCoordinates
	// BadRequest is returned for an unknown verb or wrong arity.
	BadRequest
	// NonExistingWord is returned on a dictionary miss.
	NonExistingWord
	// AlreadyPlayed is returned when the word was already submitted this turn.
	AlreadyPlayed
	// BadTrajectory is returned for a malformed, non-adjacent or
	// self-intersecting trajectory.
	BadTrajectory
	// NoMatch is returned when the trajectory does not spell the claimed word.
	NoMatch
	// UnauthorizedRequest is returned for any request before login.
	UnauthorizedRequest
	// InvalidChat is returned for a chat with an unknown peer.
	InvalidChat
)

func (k Kind) String() string {
	switch k {
	case ExistingUser:
		return "ExistingUser"
	case NonExistingUser:
		return "NonExistingUser"
	case InvalidCoordinates:
		return "InvalidCoordinates"
	case BadRequest:
		return "BadRequest"
	case NonExistingWord:
		return "NonExistingWord"
	case AlreadyPlayed:
		return "AlreadyPlayed"
	case BadTrajectory:
		return "BadTrajectory"
	case NoMatch:
		return "NoMatch"
	case UnauthorizedRequest:
		return "UnauthorizedRequest"
	case InvalidChat:
		return "InvalidChat"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a game error. The message is user-facing French text.
type Error struct {
	Kind Kind

	// Immediate reports, for AlreadyPlayed only, whether the duplicate was
	// rejected on the spot (immediate-check mode) or recorded for exclusion
	// at turn end (deferred mode).
	Immediate bool

	msg string
	err error
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.err }

// KindOf extracts the Kind of err, or -1 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Kind(-1)
}

func NewExistingUser(username string) *Error {
	return &Error{
		Kind: ExistingUser,
		msg:  fmt.Sprintf("L'utilisateur %s existe déja.", username),
	}
}

func NewNonExistingUser(username string) *Error {
	return &Error{
		Kind: NonExistingUser,
		msg:  fmt.Sprintf("L'utilisateur %s n'existe pas.", username),
	}
}

func NewInvalidCoordinates(line byte, column int) *Error {
	return &Error{
		Kind: InvalidCoordinates,
		msg:  fmt.Sprintf("Les coordonnées (%c, %d) sont invalides.", line, column),
	}
}

func NewBadRequest(request string) *Error {
	return &Error{
		Kind: BadRequest,
		msg:  fmt.Sprintf("Requête invalide: %s.", request),
	}
}

func NewNonExistingWord(word string) *Error {
	return &Error{
		Kind: NonExistingWord,
		msg:  fmt.Sprintf("Le mot %s n'existe pas.", word),
	}
}

// NewAlreadyPlayed builds the duplicate-word error. In immediate-check mode
// the submission is hard-rejected; in deferred mode the caller records the
// word as invalid for the rest of the turn and keeps the connection going.
func NewAlreadyPlayed(word string, immediate bool) *Error {
	msg := fmt.Sprintf("Le mot %s a déjà ete joué.", word)
	if !immediate {
		msg = fmt.Sprintf("PRI: le mot %s a déjà été joué !", word)
	}
	return &Error{Kind: AlreadyPlayed, Immediate: immediate, msg: msg}
}

func NewBadTrajectory(trajectory string) *Error {
	return &Error{
		Kind: BadTrajectory,
		msg:  fmt.Sprintf("La trajectoire %s est invalide.", trajectory),
	}
}

func NewNoMatch(trajectory, word string) *Error {
	return &Error{
		Kind: NoMatch,
		msg:  fmt.Sprintf("La trajectoire %s ne correspond pas au mot %s.", trajectory, word),
	}
}

func NewUnauthorizedRequest(request string) *Error {
	return &Error{
		Kind: UnauthorizedRequest,
		msg:  fmt.Sprintf("La requête <%s> ne peut être soumise par un utilisateur non connecté.", request),
	}
}

func NewInvalidChat(sender, receiver, message string, cause error) *Error {
	return &Error{
		Kind: InvalidChat,
		msg: fmt.Sprintf("Le message <%s> soumis par %s n'a pas pu être envoyé à %s: %v",
			message, sender, receiver, cause),
		err: cause,
	}
}
