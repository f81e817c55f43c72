// Package notify carries one-shot notifications across the
// post/redirect/get cycle as session flashes.
package notify

import (
	"encoding/gob"
	"fmt"

	"github.com/gorilla/sessions"
)

func init() {
	gob.Register(Notice{})
}

// Levels
const (
	Success = "success"
	Error   = "error"
	Info    = "info"
)

// Notice is a dismissable title + message.
type Notice struct {
	Level   string
	Title   string
	Message string
}

// Push queues n on sess. The caller saves the session.
func Push(sess *sessions.Session, n Notice) {
	sess.AddFlash(n)
}

// Pop removes and returns the queued notices in order. The caller saves
// the session so they are shown once.
func Pop(sess *sessions.Session) []Notice {
	var out []Notice
	for _, f := range sess.Flashes() {
		if n, ok := f.(Notice); ok {
			out = append(out, n)
		}
	}
	return out
}

// Failure builds an error notice, appending the backend detail when
// there is one.
func Failure(title, msg string, err error) Notice {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return Notice{Level: Error, Title: title, Message: msg}
}

// Done builds a success notice.
func Done(title, msg string) Notice {
	return Notice{Level: Success, Title: title, Message: msg}
}
