package tuitest

import (
	"bytes"
	"io"
)

// terminalQuery pairs an escape sequence the program may send while probing
// the terminal with the reply a real terminal would give.
type terminalQuery struct {
	ask   []byte
	reply []byte
}

const (
	foregroundColour = "rgb:cccc/cccc/cccc"
	backgroundColour = "rgb:0000/0000/0000"
)

// Lipgloss and bubbletea probe cursor position and OSC 10/11 colours on
// start-up; without replies they block until their own timeouts expire.
var terminalQueries = []terminalQuery{
	{ask: []byte("\x1b[6n"), reply: []byte("\x1b[1;1R")},
	{ask: []byte("\x1b]10;?\x07"), reply: []byte("\x1b]10;" + foregroundColour + "\x07")},
	{ask: []byte("\x1b]10;?\x1b\\"), reply: []byte("\x1b]10;" + foregroundColour + "\x1b\\")},
	{ask: []byte("\x1b]11;?\x07"), reply: []byte("\x1b]11;" + backgroundColour + "\x07")},
	{ask: []byte("\x1b]11;?\x1b\\"), reply: []byte("\x1b]11;" + backgroundColour + "\x1b\\")},
}

const (
	responderMaxBuffer = 256
	responderTail      = 64
)

// terminalResponder watches program output and answers terminal queries in
// the order they were written.
type terminalResponder struct {
	w       io.Writer
	pending []byte
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, pending: make([]byte, 0, 2*responderTail)}
}

// Process feeds a chunk of program output. Queries split across chunks are
// still answered because a short tail is carried between calls.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.pending = append(tr.pending, chunk...)
	for tr.answerNext() {
	}
	if len(tr.pending) > responderMaxBuffer {
		tr.pending = append(tr.pending[:0], tr.pending[len(tr.pending)-responderTail:]...)
	}
}

func (tr *terminalResponder) answerNext() bool {
	at, match := -1, -1
	for i, q := range terminalQueries {
		idx := bytes.Index(tr.pending, q.ask)
		if idx >= 0 && (at < 0 || idx < at) {
			at, match = idx, i
		}
	}
	if match < 0 {
		return false
	}
	q := terminalQueries[match]
	tr.pending = tr.pending[at+len(q.ask):]
	_, _ = tr.w.Write(q.reply)
	return true
}
