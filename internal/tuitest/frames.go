package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one full-screen render between two screen clears.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	clearScreen = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	ansiCSI     = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	ansiOSC     = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
	shiftChars  = strings.NewReplacer("\x0e", "", "\x0f", "")
)

func parseFrames(raw []byte) []Frame {
	stream := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, segment := range clearScreen.Split(stream, -1) {
		segment = strings.TrimPrefix(strings.Trim(segment, "\x00"), "\x1b[H")
		plain := plainText(segment)
		if plain == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: segment, Plain: plain})
	}
	if frames == nil && stream != "" {
		frames = []Frame{{ANSI: stream, Plain: plainText(stream)}}
	}
	return frames
}

// FinalFrame returns the last captured frame, or false when nothing was
// drawn.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// PlainText returns the whole stream with escape sequences removed. Bubble Tea
// repaints only changed lines, so text can be missing from the final frame
// while still present here.
func (r *Recording) PlainText() string {
	if r == nil {
		return ""
	}
	return plainText(strings.ReplaceAll(string(r.Raw), "\r", ""))
}

// FirstFrameContaining returns the first frame whose plain text contains
// needle.
func (r *Recording) FirstFrameContaining(needle string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for _, frame := range r.Frames {
		if strings.Contains(frame.Plain, needle) {
			return frame, true
		}
	}
	return Frame{}, false
}

// plainText strips escape sequences, trailing spaces and trailing blank
// lines.
func plainText(s string) string {
	s = shiftChars.Replace(ansiCSI.ReplaceAllString(ansiOSC.ReplaceAllString(s, ""), ""))
	lines := strings.Split(s, "\n")
	end := 0
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
		if strings.TrimSpace(lines[i]) != "" {
			end = i + 1
		}
	}
	return strings.Join(lines[:end], "\n")
}
