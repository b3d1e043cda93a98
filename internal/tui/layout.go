package tui

import "strings"

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 12,
	}
}

// Update resizes the summary viewport to the window. The viewport takes what
// is left after the header, file info and status chrome, never less than six
// lines.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	const chrome = 14
	usable := height - chrome
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable
}

func (l pageLayout) wrapWidth() int {
	width := l.viewportWidth - 2
	if width < 20 {
		width = 20
	}
	return width
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

// WriteBlock appends a rendered block followed by a blank separator line.
func (cb *contentBuilder) WriteBlock(block string) {
	if strings.TrimSpace(block) == "" {
		return
	}
	cb.WriteString(block)
	cb.WriteString("\n\n")
}

func (cb *contentBuilder) String() string {
	return strings.TrimRight(cb.builder.String(), "\n")
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// fitToWindow drops lines above anchor so the anchored panel stays on screen
// when the page is taller than the window.
func fitToWindow(content string, anchor, height int) string {
	if height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= height || anchor <= 0 {
		return content
	}
	maxStart := len(lines) - height
	if anchor > maxStart {
		anchor = maxStart
	}
	return strings.Join(lines[anchor:], "\n")
}
