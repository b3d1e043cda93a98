package tui

const heroTagline = "Turn a PDF into study material."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

type promptMode int

const (
	promptNone promptMode = iota
	promptBrowse
	promptDrop
)

type formField int

const (
	fieldStart formField = iota
	fieldEnd
	fieldLevel
)

var formFields = []formField{fieldStart, fieldEnd, fieldLevel}

const (
	browsePlaceholder = "Path to a PDF, eg. ~/notes/chapter1.pdf"
	dropPlaceholder   = "Drop a file onto the terminal or paste its path…"
	idleHint          = "Press b to browse for a PDF or d to drop one."
	busyHint          = "Wait for the current request to finish."
)
