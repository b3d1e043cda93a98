package workflow

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/csheth/studyforge/internal/studyapi"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with 1024-based units, rounded to two
// decimals: 0 → "0 Bytes", 1024 → "1 KB", 1500000 → "1.43 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return fmt.Sprintf("%d Bytes", bytes)
	}
	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[unit]
}

var academicLevelLabels = map[string]string{
	studyapi.LevelHighSchool:    "High School",
	studyapi.LevelUndergraduate: "Undergraduate",
	studyapi.LevelGraduate:      "Graduate",
}

// FormatAcademicLevel maps a level code to its label; unknown codes pass through.
func FormatAcademicLevel(level string) string {
	if label, ok := academicLevelLabels[level]; ok {
		return label
	}
	return level
}

// FormatGenerationTime renders the backend's millisecond generation time.
func FormatGenerationTime(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).String()
}

// FormatPages renders a page range as "start-end".
func FormatPages(pageStart, pageEnd int) string {
	return fmt.Sprintf("%d-%d", pageStart, pageEnd)
}
