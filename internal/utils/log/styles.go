package log

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
)

// level labels are padded to the widest one
const levelWidth = 5

var levelColors = map[Level]lipgloss.AdaptiveColor{
	DebugLevel: {Light: "#6C6C6C", Dark: "#8A8A8A"},
	InfoLevel:  {Light: "#005FD7", Dark: "#5FAFFF"},
	WarnLevel:  {Light: "#AF8700", Dark: "#FFD75F"},
	ErrorLevel: {Light: "#D70000", Dark: "#FF5F5F"},
	FatalLevel: {Light: "#D70000", Dark: "#FF5F5F"},
}

func newStyles() *charmlog.Styles {
	s := charmlog.DefaultStyles()
	for level, c := range levelColors {
		label := fmt.Sprintf("%-*s", levelWidth, strings.ToUpper(level.String()))
		st := lipgloss.NewStyle().Foreground(c).SetString(label)
		if level == FatalLevel {
			st = st.Bold(true)
		}
		s.Levels[level] = st
	}
	return s
}

// UnderBold renders text underlined and bold
func UnderBold(text string) string {
	return lipgloss.NewStyle().
		Underline(true).
		Bold(true).
		Render(" " + text + " ")
}
