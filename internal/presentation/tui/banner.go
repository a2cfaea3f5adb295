package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the navi banner with the version line to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  _ __   __ ___   _(_)", "#60a5fa"},
		{" | '_ \\ / _` \\ \\ / / |", "#818cf8"},
		{" | | | | (_| |\\ V /| |", "#a78bfa"},
		{" |_| |_|\\__,_| \\_/ |_|", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  離婚サバイバルナビ "+version).Faint())
	fmt.Fprintln(w)
}
