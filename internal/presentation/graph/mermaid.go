package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/meiyaku-knights/navi/pkg/domain"
)

// GraphOverlay contains session state to highlight on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFor builds the overlay of a session: every answered question plus the current node.
func OverlayFor(s *domain.Session) *GraphOverlay {
	o := &GraphOverlay{CurrentNode: s.CurrentID}
	for _, d := range s.Path {
		o.VisitedNodes = append(o.VisitedNodes, d.QuestionID)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the navigator graph.
// Shapes:
// - Start question: ((Circle))
// - Question: [/Parallelogram/]
// - Result: [[Subroutine]], styled by its phase level
// Edges carry the option label. Output order is deterministic.
func GenerateMermaid(g *domain.Graph, startID string, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range sortedKeys(g.Questions) {
		q := g.Questions[id]
		safeID := sanitizeMermaidID(id)

		opener, closer := "[/", "/]"
		if id == startID {
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label(id, q.Text), closer)

		for _, opt := range q.Options {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", safeID, escape(opt.Label), sanitizeMermaidID(opt.Next))
		}
	}

	levels := make(map[string][]string)
	for _, id := range sortedKeys(g.Results) {
		r := g.Results[id]
		safeID := sanitizeMermaidID(id)
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", safeID, label(id, r.Phase))
		if r.PhaseLevel != "" {
			levels[r.PhaseLevel] = append(levels[r.PhaseLevel], safeID)
		}
	}

	if len(levels) > 0 {
		sb.WriteString("\n    %% Phase Levels\n")
		for _, level := range sortedKeys(levels) {
			class := sanitizeMermaidID(level)
			fmt.Fprintf(&sb, "    classDef %s %s;\n", class, phaseStyle(level))
			fmt.Fprintf(&sb, "    class %s %s;\n", strings.Join(levels[level], ","), class)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visited[safeID] && safeID != "" {
				visited[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func phaseStyle(level string) string {
	switch {
	case strings.Contains(level, "red"):
		return "fill:#ffebee,stroke:#c62828,color:#000"
	case strings.Contains(level, "orange"):
		return "fill:#fff3e0,stroke:#ef6c00,color:#000"
	case strings.Contains(level, "yellow"):
		return "fill:#fffde7,stroke:#f9a825,color:#000"
	case strings.Contains(level, "green"):
		return "fill:#e8f5e9,stroke:#2e7d32,color:#000"
	default:
		return "fill:#eceff1,stroke:#455a64,color:#000"
	}
}

const maxLabelRunes = 24

func label(id, text string) string {
	if text == "" {
		return id
	}
	r := []rune(text)
	if len(r) > maxLabelRunes {
		text = string(r[:maxLabelRunes]) + "…"
	}
	return escape(id + ": " + text)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
