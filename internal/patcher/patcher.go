// Package patcher performs one-shot text substitutions on files.
package patcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/meiyaku-knights/navi/internal/fsutil"
)

// Status is the outcome of Patch.
type Status int

const (
	NotFound Status = iota
	Replaced
	// ReplacedNormalized means the match needed CRLF → LF normalization.
	// The whole file is written back with LF line endings.
	ReplacedNormalized
)

func (s Status) String() string {
	switch s {
	case Replaced:
		return "replaced"
	case ReplacedNormalized:
		return "replaced (normalized line endings)"
	default:
		return "not found"
	}
}

// Apply replaces the first occurrence of old in content.
// When content has no exact match, both sides are retried with CRLF normalized to LF.
func Apply(content, old, new string) (string, Status) {
	if old == "" {
		return content, NotFound
	}
	if strings.Contains(content, old) {
		return strings.Replace(content, old, new, 1), Replaced
	}

	normContent := normalize(content)
	normOld := normalize(old)
	if strings.Contains(normContent, normOld) {
		return strings.Replace(normContent, normOld, new, 1), ReplacedNormalized
	}
	return content, NotFound
}

// Patch applies the substitution to the file at path. The file is left untouched on NotFound.
func Patch(path, old, new string) (Status, error) {
	info, err := os.Stat(path)
	if err != nil {
		return NotFound, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return NotFound, fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, status := Apply(string(data), old, new)
	if status == NotFound {
		return status, nil
	}
	if err := fsutil.WriteAtomic(path, []byte(out), info.Mode().Perm()); err != nil {
		return NotFound, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return status, nil
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
