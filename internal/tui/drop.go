package tui

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// dropPath interprets pasted text as a file dropped onto the terminal.
// Terminals paste dropped files as their path, sometimes quoted, with
// shell-escaped spaces, or as a file:// URL. It returns the cleaned path
// and true when the text names exactly one existing regular file.
func dropPath(pasted, workDir string) (string, bool) {
	p := normalizeDropPath(pasted)
	if p == "" || strings.ContainsAny(p, "\n\r") {
		return "", false
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	if !filepath.IsAbs(p) && workDir != "" {
		p = filepath.Join(workDir, p)
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}

// normalizeDropPath strips the decorations terminals add to dropped paths.
func normalizeDropPath(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"') && first == last {
			s = s[1 : len(s)-1]
		}
	}
	if strings.HasPrefix(s, "file://") {
		if u, err := url.Parse(s); err == nil && u.Path != "" {
			s = u.Path
		} else {
			s = strings.TrimPrefix(s, "file://")
		}
	}
	if strings.Contains(s, `\`) && filepath.Separator == '/' {
		s = unescapeShell(s)
	}
	return s
}

// unescapeShell removes backslash escapes such as `\ ` and `\(`.
func unescapeShell(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			sb.WriteRune(r)
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		sb.WriteRune(r)
	}
	if escaped {
		sb.WriteRune('\\')
	}
	return sb.String()
}
