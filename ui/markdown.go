package ui

import (
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"nexushr/config"
)

const codeGutter = "┃"

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s\x1b]+)`)
)

// renderMarkdown renders assistant markdown for a terminal of the given width.
// Autolinking is off so URLs stay plain text the terminal can detect.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}
	content = mdLinkRegex.ReplaceAllString(content, "$1 $2")

	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width-4, 0)
	rendered := gomarkdown.Render(p.Parse([]byte(content)), r)

	out := inlineCodeRegex.ReplaceAllString(string(rendered), "\x1b[31m$1\x1b[0m")
	out = colorURLs(out)
	out = frameCodeBlocks(out, width)
	return strings.TrimRight(out, "\n")
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeGutter) {
			lines[i] = urlRegex.ReplaceAllString(line, "\x1b[31m$1\x1b[0m")
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the renderer's gutter with rules above and below
// each code block.
func frameCodeBlocks(s string, width int) string {
	rule := "\x1b[90m" + strings.Repeat("━", max(width-4, 1)) + "\x1b[0m"
	var out []string
	inBlock := false
	for _, line := range strings.Split(s, "\n") {
		idx := strings.Index(line, codeGutter)
		if idx < 0 {
			if inBlock {
				out = append(out, rule)
				inBlock = false
			}
			out = append(out, line)
			continue
		}
		if !inBlock {
			out = append(out, rule)
			inBlock = true
		}
		rest := line[idx+len(codeGutter):]
		out = append(out, strings.TrimPrefix(rest, " "))
	}
	if inBlock {
		out = append(out, rule)
	}
	return strings.Join(out, "\n")
}

func renderMarkdownCmd(id, content string, width int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] rendered message %s (%d chars) in %v", id, len(content), time.Since(start))
		}
		return markdownRenderedMsg{MessageID: id, Width: width, Rendered: rendered}
	}
}
