package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownKeepsText(t *testing.T) {
	out := renderMarkdown("Your balance is **80 hours**. See [the policy](https://hr.example.com/pto).", 60)
	assert.Contains(t, out, "80")
	assert.Contains(t, out, "balance")
	assert.Contains(t, out, "https://hr.example.com/pto")
	assert.NotContains(t, out, "](")
}

func TestFrameCodeBlocks(t *testing.T) {
	in := strings.Join([]string{
		"before",
		"  " + codeGutter + " line one",
		"  " + codeGutter + " line two",
		"after",
	}, "\n")

	lines := strings.Split(frameCodeBlocks(in, 24), "\n")
	assert.Equal(t, []string{"before", "line one", "line two", "after"}, []string{lines[0], lines[2], lines[3], lines[5]})
	assert.Contains(t, lines[1], "━")
	assert.Contains(t, lines[4], "━")
	assert.Len(t, lines, 6)
}

func TestProgressBar(t *testing.T) {
	bar := progressBar(50, 10)
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))
}
