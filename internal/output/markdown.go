package output

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

const defaultWordWrap = 100

// NewMarkdownRenderer returns a glamour renderer that adapts to the terminal background.
func NewMarkdownRenderer() (MarkdownRenderer, error) {
	return newMarkdownRenderer(glamour.WithAutoStyle())
}

func newMarkdownRenderer(style glamour.TermRendererOption) (MarkdownRenderer, error) {
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(defaultWordWrap))
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return renderer, nil
}
