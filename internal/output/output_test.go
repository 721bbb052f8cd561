package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/ask/internal/services/llm"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) {
	return "", errors.New("render failed")
}

func TestFormatConsoleText(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "hello", expected: "hello"},
		{name: "escaped_newlines", input: `one\ntwo`, expected: "one\ntwo"},
		{name: "bold_markers", input: "**Title** and **more**", expected: "Title and more"},
		{name: "single_asterisk_kept", input: "* item", expected: "* item"},
		{name: "combined", input: `**a**\n**b**`, expected: "a\nb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, FormatConsoleText(testCase.input))
		})
	}
}

func TestSinkEmitResponseToConsole(t *testing.T) {
	var stdout bytes.Buffer
	copier := &recordingCopier{}
	sink := &Sink{Stdout: &stdout, Copier: copier}

	sink.EmitResponse(llm.Success(`**Answer**\nline`), "")

	assert.Equal(t, "Answer\nline\n", stdout.String())
	assert.Equal(t, []string{`**Answer**\nline`}, copier.copied)
}

func TestSinkEmitResponseToFile(t *testing.T) {
	var stdout bytes.Buffer
	outputPath := filepath.Join(t.TempDir(), "answer.md")
	require.NoError(t, os.WriteFile(outputPath, []byte("previous content that is longer"), 0o644))
	sink := &Sink{Stdout: &stdout}

	sink.EmitResponse(llm.Success(`**raw**\n`), outputPath)

	written, readError := os.ReadFile(outputPath)
	require.NoError(t, readError)
	assert.Equal(t, `**raw**\n`, string(written))
	assert.Equal(t, "Output saved to "+outputPath+"\n", stdout.String())
}

func TestSinkEmitResponseFileFailureIsNotFatal(t *testing.T) {
	var stdout bytes.Buffer
	outputPath := filepath.Join(t.TempDir(), "missing", "answer.md")
	sink := &Sink{Stdout: &stdout}

	sink.EmitResponse(llm.Success("text"), outputPath)

	assert.Empty(t, stdout.String())
	_, statError := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statError))
}

func TestSinkEmitResponseFailure(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		var stdout bytes.Buffer
		outputPath := filepath.Join(t.TempDir(), "answer.md")
		copier := &recordingCopier{}
		sink := &Sink{Stdout: &stdout, Copier: copier}

		sink.EmitResponse(llm.Failed(llm.FailureReasonTransport, errors.New("connection refused")), outputPath)

		assert.Equal(t, "Error: connection refused\n", stdout.String())
		assert.Empty(t, copier.copied)
		_, statError := os.Stat(outputPath)
		assert.True(t, os.IsNotExist(statError))
	})

	t.Run("empty", func(t *testing.T) {
		var stdout bytes.Buffer
		sink := &Sink{Stdout: &stdout}

		sink.EmitResponse(llm.Failed(llm.FailureReasonEmpty, llm.ErrEmptyResponse), "")

		assert.Equal(t, "No response from AI.\n", stdout.String())
	})
}

func TestSinkCopyFailureIsNotFatal(t *testing.T) {
	var stdout bytes.Buffer
	sink := &Sink{Stdout: &stdout, Copier: &recordingCopier{err: errors.New("no clipboard")}}

	sink.EmitResponse(llm.Success("text"), "")

	assert.Equal(t, "text\n", stdout.String())
}

func TestSinkMarkdownRendering(t *testing.T) {
	renderer, err := newMarkdownRenderer(glamour.WithStandardStyle("ascii"))
	require.NoError(t, err)
	var stdout bytes.Buffer
	sink := &Sink{Stdout: &stdout, Markdown: renderer}

	sink.EmitResponse(llm.Success("# Heading\n\nbody text"), "")

	assert.Contains(t, stdout.String(), "Heading")
	assert.Contains(t, stdout.String(), "body text")
}

func TestSinkMarkdownFallback(t *testing.T) {
	var stdout bytes.Buffer
	sink := &Sink{Stdout: &stdout, Markdown: failingRenderer{}}

	sink.EmitResponse(llm.Success("**bold**"), "")

	assert.Equal(t, "bold\n", stdout.String())
}

func TestSinkEmitPrompt(t *testing.T) {
	var stdout bytes.Buffer
	sink := &Sink{Stdout: &stdout}

	sink.EmitPrompt("files:\n\nquestion")

	assert.True(t, strings.HasPrefix(stdout.String(), "files:\n\nquestion"))
	assert.Equal(t, "files:\n\nquestion\n", stdout.String())
}
