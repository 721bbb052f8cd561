// Package output renders model responses to the console or writes them to a file.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ask/internal/services/clipboard"
	"github.com/temirov/ask/internal/services/llm"
	"github.com/temirov/ask/internal/utils"
)

const (
	escapedNewline    = `\n`
	boldMarker        = "**"
	outputFileMode    = 0o644
	outputSavedFormat = "Output saved to %s\n"
	emptyResponseText = "No response from AI."
	failureTextFormat = "Error: %v"

	errorSaveFileFormat  = "Error saving to file %s"
	errorWriteFileFormat = "write %s: %w"
	errorResponseMessage = "model request failed"

	warningCopyMessage   = "Warning: failed to copy response to clipboard"
	warningRenderMessage = "Warning: markdown rendering failed, printing plain text"
)

// MarkdownRenderer turns markdown text into terminal output.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// Sink emits prompts and responses. A nil Markdown renderer prints lightly
// reformatted plain text; a nil Copier disables clipboard copies.
type Sink struct {
	Stdout   io.Writer
	Logger   *zap.Logger
	Markdown MarkdownRenderer
	Copier   clipboard.Copier
}

// EmitPrompt prints the assembled prompt verbatim.
func (sink *Sink) EmitPrompt(prompt string) {
	fmt.Fprintln(sink.stdout(), prompt)
}

// EmitResponse prints a successful response, or writes it verbatim to outputPath when set.
// Failures are printed as an error line and never written to outputPath.
func (sink *Sink) EmitResponse(response llm.Response, outputPath string) {
	logger := utils.LoggerOrNop(sink.Logger)
	if !response.Succeeded() {
		logger.Error(errorResponseMessage, zap.String("reason", string(response.Failure.Reason)), zap.Error(response.Failure.Err))
		fmt.Fprintln(sink.stdout(), FailureText(response.Failure))
		return
	}

	if outputPath != "" {
		if writeError := WriteResponseFile(outputPath, response.Text); writeError != nil {
			logger.Error(fmt.Sprintf(errorSaveFileFormat, outputPath), zap.Error(writeError))
		} else {
			fmt.Fprintf(sink.stdout(), outputSavedFormat, outputPath)
		}
	} else {
		fmt.Fprintln(sink.stdout(), sink.consoleText(response.Text))
	}

	if sink.Copier != nil {
		if copyError := sink.Copier.Copy(response.Text); copyError != nil {
			logger.Warn(warningCopyMessage, zap.Error(copyError))
		}
	}
}

func (sink *Sink) consoleText(text string) string {
	if sink.Markdown == nil {
		return FormatConsoleText(text)
	}
	rendered, renderError := sink.Markdown.Render(strings.ReplaceAll(text, escapedNewline, "\n"))
	if renderError != nil {
		utils.LoggerOrNop(sink.Logger).Warn(warningRenderMessage, zap.Error(renderError))
		return FormatConsoleText(text)
	}
	return rendered
}

func (sink *Sink) stdout() io.Writer {
	if sink.Stdout == nil {
		return os.Stdout
	}
	return sink.Stdout
}

// FormatConsoleText unescapes literal "\n" sequences and removes markdown bold markers.
func FormatConsoleText(text string) string {
	return strings.ReplaceAll(strings.ReplaceAll(text, escapedNewline, "\n"), boldMarker, "")
}

// FailureText renders a failed generation for the console.
func FailureText(failure *llm.Failure) string {
	if failure == nil {
		return ""
	}
	if failure.Reason == llm.FailureReasonEmpty || errors.Is(failure.Err, llm.ErrEmptyResponse) {
		return emptyResponseText
	}
	if failure.Err == nil {
		return fmt.Sprintf(failureTextFormat, failure.Reason)
	}
	return fmt.Sprintf(failureTextFormat, failure.Err)
}

// WriteResponseFile writes content to filePath, replacing any existing file.
func WriteResponseFile(filePath string, content string) error {
	if writeError := os.WriteFile(filePath, []byte(content), outputFileMode); writeError != nil {
		return fmt.Errorf(errorWriteFileFormat, filePath, writeError)
	}
	return nil
}
