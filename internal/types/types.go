// Package types defines every cross‑package data structure used by the ask CLI.
package types

import "fmt"

const (
	// DefaultMaxFileSizeBytes is the per-file ceiling applied when collecting file contents.
	DefaultMaxFileSizeBytes int64 = 3 * 1024 * 1024

	// DefaultFilesDepth is used when -f is given without a value.
	DefaultFilesDepth = 1
	// DefaultFileSystemDepth is used when -fs is given without a value.
	DefaultFileSystemDepth = 3

	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// SkipReason classifies why a filesystem entry contributed nothing to the context.
type SkipReason string

const (
	SkipReasonUnreadableDirectory SkipReason = "unreadable_directory"
	SkipReasonUnreadableFile      SkipReason = "unreadable_file"
	SkipReasonInvalidEncoding     SkipReason = "invalid_encoding"
	SkipReasonOversized           SkipReason = "oversized"
	SkipReasonSymlinkCycle        SkipReason = "symlink_cycle"
)

// SkippedEntry records one entry dropped during traversal.
type SkippedEntry struct {
	Path   string
	Reason SkipReason
	Err    error
}

func (entry SkippedEntry) String() string {
	if entry.Err == nil {
		return fmt.Sprintf("%s (%s)", entry.Path, entry.Reason)
	}
	return fmt.Sprintf("%s (%s): %v", entry.Path, entry.Reason, entry.Err)
}

// TreeResult is the outcome of a directory listing.
type TreeResult struct {
	Listing string
	Skipped []SkippedEntry
}

// ContentResult is the outcome of a file content collection pass.
type ContentResult struct {
	Content string
	Skipped []SkippedEntry
}
