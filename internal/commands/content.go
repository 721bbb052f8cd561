package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/ask/internal/types"
	"github.com/temirov/ask/internal/utils"
)

const (
	// warningFileReadMessage is logged when a file cannot be read or decoded.
	warningFileReadMessage = "Warning: skipping file"
	// debugOversizedFileMessage is logged when a file exceeds the size ceiling.
	debugOversizedFileMessage = "skipping oversized file"

	// errorReadFileFormat is used when file content cannot be read.
	errorReadFileFormat = "reading file %s: %w"

	contentRecordFormat = "%s:\n%s\n"
)

// ErrInvalidEncoding reports file content that is not valid UTF-8 text.
var ErrInvalidEncoding = errors.New("content is not valid UTF-8")

// ContentExtractor concatenates file contents found under a directory.
// Files in the starting directory are at depth 0, so a DepthLimit of 1 reads
// only the starting directory and a DepthLimit of 0 or less reads nothing.
type ContentExtractor struct {
	DepthLimit       int
	MaxFileSizeBytes int64
	Logger           *zap.Logger
}

// NewContentExtractor returns an extractor using the default file size ceiling.
func NewContentExtractor(depthLimit int, logger *zap.Logger) *ContentExtractor {
	return &ContentExtractor{
		DepthLimit:       depthLimit,
		MaxFileSizeBytes: types.DefaultMaxFileSizeBytes,
		Logger:           logger,
	}
}

// Extract returns one "<path>:\n<content>\n" record per readable file under
// rootPath, in traversal order, together with the entries that were skipped.
func (extractor *ContentExtractor) Extract(rootPath string) types.ContentResult {
	if rootPath == "" {
		rootPath = "."
	}
	var builder strings.Builder
	var skipped []types.SkippedEntry
	extractor.collect(rootPath, 0, &builder, &skipped)
	return types.ContentResult{Content: builder.String(), Skipped: skipped}
}

func (extractor *ContentExtractor) collect(directoryPath string, depth int, builder *strings.Builder, skipped *[]types.SkippedEntry) {
	if depth >= extractor.DepthLimit {
		return
	}
	logger := utils.LoggerOrNop(extractor.Logger)

	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		wrappedError := fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
		logger.Warn(warningListDirectoryMessage, zap.String("path", directoryPath), zap.Error(wrappedError))
		*skipped = append(*skipped, types.SkippedEntry{Path: directoryPath, Reason: types.SkipReasonUnreadableDirectory, Err: wrappedError})
		return
	}

	for _, directoryEntry := range directoryEntries {
		entryPath := joinEntryPath(directoryPath, directoryEntry.Name())
		entryInfo, infoError := os.Stat(entryPath)
		if infoError != nil {
			// dangling symlinks and entries removed mid-walk are neither files nor directories
			continue
		}
		if entryInfo.IsDir() {
			extractor.collect(entryPath, depth+1, builder, skipped)
			continue
		}
		if !entryInfo.Mode().IsRegular() {
			continue
		}
		if entryInfo.Size() > extractor.maxFileSize() {
			logger.Debug(debugOversizedFileMessage, zap.String("path", entryPath), zap.String("size", utils.FormatFileSize(entryInfo.Size())))
			*skipped = append(*skipped, types.SkippedEntry{Path: entryPath, Reason: types.SkipReasonOversized})
			continue
		}

		fileText, skipReason, readError := readTextFile(entryPath)
		if readError != nil {
			logger.Warn(warningFileReadMessage, zap.String("path", entryPath), zap.Error(readError))
			*skipped = append(*skipped, types.SkippedEntry{Path: entryPath, Reason: skipReason, Err: readError})
			continue
		}
		fmt.Fprintf(builder, contentRecordFormat, entryPath, fileText)
	}
}

func (extractor *ContentExtractor) maxFileSize() int64 {
	if extractor.MaxFileSizeBytes <= 0 {
		return types.DefaultMaxFileSizeBytes
	}
	return extractor.MaxFileSizeBytes
}

// readTextFile reads filePath as UTF-8 text with line endings normalized to "\n".
//
// #nosec G304
func readTextFile(filePath string) (string, types.SkipReason, error) {
	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		return "", types.SkipReasonUnreadableFile, fmt.Errorf(errorReadFileFormat, filePath, readError)
	}
	if !utf8.Valid(fileBytes) {
		return "", types.SkipReasonInvalidEncoding, fmt.Errorf(errorReadFileFormat, filePath, ErrInvalidEncoding)
	}
	return normalizeLineEndings(string(fileBytes)), "", nil
}

func normalizeLineEndings(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
}
