// Package commands contains the filesystem traversals that gather prompt context.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/ask/internal/types"
	"github.com/temirov/ask/internal/utils"
)

const (
	// warningListDirectoryMessage is logged when a directory cannot be listed.
	warningListDirectoryMessage = "Warning: skipping directory"
	// warningSymlinkCycleMessage is logged when a directory links back to one of its ancestors.
	warningSymlinkCycleMessage = "Warning: not expanding directory that links to an ancestor"

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"

	treeIndentation      = "\t"
	directoryNameSuffix  = "/"
	treeLineTerminator   = "\n"
	pathSegmentSeparator = string(os.PathSeparator)
)

// TreeWalker lists a directory hierarchy as tab-indented lines.
// Directories at level MaxDepth or deeper are not listed unless Unbounded is set.
// Symbolic links to directories are followed; an unbounded walk does not expand
// a link that resolves to one of its ancestors.
type TreeWalker struct {
	MaxDepth  int
	Unbounded bool
	Logger    *zap.Logger
}

// treeWorkItem is either a line waiting to be written or a directory waiting to be listed.
type treeWorkItem struct {
	line      string
	directory string
	level     int
	ancestors []string
}

func (item treeWorkItem) isLine() bool {
	return item.directory == ""
}

// Walk lists rootDirectoryPath. Subdirectories come before files at every level,
// each group sorted by name, and every directory is followed by its own listing.
func (walker *TreeWalker) Walk(rootDirectoryPath string) types.TreeResult {
	logger := utils.LoggerOrNop(walker.Logger)
	if rootDirectoryPath == "" {
		rootDirectoryPath = "."
	}

	var builder strings.Builder
	var skipped []types.SkippedEntry

	rootItem := treeWorkItem{directory: rootDirectoryPath, level: 0}
	if walker.Unbounded {
		rootItem.ancestors = resolvedAncestors(nil, rootDirectoryPath)
	}
	workStack := []treeWorkItem{rootItem}
	for len(workStack) > 0 {
		item := workStack[len(workStack)-1]
		workStack = workStack[:len(workStack)-1]

		if item.isLine() {
			builder.WriteString(item.line)
			continue
		}
		if !walker.listsLevel(item.level) {
			continue
		}

		directoryNames, fileNames, listError := partitionDirectory(item.directory)
		if listError != nil {
			logger.Warn(warningListDirectoryMessage, zap.String("path", item.directory), zap.Error(listError))
			skipped = append(skipped, types.SkippedEntry{Path: item.directory, Reason: types.SkipReasonUnreadableDirectory, Err: listError})
			continue
		}

		indentation := strings.Repeat(treeIndentation, item.level)
		for fileIndex := len(fileNames) - 1; fileIndex >= 0; fileIndex-- {
			workStack = append(workStack, treeWorkItem{line: indentation + fileNames[fileIndex] + treeLineTerminator})
		}
		for directoryIndex := len(directoryNames) - 1; directoryIndex >= 0; directoryIndex-- {
			if walker.listsLevel(item.level + 1) {
				childPath := joinEntryPath(item.directory, directoryNames[directoryIndex])
				var childAncestors []string
				if walker.Unbounded {
					childAncestors = resolvedAncestors(item.ancestors, childPath)
				}
				if walker.Unbounded && childAncestors == nil {
					logger.Warn(warningSymlinkCycleMessage, zap.String("path", childPath))
					skipped = append(skipped, types.SkippedEntry{Path: childPath, Reason: types.SkipReasonSymlinkCycle})
				} else {
					workStack = append(workStack, treeWorkItem{directory: childPath, level: item.level + 1, ancestors: childAncestors})
				}
			}
			workStack = append(workStack, treeWorkItem{line: indentation + directoryNames[directoryIndex] + directoryNameSuffix + treeLineTerminator})
		}
	}

	return types.TreeResult{Listing: builder.String(), Skipped: skipped}
}

func (walker *TreeWalker) listsLevel(level int) bool {
	return walker.Unbounded || level < walker.MaxDepth
}

// partitionDirectory returns the sorted subdirectory names and sorted file names of directoryPath.
// Symbolic links are classified by their targets.
func partitionDirectory(directoryPath string) ([]string, []string, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readError)
	}
	var directoryNames []string
	var fileNames []string
	for _, directoryEntry := range directoryEntries {
		if entryIsDirectory(directoryPath, directoryEntry) {
			directoryNames = append(directoryNames, directoryEntry.Name())
		} else {
			fileNames = append(fileNames, directoryEntry.Name())
		}
	}
	sort.Strings(directoryNames)
	sort.Strings(fileNames)
	return directoryNames, fileNames, nil
}

func entryIsDirectory(parentPath string, directoryEntry os.DirEntry) bool {
	if directoryEntry.Type()&os.ModeSymlink == 0 {
		return directoryEntry.IsDir()
	}
	targetInfo, statError := os.Stat(joinEntryPath(parentPath, directoryEntry.Name()))
	return statError == nil && targetInfo.IsDir()
}

// resolvedAncestors appends the resolved location of directoryPath to ancestors.
// It returns nil when that location is already one of the ancestors.
func resolvedAncestors(ancestors []string, directoryPath string) []string {
	resolvedPath, resolveError := filepath.EvalSymlinks(directoryPath)
	if resolveError != nil {
		resolvedPath = filepath.Clean(directoryPath)
	}
	if absolutePath, absoluteError := filepath.Abs(resolvedPath); absoluteError == nil {
		resolvedPath = absolutePath
	}
	for _, ancestor := range ancestors {
		if ancestor == resolvedPath {
			return nil
		}
	}
	extended := make([]string, len(ancestors), len(ancestors)+1)
	copy(extended, ancestors)
	return append(extended, resolvedPath)
}

// joinEntryPath joins a traversal directory and an entry name with exactly one separator,
// keeping the directory spelling as given so "." yields "./name".
func joinEntryPath(directoryPath string, entryName string) string {
	if strings.HasSuffix(directoryPath, pathSegmentSeparator) {
		return directoryPath + entryName
	}
	return directoryPath + pathSegmentSeparator + entryName
}
