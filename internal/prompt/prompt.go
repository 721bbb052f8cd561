// Package prompt assembles the final text sent to the model.
package prompt

import "strings"

const (
	fileSystemHeader = "file system:\n"
	filesHeader      = "files:\n"
	sectionFooter    = "\n"
)

// Sections holds the optional context gathered from the filesystem.
// A section is emitted only when its Include flag is set, even if its text is empty.
type Sections struct {
	IncludeFileSystem bool
	FileSystem        string
	IncludeFiles      bool
	Files             string
}

// Assemble returns the file system section, then the files section, then userPrompt unchanged.
func Assemble(sections Sections, userPrompt string) string {
	var builder strings.Builder
	if sections.IncludeFileSystem {
		builder.WriteString(fileSystemHeader)
		builder.WriteString(sections.FileSystem)
		builder.WriteString(sectionFooter)
	}
	if sections.IncludeFiles {
		builder.WriteString(filesHeader)
		builder.WriteString(sections.Files)
		builder.WriteString(sectionFooter)
	}
	builder.WriteString(userPrompt)
	return builder.String()
}

// ResolveUserPrompt prefers the explicit prompt and otherwise joins positional words with spaces.
// The boolean result is false when neither source yields any text.
func ResolveUserPrompt(explicitPrompt string, positionalWords []string) (string, bool) {
	if explicitPrompt != "" {
		return explicitPrompt, true
	}
	joined := strings.Join(positionalWords, " ")
	return joined, joined != ""
}
