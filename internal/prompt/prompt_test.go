package prompt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temirov/ask/internal/prompt"
)

func TestAssemble(t *testing.T) {
	testCases := []struct {
		name       string
		sections   prompt.Sections
		userPrompt string
		expected   string
	}{
		{
			name:       "no_context_returns_prompt_unchanged",
			userPrompt: "  explain **this**\n",
			expected:   "  explain **this**\n",
		},
		{
			name:       "file_system_only",
			sections:   prompt.Sections{IncludeFileSystem: true, FileSystem: "a/\nb.txt\n"},
			userPrompt: "q",
			expected:   "file system:\na/\nb.txt\n\nq",
		},
		{
			name:       "files_only",
			sections:   prompt.Sections{IncludeFiles: true, Files: "./x:\n1\n"},
			userPrompt: "q",
			expected:   "files:\n./x:\n1\n\nq",
		},
		{
			name: "file_system_precedes_files",
			sections: prompt.Sections{
				IncludeFileSystem: true,
				FileSystem:        "tree\n",
				IncludeFiles:      true,
				Files:             "blob\n",
			},
			userPrompt: "q",
			expected:   "file system:\ntree\n\nfiles:\nblob\n\nq",
		},
		{
			name:       "empty_section_keeps_header",
			sections:   prompt.Sections{IncludeFiles: true},
			userPrompt: "q",
			expected:   "files:\n\nq",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, prompt.Assemble(testCase.sections, testCase.userPrompt))
		})
	}
}

func TestResolveUserPrompt(t *testing.T) {
	explicit, ok := prompt.ResolveUserPrompt("explicit", []string{"ignored"})
	assert.True(t, ok)
	assert.Equal(t, "explicit", explicit)

	joined, ok := prompt.ResolveUserPrompt("", []string{"what", "is", "this"})
	assert.True(t, ok)
	assert.Equal(t, "what is this", joined)

	_, ok = prompt.ResolveUserPrompt("", nil)
	assert.False(t, ok)
}
