package prompt

import (
	"testing"

	"resume-roaster-be/internal/constant"
	"resume-roaster-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTextContent(t *testing.T) {
	kinds := []string{constant.PromptKindCritique, constant.PromptKindRewrite, constant.PromptKindLetter}

	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			req, err := Build(kind, Content{Text: "Jane Doe - Senior Synergy Architect"})
			require.NoError(t, err)

			assert.Equal(t, constant.PromptTemplates[kind].Persona, req.SystemInstruction)
			require.Len(t, req.Parts, 1)
			assert.Nil(t, req.Parts[0].File)
			assert.Contains(t, req.Parts[0].Text, "Jane Doe - Senior Synergy Architect")
			assert.NotContains(t, req.Parts[0].Text, constant.ResumePlaceholder)
			assert.False(t, req.HasFile())
		})
	}
}

func TestBuildFileContent(t *testing.T) {
	ref := &llm.FileReference{Name: "files/1", URI: "https://g/files/1", MimeType: "application/pdf", DisplayName: "scan.pdf"}

	req, err := Build(constant.PromptKindCritique, Content{File: ref})
	require.NoError(t, err)

	require.Len(t, req.Parts, 2)
	assert.Same(t, ref, req.Parts[0].File)
	assert.Contains(t, req.Parts[1].Text, constant.AttachedFilePhrase)
	assert.NotContains(t, req.Parts[1].Text, constant.ResumePlaceholder)
	assert.True(t, req.HasFile())
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build("haiku", Content{Text: "x"})
	assert.Error(t, err)
}
