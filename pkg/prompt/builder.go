package prompt

import (
	"fmt"
	"strings"

	"resume-roaster-be/internal/constant"
	"resume-roaster-be/pkg/llm"
)

// Content is what gets substituted into a template: resume text or an uploaded file.
type Content struct {
	Text string
	File *llm.FileReference
}

// Build fills the template for kind and returns the finalized generation request.
// Text content is inlined; file content is replaced by a fixed phrase and the
// file itself is sent first, ahead of the instruction text.
func Build(kind string, c Content) (llm.Request, error) {
	tmpl, ok := constant.PromptTemplates[kind]
	if !ok {
		return llm.Request{}, fmt.Errorf("unknown prompt kind %q", kind)
	}

	if c.File != nil {
		text := strings.Replace(tmpl.Body, constant.ResumePlaceholder, constant.AttachedFilePhrase, 1)
		return llm.Request{
			SystemInstruction: tmpl.Persona,
			Parts:             []llm.Part{llm.FilePart(c.File), llm.TextPart(text)},
		}, nil
	}

	text := strings.Replace(tmpl.Body, constant.ResumePlaceholder, c.Text, 1)
	return llm.Request{
		SystemInstruction: tmpl.Persona,
		Parts:             []llm.Part{llm.TextPart(text)},
	}, nil
}
