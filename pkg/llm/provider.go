package llm

import (
	"context"
)

// FileReference is an opaque handle to a document uploaded to the model provider.
type FileReference struct {
	Name        string `json:"name"` // provider id, e.g. "files/abc123"
	URI         string `json:"uri"`
	MimeType    string `json:"mime_type"`
	DisplayName string `json:"display_name"`
}

// Part is one ordered input of a generation call: either text or a file.
type Part struct {
	Text string
	File *FileReference
}

func TextPart(text string) Part {
	return Part{Text: text}
}

func FilePart(ref *FileReference) Part {
	return Part{File: ref}
}

// Request is a single-turn generation call.
// Parts is [text] for plain prompts and [file, text] for multimodal prompts.
type Request struct {
	SystemInstruction string
	Parts             []Part
}

// HasFile reports whether the request carries an uploaded document.
func (r Request) HasFile() bool {
	for _, p := range r.Parts {
		if p.File != nil {
			return true
		}
	}
	return false
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// Generator defines the contract for any text generation backend.
type Generator interface {
	GenerateContent(ctx context.Context, req Request, options ...Option) (string, error)
}

// FileUploader stores a local file with the provider so it can be referenced in prompts.
type FileUploader interface {
	UploadFile(ctx context.Context, path, mimeType, displayName string) (*FileReference, error)
}
