// FILE: internal/entity/session_entity.go
package entity

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	"resume-roaster-be/pkg/llm"

	"github.com/google/uuid"
)

type SessionState string
type ContentSource string

const (
	SessionStateNoContent     SessionState = "no_content"
	SessionStateContentReady  SessionState = "content_ready"
	SessionStateCritiqueShown SessionState = "critique_shown"

	ContentSourceExtracted ContentSource = "extracted"
	ContentSourceScanned   ContentSource = "scanned" // extraction too thin, sent as a remote file
)

// ResumeContent is either extracted text or a handle to the uploaded original.
type ResumeContent struct {
	Text     string
	File     *llm.FileReference
	FileName string
}

func (c *ResumeContent) IsFileReference() bool {
	return c != nil && c.File != nil
}

func (c *ResumeContent) Source() ContentSource {
	if c.IsFileReference() {
		return ContentSourceScanned
	}
	return ContentSourceExtracted
}

// Session is the transient per-visitor pipeline state. Lock it for the
// duration of one action; a session runs one action at a time.
type Session struct {
	sync.Mutex

	Id            uuid.UUID
	CorrelationId string
	Content       *ResumeContent
	Critique      *string

	// Last uploaded remote file, reused when the same document is ingested again.
	RemoteFile       *llm.FileReference
	RemoteFileDigest string

	// Checkout orders opened from this session. Verified unlocks only
	// consult payments for these orders.
	OrderIds []string

	// Premium artifacts from the most recent paid view, served by downloads.
	LastRewrite *string
	LastLetter  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewSession() *Session {
	now := time.Now()
	return &Session{
		Id:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) HasContent() bool {
	return s.Content != nil && (s.Content.Text != "" || s.Content.File != nil)
}

func (s *Session) State() SessionState {
	switch {
	case !s.HasContent():
		return SessionStateNoContent
	case s.Critique != nil:
		return SessionStateCritiqueShown
	default:
		return SessionStateContentReady
	}
}

// ReplaceContent swaps in a newly ingested document and drops everything derived from the old one.
func (s *Session) ReplaceContent(content *ResumeContent, correlationId string) {
	s.Content = content
	s.CorrelationId = correlationId
	s.Critique = nil
	s.LastRewrite = nil
	s.LastLetter = nil
	s.UpdatedAt = time.Now()
}

// ClearContent leaves the session with nothing to act on, e.g. after a failed upload.
func (s *Session) ClearContent() {
	s.ReplaceContent(nil, "")
}

// CorrelationID derives the opaque payment correlation token.
// It is deterministic and short, not a security boundary.
func CorrelationID(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:12]
}
