// FILE: internal/dto/roast_dto.go
package dto

import (
	"resume-roaster-be/internal/constant"
)

type IngestResponse struct {
	SessionId     string `json:"session_id"`
	CorrelationId string `json:"correlation_id"`
	Source        string `json:"source"` // "extracted" | "scanned"
	FileName      string `json:"file_name"`
	Preview       string `json:"preview,omitempty"`
	Reused        bool   `json:"reused_remote_file,omitempty"`
	State         string `json:"state"`
}

type CritiqueResponse struct {
	Critique string `json:"critique"`
	State    string `json:"state"`
}

type SessionResponse struct {
	SessionId     string `json:"session_id"`
	CorrelationId string `json:"correlation_id,omitempty"`
	Source        string `json:"source,omitempty"`
	State         string `json:"state"`
}

type ArtifactResponse struct {
	Kind        string `json:"kind"`
	Text        string `json:"text,omitempty"`
	DownloadUrl string `json:"download_url"`
	Error       string `json:"error,omitempty"`
}

type PaywallResponse struct {
	Headline   string                    `json:"headline"`
	Preview    []constant.PreviewSection `json:"preview"`
	PaymentUrl string                    `json:"payment_url,omitempty"`
	ButtonText string                    `json:"button_text,omitempty"`
	Perks      []string                  `json:"perks,omitempty"`
	Warning    string                    `json:"warning,omitempty"`
}

// ViewResponse is the gated delivery of one interactive cycle.
// Exactly one of Premium and Paywall is set once content exists.
type ViewResponse struct {
	State    string             `json:"state"`
	Paid     bool               `json:"paid"`
	Critique *string            `json:"critique"`
	Premium  []ArtifactResponse `json:"premium,omitempty"`
	Paywall  *PaywallResponse   `json:"paywall,omitempty"`
}

type DownloadFile struct {
	FileName    string
	ContentType string
	Body        []byte
}
