// FILE: internal/entity/artifact_entity.go
package entity

import "resume-roaster-be/internal/constant"

type ArtifactKind string

const (
	ArtifactKindCritique ArtifactKind = constant.PromptKindCritique
	ArtifactKindRewrite  ArtifactKind = constant.PromptKindRewrite
	ArtifactKindLetter   ArtifactKind = constant.PromptKindLetter
)

// DownloadName is the attachment file name of an exportable artifact.
func (k ArtifactKind) DownloadName() (string, bool) {
	switch k {
	case ArtifactKindRewrite:
		return "optimized_resume.txt", true
	case ArtifactKindLetter:
		return "cover_letter.txt", true
	}
	return "", false
}
