// FILE: internal/service/roast_service.go
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"resume-roaster-be/internal/constant"
	"resume-roaster-be/internal/dto"
	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/pkg/logger"
	"resume-roaster-be/internal/pkg/serverutils"
	"resume-roaster-be/pkg/llm"
	"resume-roaster-be/pkg/pdf"
	"resume-roaster-be/pkg/prompt"

	"github.com/gofiber/fiber/v2"
)

const (
	roastModule   = "ROAST"
	pdfMimeType   = "application/pdf"
	previewRunes  = 1000
	downloadRoute = "/api/roast/v1/download/"
)

var (
	ErrNoContent       = serverutils.NewAppError(fiber.StatusBadRequest, "upload a resume first", nil)
	ErrEmptyUpload     = serverutils.NewAppError(fiber.StatusBadRequest, "uploaded file is empty", nil)
	ErrNotPDF          = serverutils.NewAppError(fiber.StatusUnsupportedMediaType, "only PDF resumes are supported", nil)
	ErrPremiumLocked   = serverutils.NewAppError(fiber.StatusPaymentRequired, "premium content is locked until payment is confirmed", nil)
	ErrUnknownArtifact = serverutils.NewAppError(fiber.StatusNotFound, "unknown artifact", nil)
)

type IRoastService interface {
	Ingest(ctx context.Context, session *entity.Session, fileName string, data []byte) (*dto.IngestResponse, error)
	Critique(ctx context.Context, session *entity.Session) (*dto.CritiqueResponse, error)
	ResetCritique(session *entity.Session) *dto.SessionResponse
	Describe(session *entity.Session) *dto.SessionResponse
	View(ctx context.Context, session *entity.Session, paidParam bool) (*dto.ViewResponse, error)
	Download(ctx context.Context, session *entity.Session, kind entity.ArtifactKind, paidParam bool) (*dto.DownloadFile, error)
}

type roastService struct {
	generator      llm.Generator
	uploader       llm.FileUploader
	payments       IPaymentService
	logger         logger.ILogger
	tempDir        string
	maxUploadBytes int64
	extract        func(data []byte) (*pdf.ExtractionResult, error)
	genOptions     []llm.Option
}

func NewRoastService(
	generator llm.Generator,
	uploader llm.FileUploader,
	payments IPaymentService,
	log logger.ILogger,
	tempDir string,
	maxUploadBytes int64,
	genOptions ...llm.Option,
) IRoastService {
	return &roastService{
		generator:      generator,
		uploader:       uploader,
		payments:       payments,
		logger:         log,
		tempDir:        tempDir,
		maxUploadBytes: maxUploadBytes,
		extract:        pdf.Extract,
		genOptions:     genOptions,
	}
}

func (s *roastService) Ingest(ctx context.Context, session *entity.Session, fileName string, data []byte) (*dto.IngestResponse, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return nil, serverutils.NewAppError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("resume exceeds the %d MB limit", s.maxUploadBytes/(1024*1024)), nil)
	}
	if !pdf.ValidatePDF(data) {
		return nil, ErrNotPDF
	}

	session.Lock()
	defer session.Unlock()

	text := ""
	extracted, err := s.extract(data)
	if err != nil {
		s.logger.Warn(roastModule, "Text extraction failed, using file fallback", map[string]interface{}{
			"session_id": session.Id.String(),
			"file_name":  fileName,
			"error":      err.Error(),
		})
	} else {
		text = extracted.Text
	}

	if pdf.IsSufficient(text) {
		session.ReplaceContent(&entity.ResumeContent{Text: text, FileName: fileName}, entity.CorrelationID(text))
		s.logger.Info(roastModule, "Resume ingested as text", map[string]interface{}{
			"session_id":     session.Id.String(),
			"correlation_id": session.CorrelationId,
			"chars":          len(text),
		})
		return s.ingestResponse(session, preview(text), false), nil
	}

	ref, reused, err := s.remoteFile(ctx, session, fileName, data)
	if err != nil {
		session.ClearContent()
		s.logger.Error(roastModule, "Resume upload failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"file_name":  fileName,
			"error":      err,
		})
		return nil, serverutils.NewAppError(fiber.StatusBadGateway, fmt.Sprintf("failed to upload scanned resume: %v", err), err)
	}

	session.ReplaceContent(&entity.ResumeContent{File: ref, FileName: fileName}, entity.CorrelationID(fileName))
	s.logger.Info(roastModule, "Resume ingested as remote file", map[string]interface{}{
		"session_id":     session.Id.String(),
		"correlation_id": session.CorrelationId,
		"remote_file":    ref.Name,
		"reused":         reused,
	})
	return s.ingestResponse(session, "", reused), nil
}

// remoteFile returns the session's uploaded copy of this document, uploading it
// when the session holds none or holds a different document. Documents are matched
// on display name and content digest, so a new file reusing an old name is re-sent.
func (s *roastService) remoteFile(ctx context.Context, session *entity.Session, fileName string, data []byte) (*llm.FileReference, bool, error) {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	if session.RemoteFile != nil && session.RemoteFile.DisplayName == fileName && session.RemoteFileDigest == digest {
		return session.RemoteFile, true, nil
	}

	ref, err := s.uploadScoped(ctx, fileName, data)
	if err != nil {
		return nil, false, err
	}
	session.RemoteFile = ref
	session.RemoteFileDigest = digest
	return ref, false, nil
}

// uploadScoped stages data in a temp file for the uploader. The temp file is
// removed on every path; a failed removal is ignored.
func (s *roastService) uploadScoped(ctx context.Context, fileName string, data []byte) (*llm.FileReference, error) {
	tmp, err := os.CreateTemp(s.tempDir, "resume-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	return s.uploader.UploadFile(ctx, tmp.Name(), pdfMimeType, fileName)
}

func (s *roastService) Critique(ctx context.Context, session *entity.Session) (*dto.CritiqueResponse, error) {
	session.Lock()
	defer session.Unlock()

	if !session.HasContent() {
		return nil, ErrNoContent
	}

	critique, err := s.generate(ctx, session, entity.ArtifactKindCritique)
	if err != nil {
		return nil, err
	}
	session.Critique = &critique

	return &dto.CritiqueResponse{
		Critique: critique,
		State:    string(session.State()),
	}, nil
}

func (s *roastService) ResetCritique(session *entity.Session) *dto.SessionResponse {
	session.Lock()
	defer session.Unlock()

	session.Critique = nil
	return describe(session)
}

func (s *roastService) Describe(session *entity.Session) *dto.SessionResponse {
	session.Lock()
	defer session.Unlock()

	return describe(session)
}

// View runs one gated-delivery cycle. Premium artifacts are regenerated on every
// paid view; the latest pair is kept for downloads.
func (s *roastService) View(ctx context.Context, session *entity.Session, paidParam bool) (*dto.ViewResponse, error) {
	session.Lock()
	defer session.Unlock()

	res := &dto.ViewResponse{
		State:    string(session.State()),
		Critique: session.Critique,
	}
	if !session.HasContent() {
		return res, nil
	}

	res.Paid = s.payments.IsPaid(ctx, session.CorrelationId, session.OrderIds, paidParam)
	if !res.Paid {
		res.Paywall = s.paywall(session.CorrelationId)
		return res, nil
	}

	for _, kind := range []entity.ArtifactKind{entity.ArtifactKindRewrite, entity.ArtifactKindLetter} {
		artifact := dto.ArtifactResponse{Kind: string(kind), DownloadUrl: downloadRoute + string(kind) + "?paid=true"}

		text, err := s.generate(ctx, session, kind)
		if err != nil {
			artifact.Error = errorMessage(err)
			res.Premium = append(res.Premium, artifact)
			continue
		}

		artifact.Text = text
		storePremium(session, kind, text)
		res.Premium = append(res.Premium, artifact)
	}

	return res, nil
}

func (s *roastService) Download(ctx context.Context, session *entity.Session, kind entity.ArtifactKind, paidParam bool) (*dto.DownloadFile, error) {
	fileName, ok := kind.DownloadName()
	if !ok {
		return nil, ErrUnknownArtifact
	}

	session.Lock()
	defer session.Unlock()

	if !session.HasContent() {
		return nil, ErrNoContent
	}
	if !s.payments.IsPaid(ctx, session.CorrelationId, session.OrderIds, paidParam) {
		return nil, ErrPremiumLocked
	}

	text := lastPremium(session, kind)
	if text == nil {
		generated, err := s.generate(ctx, session, kind)
		if err != nil {
			return nil, err
		}
		storePremium(session, kind, generated)
		text = &generated
	}

	return &dto.DownloadFile{
		FileName:    fileName,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(*text),
	}, nil
}

func (s *roastService) generate(ctx context.Context, session *entity.Session, kind entity.ArtifactKind) (string, error) {
	req, err := prompt.Build(string(kind), prompt.Content{Text: session.Content.Text, File: session.Content.File})
	if err != nil {
		return "", err
	}

	out, err := s.generator.GenerateContent(ctx, req, s.genOptions...)
	if err != nil {
		s.logger.Error(roastModule, "Generation failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"kind":       string(kind),
			"error":      err,
		})
		if errors.Is(err, llm.ErrLimitExceeded) {
			return "", serverutils.NewAppError(fiber.StatusTooManyRequests, llm.ErrLimitExceeded.Error(), err)
		}
		return "", serverutils.NewAppError(fiber.StatusBadGateway, fmt.Sprintf("error calling Gemini: %v", err), err)
	}

	s.logger.Debug(roastModule, "Generated artifact", map[string]interface{}{
		"session_id": session.Id.String(),
		"kind":       string(kind),
		"multimodal": req.HasFile(),
		"chars":      len(out),
	})
	return out, nil
}

func (s *roastService) paywall(correlationId string) *dto.PaywallResponse {
	res := &dto.PaywallResponse{
		Headline: constant.PremiumHeadline,
		Preview:  constant.PremiumPreview,
	}

	paymentUrl := s.payments.PaymentURL(correlationId)
	if paymentUrl == "" {
		res.Warning = "Payment link not configured"
		return res
	}
	res.PaymentUrl = paymentUrl
	res.ButtonText = constant.PremiumButtonText
	res.Perks = constant.PremiumPerks
	return res
}

func (s *roastService) ingestResponse(session *entity.Session, preview string, reused bool) *dto.IngestResponse {
	return &dto.IngestResponse{
		SessionId:     session.Id.String(),
		CorrelationId: session.CorrelationId,
		Source:        string(session.Content.Source()),
		FileName:      session.Content.FileName,
		Preview:       preview,
		Reused:        reused,
		State:         string(session.State()),
	}
}

func describe(session *entity.Session) *dto.SessionResponse {
	res := &dto.SessionResponse{
		SessionId:     session.Id.String(),
		CorrelationId: session.CorrelationId,
		State:         string(session.State()),
	}
	if session.HasContent() {
		res.Source = string(session.Content.Source())
	}
	return res
}

func storePremium(session *entity.Session, kind entity.ArtifactKind, text string) {
	switch kind {
	case entity.ArtifactKindRewrite:
		session.LastRewrite = &text
	case entity.ArtifactKindLetter:
		session.LastLetter = &text
	}
}

func lastPremium(session *entity.Session, kind entity.ArtifactKind) *string {
	switch kind {
	case entity.ArtifactKindRewrite:
		return session.LastRewrite
	case entity.ArtifactKindLetter:
		return session.LastLetter
	}
	return nil
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

func errorMessage(err error) string {
	var appErr *serverutils.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
