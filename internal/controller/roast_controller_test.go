package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resume-roaster-be/internal/dto"
	"resume-roaster-be/internal/entity"
	"resume-roaster-be/internal/pkg/serverutils"
	"resume-roaster-be/internal/repository/memory"
	"resume-roaster-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("controller-test-secret")

type stubRoastService struct {
	ingestedName string
	ingestedData []byte
	viewPaid     []bool
	sessions     map[string]bool
}

func (s *stubRoastService) Ingest(_ context.Context, session *entity.Session, fileName string, data []byte) (*dto.IngestResponse, error) {
	s.ingestedName = fileName
	s.ingestedData = data
	s.track(session)
	return &dto.IngestResponse{SessionId: session.Id.String(), FileName: fileName}, nil
}

func (s *stubRoastService) Critique(_ context.Context, session *entity.Session) (*dto.CritiqueResponse, error) {
	s.track(session)
	return nil, service.ErrNoContent
}

func (s *stubRoastService) ResetCritique(session *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{SessionId: session.Id.String()}
}

func (s *stubRoastService) Describe(session *entity.Session) *dto.SessionResponse {
	s.track(session)
	return &dto.SessionResponse{SessionId: session.Id.String(), State: string(session.State())}
}

func (s *stubRoastService) View(_ context.Context, session *entity.Session, paidParam bool) (*dto.ViewResponse, error) {
	s.viewPaid = append(s.viewPaid, paidParam)
	return &dto.ViewResponse{State: string(session.State()), Paid: paidParam}, nil
}

func (s *stubRoastService) Download(_ context.Context, _ *entity.Session, kind entity.ArtifactKind, paidParam bool) (*dto.DownloadFile, error) {
	if !paidParam {
		return nil, service.ErrPremiumLocked
	}
	name, ok := kind.DownloadName()
	if !ok {
		return nil, service.ErrUnknownArtifact
	}
	return &dto.DownloadFile{FileName: name, ContentType: "text/plain; charset=utf-8", Body: []byte("rewritten")}, nil
}

func (s *stubRoastService) track(session *entity.Session) {
	if s.sessions == nil {
		s.sessions = map[string]bool{}
	}
	s.sessions[session.Id.String()] = true
}

func newRoastApp(stub *stubRoastService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())

	repo := memory.NewSessionRepository(time.Hour)
	NewRoastController(stub).RegisterRoutes(app.Group("/api"), serverutils.SessionMiddleware(repo, testSecret, time.Hour))
	return app
}

func multipartUpload(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/roast/v1/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestUploadPassesFileToService(t *testing.T) {
	stub := &stubRoastService{}
	app := newRoastApp(stub)

	resp, err := app.Test(multipartUpload(t, "resume", "jane.pdf", []byte("%PDF-1.4 body")))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane.pdf", stub.ingestedName)
	assert.Equal(t, []byte("%PDF-1.4 body"), stub.ingestedData)
	assert.NotEmpty(t, resp.Header.Get("Set-Cookie"))
}

func TestUploadRequiresResumeField(t *testing.T) {
	app := newRoastApp(&stubRoastService{})

	resp, err := app.Test(multipartUpload(t, "document", "jane.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body["message"], "resume")
}

func TestServiceErrorsUseEnvelope(t *testing.T) {
	app := newRoastApp(&stubRoastService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/roast/v1/critique", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "upload a resume first", body["message"])
}

func TestViewReadsPaidFlagStrictly(t *testing.T) {
	stub := &stubRoastService{}
	app := newRoastApp(stub)

	for _, target := range []string{"/api/roast/v1/view", "/api/roast/v1/view?paid=1", "/api/roast/v1/view?paid=true"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, []bool{false, false, true}, stub.viewPaid)
}

func TestDownloadSetsAttachmentHeaders(t *testing.T) {
	app := newRoastApp(&stubRoastService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/roast/v1/download/rewrite?paid=true", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "optimized_resume.txt")
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/roast/v1/download/rewrite", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusPaymentRequired, resp.StatusCode)
}

func TestSessionCookieIsReused(t *testing.T) {
	stub := &stubRoastService{}
	app := newRoastApp(stub)

	first, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/roast/v1/session", nil))
	require.NoError(t, err)
	cookies := first.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, serverutils.SessionCookieName, cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/roast/v1/session", nil)
	req.AddCookie(cookies[0])
	second, err := app.Test(req)
	require.NoError(t, err)

	assert.Empty(t, second.Header.Get("Set-Cookie"))
	assert.Len(t, stub.sessions, 1)
}
