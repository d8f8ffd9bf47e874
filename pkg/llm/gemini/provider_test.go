package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resume-roaster-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateContentPlainText(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Your resume "},{"text":"is a crime scene."}]}}]}`)
	}))
	defer srv.Close()

	p := NewProvider("test-key", srv.URL, "", time.Second)
	out, err := p.GenerateContent(context.Background(), llm.Request{
		SystemInstruction: "critic",
		Parts:             []llm.Part{llm.TextPart("roast this")},
	})

	require.NoError(t, err)
	assert.Equal(t, "Your resume is a crime scene.", out)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "critic", got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "roast this", got.Contents[0].Parts[0].Text)
	assert.Nil(t, got.GenerationConfig)
}

func TestGenerateContentSendsGenerationConfig(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`)
	}))
	defer srv.Close()

	p := NewProvider("k", srv.URL, "gemini-1.5-pro", time.Second)
	_, err := p.GenerateContent(context.Background(),
		llm.Request{Parts: []llm.Part{llm.TextPart("roast this")}},
		llm.WithTemperature(0.4),
		llm.WithMaxTokens(2048),
	)

	require.NoError(t, err)
	require.NotNil(t, got.GenerationConfig)
	require.NotNil(t, got.GenerationConfig.Temperature)
	assert.InDelta(t, 0.4, *got.GenerationConfig.Temperature, 1e-9)
	assert.Equal(t, 2048, got.GenerationConfig.MaxOutputTokens)
}

func TestGenerateContentSendsFileBeforeText(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"scanned roast"}]}}]}`)
	}))
	defer srv.Close()

	ref := &llm.FileReference{Name: "files/abc", URI: "https://files/abc", MimeType: "application/pdf"}
	p := NewProvider("k", srv.URL, "", time.Second)
	_, err := p.GenerateContent(context.Background(), llm.Request{
		Parts: []llm.Part{llm.FilePart(ref), llm.TextPart("see attached")},
	})

	require.NoError(t, err)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].FileData)
	assert.Equal(t, "https://files/abc", parts[0].FileData.FileURI)
	assert.Equal(t, "application/pdf", parts[0].FileData.MimeType)
	assert.Equal(t, "see attached", parts[1].Text)
}

func TestGenerateContentMapsRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	p := NewProvider("k", srv.URL, "", time.Second)
	_, err := p.GenerateContent(context.Background(), llm.Request{Parts: []llm.Part{llm.TextPart("x")}})

	require.Error(t, err)
	assert.True(t, llm.IsRateLimited(err))
	assert.Contains(t, err.Error(), "Resource has been exhausted")
}

func TestGenerateContentEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)
	}))
	defer srv.Close()

	p := NewProvider("k", srv.URL, "", time.Second)
	_, err := p.GenerateContent(context.Background(), llm.Request{Parts: []llm.Part{llm.TextPart("x")}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
	assert.False(t, llm.IsRateLimited(err))
}

func TestUploadFileResumable(t *testing.T) {
	var uploaded []byte
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/upload/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "start", r.Header.Get("X-Goog-Upload-Command"))
		assert.Equal(t, "application/pdf", r.Header.Get("X-Goog-Upload-Header-Content-Type"))
		assert.Equal(t, "9", r.Header.Get("X-Goog-Upload-Header-Content-Length"))
		w.Header().Set("X-Goog-Upload-URL", srv.URL+"/session/1")
	})
	mux.HandleFunc("/session/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "upload, finalize", r.Header.Get("X-Goog-Upload-Command"))
		uploaded, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"file":{"name":"files/xyz","displayName":"cv.pdf","mimeType":"application/pdf","uri":"https://g/files/xyz","state":"PROCESSING"}}`)
	})
	mux.HandleFunc("/v1beta/files/xyz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"files/xyz","displayName":"cv.pdf","mimeType":"application/pdf","uri":"https://g/files/xyz","state":"ACTIVE"}`)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-scan"), 0o600))

	p := NewProvider("k", srv.URL, "", time.Second)
	p.PollInterval = time.Millisecond

	ref, err := p.UploadFile(context.Background(), path, "application/pdf", "cv.pdf")

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-scan"), uploaded)
	assert.Equal(t, &llm.FileReference{
		Name:        "files/xyz",
		URI:         "https://g/files/xyz",
		MimeType:    "application/pdf",
		DisplayName: "cv.pdf",
	}, ref)
}

func TestUploadFileStartFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-"), 0o600))

	_, err := NewProvider("bad", srv.URL, "", time.Second).UploadFile(context.Background(), path, "application/pdf", "cv.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}
