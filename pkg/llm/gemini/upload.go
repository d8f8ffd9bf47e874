package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"resume-roaster-be/pkg/llm"
)

const (
	fileStateProcessing = "PROCESSING"
	fileStateActive     = "ACTIVE"
	fileStateFailed     = "FAILED"
)

type remoteFile struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	MimeType    string `json:"mimeType"`
	URI         string `json:"uri"`
	State       string `json:"state"`
}

type uploadResponse struct {
	File remoteFile `json:"file"`
}

// UploadFile pushes a local file through the Files API resumable protocol
// (start, then upload+finalize) and waits until the file is usable in prompts.
func (p *Provider) UploadFile(ctx context.Context, path, mimeType, displayName string) (*llm.FileReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}

	uploadURL, err := p.startUpload(ctx, len(data), mimeType, displayName)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("X-Goog-Upload-Offset", "0")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	resBody, err := p.do(req)
	if err != nil {
		return nil, err
	}

	var uploaded uploadResponse
	if err := json.Unmarshal(resBody, &uploaded); err != nil {
		return nil, fmt.Errorf("unmarshal upload response: %w", err)
	}

	file, err := p.waitActive(ctx, uploaded.File)
	if err != nil {
		return nil, err
	}

	ref := &llm.FileReference{
		Name:        file.Name,
		URI:         file.URI,
		MimeType:    file.MimeType,
		DisplayName: file.DisplayName,
	}
	if ref.MimeType == "" {
		ref.MimeType = mimeType
	}
	if ref.DisplayName == "" {
		ref.DisplayName = displayName
	}
	return ref, nil
}

func (p *Provider) startUpload(ctx context.Context, size int, mimeType, displayName string) (string, error) {
	meta, err := json.Marshal(map[string]any{
		"file": map[string]string{"display_name": displayName},
	})
	if err != nil {
		return "", fmt.Errorf("marshal upload metadata: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/upload/v1beta/files", bytes.NewReader(meta))
	if err != nil {
		return "", fmt.Errorf("create upload start request: %w", err)
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.Itoa(size))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)

	res, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini upload start failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		var body bytes.Buffer
		_, _ = body.ReadFrom(res.Body)
		return "", decodeError(res.StatusCode, body.Bytes())
	}

	uploadURL := res.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return "", fmt.Errorf("gemini upload start returned no upload url")
	}
	return uploadURL, nil
}

func (p *Provider) waitActive(ctx context.Context, file remoteFile) (remoteFile, error) {
	for i := 0; file.State == fileStateProcessing && i < p.MaxPolls; i++ {
		select {
		case <-ctx.Done():
			return file, ctx.Err()
		case <-time.After(p.PollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/v1beta/%s", p.BaseURL, file.Name), nil)
		if err != nil {
			return file, fmt.Errorf("create file state request: %w", err)
		}
		req.Header.Set("x-goog-api-key", p.ApiKey)

		resBody, err := p.do(req)
		if err != nil {
			return file, err
		}
		if err := json.Unmarshal(resBody, &file); err != nil {
			return file, fmt.Errorf("unmarshal file state: %w", err)
		}
	}

	switch file.State {
	case fileStateFailed:
		return file, fmt.Errorf("gemini could not process uploaded file %s", file.Name)
	case fileStateProcessing:
		return file, fmt.Errorf("uploaded file %s is still processing", file.Name)
	}
	return file, nil
}
