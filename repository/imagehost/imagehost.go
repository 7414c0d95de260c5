// Package imagehost uploads book cover images to the external image host
// and hands back the served URL.
package imagehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Isayas7/book-rent-backend/util/httpx"
)

type Repo interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
}

type httpRepo struct {
	uploadURL string
	apiKey    string
	client    *http.Client
}

func NewHTTP(uploadURL, apiKey string) Repo {
	return &httpRepo{uploadURL: uploadURL, apiKey: apiKey, client: httpx.Client()}
}

func (r *httpRepo) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("folder", "books"); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.uploadURL, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("image upload failed: %s", resp.Status)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("imagehost: empty secure_url")
	}
	return out.SecureURL, nil
}
