// Package supabase provides a minimal client for the Supabase Storage REST
// API. The application never proxies file bytes itself: it issues signed
// upload URLs with the service-role key and clients PUT files directly to
// storage.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keepsakehq/keepsake-api/internal/config"
	"github.com/keepsakehq/keepsake-api/internal/platform/logger"
)

// SignedUpload is the result of a successful sign-upload request.
type SignedUpload struct {
	// UploadURL is the signed URL the client PUTs the file to.
	UploadURL string `json:"upload_url"`

	// PublicURL is the object's public URL. For private buckets it may not
	// be directly accessible.
	PublicURL string `json:"public_url"`

	// Path is the generated object name within the bucket.
	Path string `json:"path"`

	// ExpiresIn is the signed URL's validity window in seconds.
	ExpiresIn int `json:"expires_in"`
}

// Client talks to the Supabase Storage API.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	expiry     int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Supabase Storage client from the storage configuration.
// If httpClient is nil a client with a sane timeout is used.
func NewClient(cfg config.StorageConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.SupabaseURL, "/"),
		serviceKey: cfg.ServiceRoleKey,
		bucket:     cfg.Bucket,
		expiry:     cfg.SignedURLExpirySeconds,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "supabase_client")),
	}
}

// signResponse mirrors the storage API's sign response. Older API versions
// use signed_url, newer ones signedURL; both are accepted.
type signResponse struct {
	SignedURL    string `json:"signedURL"`
	SignedURLAlt string `json:"signed_url"`
}

// SignUpload requests a signed upload URL for a fresh object name derived
// from the original file name's extension. The object name is generated
// server-side so clients cannot collide with or overwrite each other's files.
func (c *Client) SignUpload(ctx context.Context, originalName string) (*SignedUpload, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	objectName := uuid.New().String()
	if ext := path.Ext(originalName); ext != "" {
		objectName += ext
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", c.baseURL, c.bucket, objectName)

	body, err := json.Marshal(map[string]any{
		"expires_in": c.expiry,
		"transform":  false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sign request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error("storage API rejected sign request",
			slog.Int("status", resp.StatusCode),
			slog.String("detail", string(detail)))
		return nil, fmt.Errorf("storage API returned status %d", resp.StatusCode)
	}

	var signed signResponse
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return nil, fmt.Errorf("failed to decode sign response: %w", err)
	}

	uploadURL := signed.SignedURL
	if uploadURL == "" {
		uploadURL = signed.SignedURLAlt
	}
	if uploadURL == "" {
		return nil, fmt.Errorf("storage API response missing signed URL")
	}
	// The API returns a path relative to /storage/v1.
	if strings.HasPrefix(uploadURL, "/") {
		uploadURL = c.baseURL + "/storage/v1" + uploadURL
	}

	return &SignedUpload{
		UploadURL: uploadURL,
		PublicURL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, objectName),
		Path:      objectName,
		ExpiresIn: c.expiry,
	}, nil
}
