package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wmbgolfco/engraving-backend/pkg/config"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/storage"
)

const (
	defaultAPIBase = "https://storage.googleapis.com"
	requestTimeout = 30 * time.Second
	pingTimeout    = 5 * time.Second
	errorReadLimit = 2048
)

var errNotInitialized = errors.New("gcs client not initialized")

// Client stores enquiry attachments and logo uploads in one GCS bucket
// through the JSON API.
type Client struct {
	httpClient    *http.Client
	defaultBucket string
	tokenSource   *tokenSource
	apiBase       string
	publicBase    string
}

var _ storage.Uploader = (*Client)(nil)

// NewClient resolves credentials and verifies the bucket can be listed.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, publicBaseURL string, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: requestTimeout}
	ts, err := tokenSourceFor(httpClient, gcp)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:    httpClient,
		defaultBucket: cfg.BucketName,
		tokenSource:   ts,
		apiBase:       defaultAPIBase,
		publicBase:    publicBaseURL,
	}
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}
	return client, nil
}

func (c *Client) Close() error {
	if c != nil && c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

// Ping lists at most one object, which needs the same grant as uploads.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errNotInitialized
	}
	if c.defaultBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, c.bucketURL("/o")+"?maxResults=1", "", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// Put uploads body as key with a simple media upload.
func (c *Client) Put(ctx context.Context, key, contentType string, body io.Reader) (storage.Object, error) {
	if c == nil || c.tokenSource == nil {
		return storage.Object{}, errNotInitialized
	}
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return storage.Object{}, errors.New("object key is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	u := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		c.base(), url.PathEscape(c.defaultBucket), url.QueryEscape(key))
	resp, err := c.do(ctx, http.MethodPost, u, contentType, body)
	if err != nil {
		return storage.Object{}, fmt.Errorf("upload %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return storage.Object{}, statusError("gcs upload failed", resp)
	}

	// the JSON API reports size as a decimal string
	var meta struct {
		Size string `json:"size"`
	}
	obj := storage.Object{Key: key, URL: c.ObjectURL(key), ContentType: contentType}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err == nil {
		obj.Size, _ = strconv.ParseInt(meta.Size, 10, 64)
	}
	return obj, nil
}

// Delete removes the object. Missing objects are not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.tokenSource == nil {
		return errNotInitialized
	}
	u := c.bucketURL("/o/" + url.PathEscape(strings.TrimLeft(key, "/")))
	resp, err := c.do(ctx, http.MethodDelete, u, "", nil)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return statusError("gcs delete failed", resp)
	}
}

// ObjectURL is the public URL of key.
func (c *Client) ObjectURL(key string) string {
	base := c.publicBase
	if base == "" {
		base = defaultAPIBase + "/" + c.defaultBucket
	}
	return storage.JoinURL(base, key)
}

func (c *Client) base() string {
	if c.apiBase == "" {
		return defaultAPIBase
	}
	return strings.TrimRight(c.apiBase, "/")
}

func (c *Client) bucketURL(suffix string) string {
	return c.base() + "/storage/v1/b/" + url.PathEscape(c.defaultBucket) + suffix
}

func (c *Client) do(ctx context.Context, method, u, contentType string, body io.Reader) (*http.Response, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpClient.Do(req)
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, errorReadLimit))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, msg)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
