package studyapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is where the backend listens in a local setup.
	DefaultBaseURL = "http://localhost:8080"

	requestIDHeader  = "X-Request-ID"
	maxResponseBytes = 8 << 20
)

const (
	pathUpload   = "/api/documents/upload"
	pathDocument = "/api/documents"
	pathGenerate = "/api/study/generate"
	pathContent  = "/api/study/content"
	pathHealth   = "/api/health"
)

type operation struct {
	name     string
	fallback string
}

var (
	opUpload   = operation{name: "upload", fallback: "Upload failed"}
	opGenerate = operation{name: "generate", fallback: "Generation failed"}
	opDocument = operation{name: "get document", fallback: "Failed to get document"}
	opContent  = operation{name: "get content", fallback: "Failed to get content"}
	opHealth   = operation{name: "health check", fallback: "Health check failed"}
)

// Config describes how to reach the backend.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	UserAgent  string
}

// Client talks to the study material backend. Every failure is logged before
// it is returned so callers only need to show the user-facing message.
type Client struct {
	baseURL   string
	http      *http.Client
	log       logrus.FieldLogger
	userAgent string
}

// New builds a Client. Without a custom HTTP client it uses one with a cookie
// jar so the backend session cookie survives between calls.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient = &http.Client{Jar: jar}
	}

	logger := cfg.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		log:       logger,
		userAgent: cfg.UserAgent,
	}, nil
}

// BaseURL reports the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UploadFile opens path and uploads it with UploadPDF.
func (c *Client) UploadFile(ctx context.Context, path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, c.fail(opUpload, "", 0, nil, err)
	}
	defer file.Close()
	return c.UploadPDF(ctx, filepath.Base(path), file)
}

// UploadPDF sends the document as the multipart field "file".
func (c *Client) UploadPDF(ctx context.Context, filename string, r io.Reader) (*Document, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, c.fail(opUpload, "", 0, nil, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, c.fail(opUpload, "", 0, nil, fmt.Errorf("read upload: %w", err))
	}
	if err := writer.Close(); err != nil {
		return nil, c.fail(opUpload, "", 0, nil, err)
	}

	var doc Document
	if err := c.call(ctx, opUpload, http.MethodPost, pathUpload, nil, writer.FormDataContentType(), &body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GenerateSummary requests a summary of pages pageStart..pageEnd.
func (c *Client) GenerateSummary(ctx context.Context, documentID DocumentID, pageStart, pageEnd int, academicLevel string) (*GenerationResult, error) {
	payload, err := json.Marshal(GenerationRequest{
		DocumentID:    documentID,
		PageStart:     pageStart,
		PageEnd:       pageEnd,
		MaterialType:  MaterialSummary,
		AcademicLevel: academicLevel,
	})
	if err != nil {
		return nil, c.fail(opGenerate, "", 0, nil, err)
	}

	var result GenerationResult
	if err := c.call(ctx, opGenerate, http.MethodPost, pathGenerate, nil, "application/json", bytes.NewReader(payload), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDocument fetches metadata for a previously uploaded document.
func (c *Client) GetDocument(ctx context.Context, documentID DocumentID) (*Document, error) {
	query := url.Values{"id": []string{documentID.String()}}
	var doc Document
	if err := c.call(ctx, opDocument, http.MethodGet, pathDocument, query, "", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetContent fetches previously generated material.
func (c *Client) GetContent(ctx context.Context, contentID int) (*Content, error) {
	query := url.Values{"id": []string{strconv.Itoa(contentID)}}
	var content Content
	if err := c.call(ctx, opContent, http.MethodGet, pathContent, query, "", nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// HealthCheck returns the backend status, or nil when it cannot be read.
// Health is advisory, so failures are logged and swallowed.
func (c *Client) HealthCheck(ctx context.Context) *Health {
	requestID := uuid.NewString()
	_, env, err := c.send(ctx, http.MethodGet, pathHealth, nil, "", nil, requestID)
	if err != nil {
		c.fail(opHealth, requestID, 0, nil, err)
		return nil
	}
	if isNull(env.Data) {
		c.fail(opHealth, requestID, 0, nil, ErrNoData)
		return nil
	}
	var health Health
	if err := json.Unmarshal(env.Data, &health); err != nil {
		c.fail(opHealth, requestID, 0, nil, fmt.Errorf("decode health: %w", err))
		return nil
	}
	return &health
}

func (c *Client) call(ctx context.Context, op operation, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	requestID := uuid.NewString()
	status, env, err := c.send(ctx, method, path, query, contentType, body, requestID)
	if err != nil {
		return c.fail(op, requestID, status, nil, err)
	}
	if status < 200 || status >= 300 || !env.Success {
		return c.fail(op, requestID, status, env.Error, nil)
	}
	if out == nil {
		return nil
	}
	if isNull(env.Data) {
		return c.fail(op, requestID, status, nil, ErrNoData)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return c.fail(op, requestID, status, nil, fmt.Errorf("decode %s data: %w", op.name, err))
	}
	c.log.WithFields(logrus.Fields{"op": op.name, "status": status, "request_id": requestID}).Debug("request succeeded")
	return nil
}

// send performs the request and decodes the response envelope. The returned
// status is zero when no response was received.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, requestID string) (int, envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, envelope{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, envelope{}, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&env); err != nil {
		return resp.StatusCode, envelope{}, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, env, nil
}

func (c *Client) fail(op operation, requestID string, status int, body *errorBody, cause error) *RequestError {
	rerr := &RequestError{Op: op.name, Status: status, Message: op.fallback, Err: cause}
	if body != nil {
		rerr.Code = body.Code
		if body.Message != "" {
			rerr.Message = body.Message
		}
	}

	entry := c.log.WithField("op", op.name)
	if requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	if status != 0 {
		entry = entry.WithField("status", status)
	}
	if rerr.Code != "" {
		entry = entry.WithField("code", rerr.Code)
	}
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Errorf("%s error: %s", op.name, rerr.Message)
	return rerr
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
