// Package client é o cliente tipado da API de agenda, com cache de consultas.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultStaleTime é o tempo em que uma consulta GET é servida do cache.
const DefaultStaleTime = 30 * time.Second

// APIError representa o envelope de erro devolvido pela API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// IsUnauthorized indica sessão ausente ou expirada.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithStaleTime(d time.Duration) Option {
	return func(c *Client) { c.staleTime = d }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client fala com a API; é seguro para uso concorrente.
type Client struct {
	baseURL   string
	http      *http.Client
	staleTime time.Duration
	now       func() time.Time

	mu    sync.Mutex
	token string
	cache map[string]cacheEntry
}

type cacheEntry struct {
	data      json.RawMessage
	fetchedAt time.Time
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: 15 * time.Second},
		staleTime: DefaultStaleTime,
		now:       time.Now,
		cache:     make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// SetToken troca a sessão atual e descarta o cache.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Invalidate descarta entradas do cache cujo caminho começa com algum prefixo.
func (c *Client) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.cache {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(c.cache, key)
				break
			}
		}
	}
}

// ClearCache descarta todas as consultas em cache.
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// query executa GET com cache por caminho.
func (c *Client) query(ctx context.Context, path string, dst any) error {
	c.mu.Lock()
	entry, ok := c.cache[path]
	c.mu.Unlock()
	if ok && c.now().Sub(entry.fetchedAt) < c.staleTime {
		return decodeData(entry.data, dst)
	}

	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.cache[path] = cacheEntry{data: data, fetchedAt: c.now()}
	c.mu.Unlock()
	return decodeData(data, dst)
}

// mutate executa a escrita e invalida os prefixos afetados.
func (c *Client) mutate(ctx context.Context, method, path string, body, dst any, invalidate ...string) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	data, err := c.doRequest(ctx, method, path, reader, "application/json")
	if err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return decodeData(data, dst)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	return c.doRequest(ctx, method, path, body, "")
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (json.RawMessage, error) {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ler resposta: %w", err)
	}

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &APIError{Status: resp.StatusCode, Code: "INTERNAL", Message: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("resposta inválida: %w", err)
	}
	if env.Error != nil {
		return nil, &APIError{Status: resp.StatusCode, Code: env.Error.Code, Message: env.Error.Message}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{Status: resp.StatusCode, Code: "INTERNAL", Message: http.StatusText(resp.StatusCode)}
	}
	return env.Data, nil
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeData(data json.RawMessage, dst any) error {
	if dst == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func multipartFile(field, filename string, content io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
