// Package client talks to the taskboard HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/locvowork/taskboard/internal/domain"
)

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
	}
}

func (c *Client) ListBoard(ctx context.Context) ([]domain.CollectionWithTasks, error) {
	var board []domain.CollectionWithTasks
	if err := c.do(ctx, http.MethodGet, "/api/v1/collections", nil, &board); err != nil {
		return nil, err
	}
	if board == nil {
		board = []domain.CollectionWithTasks{}
	}
	return board, nil
}

func (c *Client) CreateCollection(ctx context.Context, in domain.CreateCollectionInput) (*domain.Collection, error) {
	var col domain.Collection
	if err := c.do(ctx, http.MethodPost, "/api/v1/collections", in, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Client) DeleteCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	var col domain.Collection
	if err := c.do(ctx, http.MethodDelete, "/api/v1/collections/"+strconv.FormatInt(id, 10), nil, &col); err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *Client) CreateTask(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) SetTaskDone(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPut, "/api/v1/tasks/"+strconv.FormatInt(id, 10)+"/done", nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) SearchTasks(ctx context.Context, query string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/search?q="+url.QueryEscape(query), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if env.Error != "" {
			msg = env.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
