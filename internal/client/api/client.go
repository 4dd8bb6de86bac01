// Package api is the HTTP client for the taskboard JSON API. Protected calls
// take the bearer token explicitly; public calls never send one.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/client/models"
	"github.com/dmitrijs2005/taskboard/internal/common"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient targets baseURL, e.g. "http://127.0.0.1:3000/api". A nil
// httpClient means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		msg := e.Error
		if msg == "" {
			msg = resp.Status
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (*models.Session, error) {
	var s models.Session
	err := c.do(ctx, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var s models.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var list []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", "", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProject(ctx context.Context, token, title, description string) (*models.Project, error) {
	var p models.Project
	err := c.do(ctx, http.MethodPost, "/projects", token, map[string]string{
		"title": title, "description": description,
	}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, token string, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", id), token, nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, projectID int64) ([]models.Task, error) {
	var list []models.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/tasks", projectID), "", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateTask(ctx context.Context, token string, projectID int64, title, description string) (*models.Task, error) {
	var t models.Task
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/tasks", projectID), token, map[string]string{
		"title": title, "description": description,
	}, &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, token string, projectID, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	var t models.Task
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID), token, patch, &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, token string, projectID, taskID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d/tasks/%d", projectID, taskID), token, nil, nil)
}

func (c *Client) SetAssignees(ctx context.Context, token string, projectID, taskID int64, userIDs []int64) (*models.Task, error) {
	if userIDs == nil {
		userIDs = []int64{}
	}
	var t models.Task
	path := fmt.Sprintf("/projects/%d/tasks/%d/assignees", projectID, taskID)
	if err := c.do(ctx, http.MethodPut, path, token, map[string][]int64{"userIds": userIDs}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ListComments(ctx context.Context, taskID int64) ([]models.Comment, error) {
	var list []models.Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/comments", taskID), "", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateComment(ctx context.Context, token string, taskID int64, content string) (*models.Comment, error) {
	var cm models.Comment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/comments", taskID), token, map[string]string{
		"content": content,
	}, &cm)
	if err != nil {
		return nil, err
	}
	return &cm, nil
}

func (c *Client) ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	var list []models.Attachment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d/attachments", taskID), "", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateAttachment registers a file and returns the URL to PUT its bytes to.
func (c *Client) CreateAttachment(ctx context.Context, token string, taskID int64, fileName, contentType string) (*models.Attachment, string, error) {
	var out struct {
		Attachment models.Attachment `json:"attachment"`
		UploadURL  string            `json:"uploadUrl"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/tasks/%d/attachments", taskID), token, map[string]string{
		"fileName": fileName, "contentType": contentType,
	}, &out)
	if err != nil {
		return nil, "", err
	}
	return &out.Attachment, out.UploadURL, nil
}

func (c *Client) CompleteAttachment(ctx context.Context, token string, taskID, attachmentID int64) (*models.Attachment, error) {
	var a models.Attachment
	path := fmt.Sprintf("/tasks/%d/attachments/%d/complete", taskID, attachmentID)
	if err := c.do(ctx, http.MethodPost, path, token, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Root fetches the server banner, which sits above the API prefix.
func (c *Client) Root(ctx context.Context) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u.Path = "/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Message, nil
}
