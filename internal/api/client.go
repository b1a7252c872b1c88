// ABOUTME: HTTP client for the CI API with bearer auth and CSRF token handling
// ABOUTME: Failures carry typed status codes so callers can classify 401/404

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/calculi-corp/concourse/internal/routes"
)

const csrfTokenHeader = "X-Csrf-Token"

// UnexpectedResponseError is returned for any non-2xx response.
type UnexpectedResponseError struct {
	StatusCode int
	Body       string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsUnauthorized reports whether err wraps a 401 response.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound reports whether err wraps a 404 response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func hasStatus(err error, code int) bool {
	var ure *UnexpectedResponseError
	return errors.As(err, &ure) && ure.StatusCode == code
}

type Client struct {
	baseURL    string
	authToken  string
	csrfToken  string
	httpClient *http.Client
}

func NewClient(baseURL, authToken string) *Client {
	return &Client{
		baseURL:   baseURL,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetCSRFToken sets the token attached to every mutating request.
func (c *Client) SetCSRFToken(token string) {
	c.csrfToken = token
}

func (c *Client) User(ctx context.Context) (User, error) {
	var user User
	err := c.get(ctx, "/api/v1/user", &user)
	return user, err
}

func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	var teams []Team
	err := c.get(ctx, "/api/v1/teams", &teams)
	return teams, err
}

func (c *Client) Pipelines(ctx context.Context) ([]Pipeline, error) {
	var pipelines []Pipeline
	err := c.get(ctx, "/api/v1/pipelines", &pipelines)
	return pipelines, err
}

// APIData fetches the combined dashboard payload. A 401 from the user endpoint
// is not an error here: it means nobody is logged in.
func (c *Client) APIData(ctx context.Context) (APIData, error) {
	var data APIData

	user, err := c.User(ctx)
	switch {
	case err == nil:
		data.User = &user
	case IsUnauthorized(err):
		// anonymous session
	default:
		return APIData{}, err
	}

	data.Teams, err = c.Teams(ctx)
	if err != nil {
		return APIData{}, err
	}

	data.Pipelines, err = c.Pipelines(ctx)
	if err != nil {
		return APIData{}, err
	}

	return data, nil
}

func (c *Client) Pipeline(ctx context.Context, team, pipeline string) (Pipeline, error) {
	var p Pipeline
	err := c.get(ctx, pipelinePath(team, pipeline), &p)
	return p, err
}

func (c *Client) Job(ctx context.Context, team, pipeline, job string) (Job, error) {
	var j Job
	err := c.get(ctx, jobPath(team, pipeline, job), &j)
	return j, err
}

func (c *Client) JobBuilds(ctx context.Context, team, pipeline, job string, page routes.Page) ([]Build, error) {
	var builds []Build
	err := c.get(ctx, jobPath(team, pipeline, job)+"/builds"+pageQuery(page), &builds)
	return builds, err
}

func (c *Client) JobBuild(ctx context.Context, team, pipeline, job, name string) (Build, error) {
	var b Build
	err := c.get(ctx, jobPath(team, pipeline, job)+"/builds/"+url.PathEscape(name), &b)
	return b, err
}

func (c *Client) Build(ctx context.Context, id int) (Build, error) {
	var b Build
	err := c.get(ctx, "/api/v1/builds/"+strconv.Itoa(id), &b)
	return b, err
}

func (c *Client) ResourceVersions(ctx context.Context, team, pipeline, resource string, page routes.Page) ([]Version, error) {
	var versions []Version
	err := c.get(ctx, pipelinePath(team, pipeline)+"/resources/"+url.PathEscape(resource)+"/versions"+pageQuery(page), &versions)
	return versions, err
}

func (c *Client) TriggerBuild(ctx context.Context, team, pipeline, job string) (Build, error) {
	var b Build
	err := c.send(ctx, http.MethodPost, jobPath(team, pipeline, job)+"/builds", &b)
	return b, err
}

func (c *Client) AbortBuild(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodPut, "/api/v1/builds/"+strconv.Itoa(id)+"/abort", nil)
}

func (c *Client) PausePipeline(ctx context.Context, team, pipeline string) error {
	return c.send(ctx, http.MethodPut, pipelinePath(team, pipeline)+"/pause", nil)
}

func (c *Client) UnpausePipeline(ctx context.Context, team, pipeline string) error {
	return c.send(ctx, http.MethodPut, pipelinePath(team, pipeline)+"/unpause", nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.get(ctx, "/sky/logout", nil)
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	return c.do(ctx, http.MethodGet, path, dst)
}

func (c *Client) send(ctx context.Context, method, path string, dst any) error {
	return c.do(ctx, method, path, dst)
}

func (c *Client) do(ctx context.Context, method, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.csrfToken != "" && method != http.MethodGet && method != http.MethodHead {
		req.Header.Set(csrfTokenHeader, c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UnexpectedResponseError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func pipelinePath(team, pipeline string) string {
	return "/api/v1/teams/" + url.PathEscape(team) + "/pipelines/" + url.PathEscape(pipeline)
}

func jobPath(team, pipeline, job string) string {
	return pipelinePath(team, pipeline) + "/jobs/" + url.PathEscape(job)
}

func pageQuery(page routes.Page) string {
	q := url.Values{}
	if page.Since != 0 {
		q.Set("since", strconv.Itoa(page.Since))
	}
	if page.Until != 0 {
		q.Set("until", strconv.Itoa(page.Until))
	}
	if page.Limit != 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
