// Package apiclient talks to the trainer-link HTTP API. Its
// FetchExercisePage satisfies catalog.PageFetcher, so a catalog.Loader can
// page through the server exactly as it pages through wger.
package apiclient

import (
	"bytes"
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

	"alcyxob/trainer-link/internal/catalog"
	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/session"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// ErrKeyNotFound is returned by ValidateKey when no trainer owns the key.
var ErrKeyNotFound = errors.New("trainer key not found")

// APIError is a non-2xx answer carrying the server's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// TrainerCard is the public view of a trainer returned by key lookups.
type TrainerCard struct {
	TrainerID   string `json:"trainerId"`
	DisplayName string `json:"displayName"`
	TrainerKey  string `json:"trainerKey"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New builds a client for the API rooted at baseURL, e.g.
// http://localhost:8080/api/v1. A nil httpClient gets a default one.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// SignIn exchanges credentials for a session. The expiry is read from the
// token's claims without verifying the signature; only the server can do
// that.
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string      `json:"id"`
			Email string      `json:"email"`
			Role  domain.Role `json:"role"`
		} `json:"user"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", in, &resp); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(resp.User.ID)
	if err != nil {
		return nil, fmt.Errorf("sign in: bad user id %q: %w", resp.User.ID, err)
	}
	s := &session.Session{UserID: userID, Email: resp.User.Email, Role: resp.User.Role, Token: resp.Token}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.Token, claims); err == nil && claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

// ValidateKey resolves a trainer key typed in any form.
func (c *Client) ValidateKey(ctx context.Context, input string) (*TrainerCard, error) {
	var card TrainerCard
	err := c.do(ctx, http.MethodGet, "/trainer-keys/"+url.PathEscape(input), nil, &card)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Me returns the signed-in caller's profile.
func (c *Client) Me(ctx context.Context) (*domain.ProfileWithTrainer, error) {
	var p domain.ProfileWithTrainer
	if err := c.do(ctx, http.MethodGet, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// FetchExercisePage reads one catalog page through the API.
func (c *Client) FetchExercisePage(ctx context.Context, q catalog.Query) (*domain.ExercisePage, error) {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID > 0 {
		v.Set("category", strconv.Itoa(q.CategoryID))
	}
	if q.Focus != "" {
		v.Set("focus", q.Focus)
	}
	path := "/catalog/exercises"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var page domain.ExercisePage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Categories lists catalog categories.
func (c *Client) Categories(ctx context.Context) ([]domain.ExerciseCategory, error) {
	var cats []domain.ExerciseCategory
	if err := c.do(ctx, http.MethodGet, "/catalog/categories", nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

var _ catalog.PageFetcher = (*Client)(nil)
