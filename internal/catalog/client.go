// Package catalog reads the public wger exercise catalog and shapes it for
// the app: localized names, focus groups, main image first, and paging that
// survives client-side filtering.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"alcyxob/trainer-link/internal/config"
	"alcyxob/trainer-link/internal/domain"
	"alcyxob/trainer-link/internal/logging"
)

const (
	defaultBaseURL  = "https://wger.de/api/v2"
	defaultLanguage = 7 // Portuguese
	defaultPageSize = 50

	// maxPagesPerCall bounds the over-fetch for very selective filters. The
	// page still carries a cursor, so the caller can keep going.
	maxPagesPerCall = 20
)

// UpstreamError is a non-2xx answer from the catalog API.
type UpstreamError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("wger error %d", e.StatusCode)
}

// PageFetcher returns one page of the catalog. Client implements it, and so
// does the API client used by gymctl.
type PageFetcher interface {
	FetchExercisePage(ctx context.Context, q Query) (*domain.ExercisePage, error)
}

// Client talks to the wger REST API.
type Client struct {
	baseURL    string
	language   int
	pageSize   int
	httpClient *http.Client
	log        logging.Logger

	categoryTTL  time.Duration
	now          func() time.Time
	mu           sync.Mutex
	categories   []domain.ExerciseCategory
	categoriesAt time.Time
}

// NewClient builds a Client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg config.CatalogConfig, httpClient *http.Client, log logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		language:    cfg.Language,
		pageSize:    cfg.PageSize,
		httpClient:  httpClient,
		log:         log,
		categoryTTL: cfg.CategoryTTL,
		now:         time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.language <= 0 {
		c.language = defaultLanguage
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wger request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, URL: rawURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode wger response: %w", err)
	}
	return nil
}

// FetchCategories lists the exercise categories. The list is small and
// rarely changes, so it is kept in memory for the configured TTL.
func (c *Client) FetchCategories(ctx context.Context) ([]domain.ExerciseCategory, error) {
	c.mu.Lock()
	if c.categories != nil && c.categoryTTL > 0 && c.now().Sub(c.categoriesAt) < c.categoryTTL {
		cached := append([]domain.ExerciseCategory(nil), c.categories...)
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var body listResponse[wgerCategory]
	if err := c.getJSON(ctx, c.baseURL+"/exercisecategory/?limit=100", &body); err != nil {
		return nil, err
	}

	out := make([]domain.ExerciseCategory, 0, len(body.Results))
	for _, cat := range body.Results {
		out = append(out, domain.ExerciseCategory{ID: cat.ID, Name: cat.Name, Label: CategoryLabel(cat.Name)})
	}

	c.mu.Lock()
	c.categories = out
	c.categoriesAt = c.now()
	c.mu.Unlock()

	return append([]domain.ExerciseCategory(nil), out...), nil
}

func (c *Client) exerciseInfoURL(offset, categoryID int) string {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(c.pageSize))
	v.Set("offset", strconv.Itoa(offset))
	v.Set("ordering", "last_update")
	if categoryID > 0 {
		v.Set("category", strconv.Itoa(categoryID))
	}
	return c.baseURL + "/exerciseinfo/?" + v.Encode()
}

// offsetFromNext reads the offset parameter of an upstream "next" URL.
func offsetFromNext(next string) (int, bool) {
	u, err := url.Parse(next)
	if err != nil {
		return 0, false
	}
	off, err := strconv.Atoi(u.Query().Get("offset"))
	if err != nil || off < 0 {
		return 0, false
	}
	return off, true
}

type positionedCard struct {
	card domain.ExerciseCardData
	pos  int // upstream offset of the record
}

// FetchExercisePage returns up to q.Limit exercises matching q, reading
// upstream pages until enough records pass the filters or upstream runs
// out.
//
// NextOffset is an upstream position, not a count of returned items: it
// points just past the last upstream record that made it into Items, so
// the next call neither skips nor repeats filtered results. It is nil only
// when upstream is exhausted and every match was returned.
func (c *Client) FetchExercisePage(ctx context.Context, q Query) (*domain.ExercisePage, error) {
	q = q.normalized()

	var collected []positionedCard
	seen := map[int64]bool{}
	pos := q.Offset
	exhausted := false

	for pages := 0; len(collected) < q.Limit && pages < maxPagesPerCall; pages++ {
		var body listResponse[wgerExerciseInfo]
		if err := c.getJSON(ctx, c.exerciseInfoURL(pos, q.CategoryID), &body); err != nil {
			return nil, err
		}

		for i, rec := range body.Results {
			card, ok := mapExercise(rec, c.language)
			if !ok || seen[card.ID] || !q.matches(card) {
				continue
			}
			seen[card.ID] = true
			collected = append(collected, positionedCard{card: card, pos: pos + i})
		}

		if body.Next == nil || *body.Next == "" {
			exhausted = true
			pos += len(body.Results)
			break
		}
		next, ok := offsetFromNext(*body.Next)
		if !ok {
			next = pos + len(body.Results)
		}
		if next <= pos {
			// a cursor that does not advance would loop forever
			c.log.Warn(ctx, "wger next cursor did not advance", "offset", pos, "next", *body.Next)
			exhausted = true
			break
		}
		pos = next
	}

	page := &domain.ExercisePage{Items: make([]domain.ExerciseCardData, 0, min(len(collected), q.Limit))}
	if len(collected) > q.Limit {
		collected = collected[:q.Limit]
		resume := collected[len(collected)-1].pos + 1
		page.NextOffset = &resume
	} else if !exhausted {
		resume := pos
		page.NextOffset = &resume
	}
	for _, pc := range collected {
		page.Items = append(page.Items, pc.card)
	}

	c.log.Debug(ctx, "catalog page fetched", "offset", q.Offset, "items", len(page.Items), "exhausted", page.NextOffset == nil)
	return page, nil
}
