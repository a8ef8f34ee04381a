// Package googlebooks is a small client for the Google Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.googleapis.com/books/v1"

// MaxResultsLimit is the largest page the API will return.
const MaxResultsLimit = 40

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
}

type Options struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	RPS        int
	MaxRetries int
	Timeout    time.Duration
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Every(time.Second / time.Duration(opts.RPS))
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		userAgent:  opts.UserAgent,
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: opts.MaxRetries,
	}
}

type ImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

type VolumeInfo struct {
	Title          string      `json:"title"`
	Authors        []string    `json:"authors"`
	Description    string      `json:"description"`
	ImageLinks     *ImageLinks `json:"imageLinks"`
	PreviewLink    string      `json:"previewLink"`
	PublishedDate  string      `json:"publishedDate"`
	Publisher      string      `json:"publisher"`
	Categories     []string    `json:"categories"`
	PageCount      *int        `json:"pageCount"`
	Language       string      `json:"language"`
	MaturityRating string      `json:"maturityRating"`
	AverageRating  *float64    `json:"averageRating"`
	RatingsCount   *int        `json:"ratingsCount"`
}

type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumesResponse matches GET /volumes.
type VolumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

type SearchParams struct {
	Q          string
	OrderBy    string
	StartIndex int
	MaxResults int
}

// StatusError is returned for any non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("google books: unexpected status %d %s", e.StatusCode, e.Status)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

func (c *Client) SearchVolumes(ctx context.Context, p SearchParams) (*VolumesResponse, error) {
	maxResults := p.MaxResults
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}

	q := url.Values{}
	q.Set("q", p.Q)
	q.Set("key", c.apiKey)
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("startIndex", strconv.Itoa(p.StartIndex))
	if p.OrderBy != "" {
		q.Set("orderBy", p.OrderBy)
	}
	q.Set("projection", "lite")

	var res VolumesResponse
	if err := c.get(ctx, c.baseURL+"/volumes?"+q.Encode(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetVolume(ctx context.Context, id string) (*Volume, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	u := fmt.Sprintf("%s/volumes/%s?%s", c.baseURL, url.PathEscape(id), q.Encode())

	var res Volume
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	if c.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// do performs one attempt and reports whether a failure is worth retrying.
func (c *Client) do(ctx context.Context, url string, target interface{}) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, serr
	}

	return false, json.NewDecoder(resp.Body).Decode(target)
}
