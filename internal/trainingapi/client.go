package trainingapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrNotFound = errors.New("trainingapi: not found")

// Client talks to the external training backend ("Formation API").
type Client struct {
	base string
	http *resty.Client
}

func New(base string) *Client {
	base = strings.TrimSuffix(base, "/")
	return &Client{
		base: base,
		http: resty.New().SetBaseURL(base).SetTimeout(15 * time.Second),
	}
}

// GetFormation fetches one formation record. The backend sometimes wraps the
// record in an array, or even a nested array; both shapes are unwrapped here.
func (c *Client) GetFormation(ctx context.Context, id int64) (Formation, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/formations/%d", id))
	if err != nil {
		return Formation{}, err
	}
	if resp.StatusCode() == 404 {
		return Formation{}, ErrNotFound
	}
	if resp.IsError() {
		return Formation{}, fmt.Errorf("trainingapi: formations/%d: %s", id, resp.Status())
	}
	raw, err := unwrap(resp.Body())
	if err != nil {
		return Formation{}, err
	}
	var f Formation
	if err := json.Unmarshal(raw, &f); err != nil {
		return Formation{}, fmt.Errorf("trainingapi: decode formation: %w", err)
	}
	if f.ID == 0 {
		return Formation{}, ErrNotFound
	}
	return f, nil
}

// unwrap peels array wrapping off a response that should be a single object.
func unwrap(body []byte) ([]byte, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, ErrNotFound
	}
	for strings.HasPrefix(trimmed, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &arr); err != nil {
			return nil, fmt.Errorf("trainingapi: decode response: %w", err)
		}
		if len(arr) == 0 {
			return nil, ErrNotFound
		}
		trimmed = strings.TrimSpace(string(arr[0]))
	}
	return []byte(trimmed), nil
}

// ListDetailedContents fetches the flat detailed-content list for a formation.
func (c *Client) ListDetailedContents(ctx context.Context, formationID int64) ([]DetailedContent, error) {
	var out []DetailedContent
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		Get(fmt.Sprintf("/contenus-detailles/by-formation/%d", formationID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("trainingapi: contenus-detailles/by-formation/%d: %s", formationID, resp.Status())
	}
	return out, nil
}

// GetLearnerClasses lists the classes a learner is enrolled in.
func (c *Client) GetLearnerClasses(ctx context.Context, learnerID int64) (LearnerClasses, error) {
	var out LearnerClasses
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).
		Get(fmt.Sprintf("/apprenants/%d/classes", learnerID))
	if err != nil {
		return LearnerClasses{}, err
	}
	if resp.StatusCode() == 404 {
		return LearnerClasses{}, ErrNotFound
	}
	if resp.IsError() {
		return LearnerClasses{}, fmt.Errorf("trainingapi: apprenants/%d/classes: %s", learnerID, resp.Status())
	}
	return out, nil
}

// FileURL builds the public URL for a stored content file.
func (c *Client) FileURL(path string) string {
	return c.base + "/contenus-detailles/files/" + path
}

// FetchFile downloads a content file (the PDF embed path goes through here).
func (c *Client) FetchFile(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("trainingapi: fetch %s: %s", url, resp.Status())
	}
	return resp.Body(), nil
}
