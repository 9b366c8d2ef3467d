// Package remote is the HTTP client for the hosted backend. It exposes only
// the narrow contracts the progression core consumes; everything else about
// the backend is out of scope.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "github.com/vikkirkobane/karma-club-sub000/pkg/errors"

	"github.com/vikkirkobane/karma-club-sub000/internal/models"
)

const (
	// Fixed ceilings; an operation past its ceiling is a recoverable
	// transient failure, never a crash.
	writeTimeout  = 10 * time.Second
	fetchTimeout  = 10 * time.Second
	submitTimeout = 30 * time.Second

	// MaxMediaBytes is enforced client-side before any network call.
	MaxMediaBytes = 5 << 20
)

// StatsRow is the authoritative progression snapshot for one user.
type StatsRow struct {
	Points     int                   `json:"points"`
	StreakDays int                   `json:"streakDays"`
	Counts     models.CategoryCounts `json:"counts"`
}

// Totals is the backend's response to a relative points increment.
type Totals struct {
	Points int `json:"points"`
}

// Submission is the backend's record of an accepted activity submission.
type Submission struct {
	ID         string `json:"id"`
	ActivityID string `json:"activityId"`
	Status     string `json:"status"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		// Per-call deadlines come from contexts; the transport-level
		// ceiling is a backstop.
		http: &http.Client{Timeout: submitTimeout},
	}
}

// FetchStats returns the authoritative stats row. Safe to call repeatedly.
func (c *Client) FetchStats(ctx context.Context, userID string) (StatsRow, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var row StatsRow
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%s/stats", userID), nil, &row)
	return row, err
}

// SubmitActivity sends one completed activity with its proof. MediaURL points
// at an already-uploaded object; this client never moves bytes.
func (c *Client) SubmitActivity(ctx context.Context, userID, activityID, description, mediaURL string) (Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	body := map[string]string{
		"userId":      userID,
		"activityId":  activityID,
		"description": description,
		"mediaUrl":    mediaURL,
	}
	var sub Submission
	err := c.do(ctx, http.MethodPost, "/api/submissions", body, &sub)
	return sub, err
}

// AddPoints applies a relative increment. The authoritative total is only
// known after the next FetchStats.
func (c *Client) AddPoints(ctx context.Context, userID string, delta int) (Totals, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	body := map[string]any{"userId": userID, "delta": delta}
	var totals Totals
	err := c.do(ctx, http.MethodPost, "/api/points", body, &totals)
	return totals, err
}

// ToggleLike flips this user's like on a post and reports whether the post
// ends up liked. Last writer wins across devices.
func (c *Client) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	body := map[string]string{"userId": userID}
	var res struct {
		Liked bool `json:"liked"`
	}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%s/like", postID), body, &res)
	return res.Liked, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return apperrors.Validation("encode request: " + err.Error())
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return apperrors.Validation("build request: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Transient("backend unreachable", err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.Transient("decode response", err)
		}
	}
	return nil
}

func mapStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusConflict:
		return apperrors.Duplicate("already submitted for this activity")
	case code == http.StatusNotFound:
		return apperrors.NotFound("record not found")
	case code == http.StatusRequestEntityTooLarge:
		return apperrors.Quota(fmt.Sprintf("media exceeds the %d MB limit", MaxMediaBytes>>20))
	case code >= 400 && code < 500:
		return apperrors.Validation(fmt.Sprintf("backend rejected the request (%d)", code))
	default:
		return apperrors.Transient(fmt.Sprintf("backend error (%d)", code), nil)
	}
}
