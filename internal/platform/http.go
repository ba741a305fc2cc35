package platform

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/orgball2608/social-scheduler/internal/domain"
	"github.com/orgball2608/social-scheduler/pkg/formatter"
)

const maxResponseBytes = 1 << 20

// APIError is a non-2xx answer from a platform API.
type APIError struct {
	Platform   domain.Platform
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s api returned status %d", e.Platform, e.StatusCode)
	}
	return fmt.Sprintf("%s api returned status %d: %s", e.Platform, e.StatusCode, e.Message)
}

// Do sends req and decodes a 2xx JSON body into out (when out is non-nil and the
// body is not empty). Non-2xx answers become *APIError.
func Do(client *http.Client, req *http.Request, p domain.Platform, out any) (http.Header, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s response read failed: %w", p, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Platform: p, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if out != nil && len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, p, err)
		}
	}
	return resp.Header, nil
}

type errorBody struct {
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Title   string          `json:"title"`
	Error   json.RawMessage `json:"error"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// errorMessage pulls a readable message out of the error shapes used by the
// LinkedIn, Twitter and Graph APIs. Falls back to the raw body.
func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return truncateRaw(body)
	}

	if len(eb.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(eb.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var plain string
		if err := json.Unmarshal(eb.Error, &plain); err == nil && plain != "" {
			return plain
		}
	}

	switch {
	case eb.Detail != "":
		return eb.Detail
	case eb.Message != "":
		return eb.Message
	case len(eb.Errors) > 0 && eb.Errors[0].Message != "":
		return eb.Errors[0].Message
	case eb.Title != "":
		return eb.Title
	}
	return truncateRaw(body)
}

const maxRawMessage = 200

// truncateRaw keeps at most maxRawMessage characters of the body as valid UTF-8.
func truncateRaw(body []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(body)), "\uFFFD")
	return formatter.Truncate(s, maxRawMessage)
}
