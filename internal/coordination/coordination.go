package coordination

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/cruciblehq/barn/internal/build"
)

// A client of the coordination service.
type Coordinator interface {

	// Reports whether the named job needs building under tags.
	Check(ctx context.Context, name string, tags []string) (bool, error)

	// Submits a build result together with its tags.
	Send(ctx context.Context, result *build.Result, tags []string) error

	// Releases any connection held by the client.
	Close() error
}

// Body of a staleness check.
type checkRequest struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Body of a result submission.
type resultsRequest struct {
	ClientInfo build.ClientInfo    `json:"client_info"`
	Results    []build.StepResult `json:"results"`
	Tags       []string           `json:"tags"`
}

// Returns a client for serverURL, chosen by its scheme.
func New(serverURL string) (Coordinator, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedScheme, err)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPClient(serverURL), nil
	case "nats", "tls":
		return NewNATSClient(serverURL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func encodeCheck(name string, tags []string) ([]byte, error) {
	return json.Marshal(checkRequest{Name: name, Tags: nonNil(tags)})
}

func encodeResults(result *build.Result, tags []string) ([]byte, error) {
	steps := result.Steps
	if steps == nil {
		steps = []build.StepResult{}
	}
	return json.Marshal(resultsRequest{
		ClientInfo: result.ClientInfo,
		Results:    steps,
		Tags:       nonNil(tags),
	})
}

// Extracts the needs_build flag from a check reply.
func decodeCheck(body []byte) (bool, error) {
	if !gjson.ValidBytes(body) {
		return false, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	v := gjson.GetBytes(body, "needs_build")
	if !v.IsBool() {
		return false, fmt.Errorf("%w: needs_build missing or not a boolean", ErrMalformedResponse)
	}
	return v.Bool(), nil
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
