package coordination

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/cruciblehq/barn/internal/build"
)

func TestHTTPCheck(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    bool
		wantErr error
	}{
		{name: "needs build", reply: `{"needs_build": true}`, want: true},
		{name: "up to date", reply: `{"needs_build": false}`, want: false},
		{name: "missing field", reply: `{"other": 1}`, wantErr: ErrMalformedResponse},
		{name: "wrong type", reply: `{"needs_build": "yes"}`, wantErr: ErrMalformedResponse},
		{name: "not json", reply: `nope`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody []byte
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/pony_server/check", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				gotBody, _ = io.ReadAll(r.Body)
				_, _ = w.Write([]byte(tt.reply))
			}))
			defer server.Close()

			client := NewHTTPClient(server.URL + "/pony_server/")
			needed, err := client.Check(t.Context(), "mypkg", []string{"go1.25", "base_builder"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, needed)
			assert.Equal(t, "mypkg", gjson.GetBytes(gotBody, "name").String())
			assert.Equal(t, `["go1.25","base_builder"]`, gjson.GetBytes(gotBody, "tags").Raw)
		})
	}
}

func TestHTTPSend(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/results", r.URL.Path)
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	result := &build.Result{
		ClientInfo: build.ClientInfo{Success: true, Job: "mypkg"},
		Steps: []build.StepResult{
			{Name: "build", Success: true, Fields: build.Fields{{Key: "exit_code", Value: "0"}}},
			{Name: "test", Success: true},
		},
	}

	client := NewHTTPClient(server.URL)
	require.NoError(t, client.Send(t.Context(), result, []string{"go1.25", "base_builder"}))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Contains(t, decoded, "client_info")
	assert.Equal(t, "mypkg", gjson.GetBytes(gotBody, "client_info.job").String())
	assert.True(t, gjson.GetBytes(gotBody, "client_info.success").Bool())
	assert.Equal(t, int64(2), gjson.GetBytes(gotBody, "results.#").Int())
	assert.Equal(t, "0", gjson.GetBytes(gotBody, "results.0.fields.exit_code").String())
	assert.Equal(t, `["go1.25","base_builder"]`, gjson.GetBytes(gotBody, "tags").Raw)
}

func TestHTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	_, err := client.Check(t.Context(), "mypkg", nil)
	assert.ErrorIs(t, err, ErrHTTPStatus)
	assert.Contains(t, err.Error(), "503")

	err = client.Send(t.Context(), &build.Result{}, nil)
	assert.ErrorIs(t, err, ErrHTTPStatus)
}

func TestHTTPTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPClient(url).Check(t.Context(), "mypkg", nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestHTTPHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewHTTPClient(server.URL).Check(ctx, "mypkg", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
