package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/launchline/concierge/internal/anthropic"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAnthropic serves a fixed extraction result in the messages API shape.
func fakeAnthropic(t *testing.T, fields map[string]string) *httptest.Server {
	t.Helper()
	payload, err := json.Marshal(fields)
	if err != nil {
		t.Fatal(err)
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"content":[{"type":"text","text":%q}],"stop_reason":"end_turn"}`, string(payload))
	}))
}

func TestExtractMergesModelAndPatternFields(t *testing.T) {
	server := fakeAnthropic(t, map[string]string{
		"industry":      "consulting",
		"customer_name": "J. Doe", // pattern hit must win over this
	})
	defer server.Close()

	llm := anthropic.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)
	e := New(llm, testLogger())

	got := e.Extract(context.Background(), "Hi, I'm Jane Doe, starting an LLC in Texas", 1)

	assert.Equal(t, "Jane Doe", got["customer_name"])
	assert.Equal(t, "consulting", got["industry"])
	assert.Equal(t, "LLC", got["entity_type"])
	assert.Equal(t, "Texas", got["state_of_operation"])
}

func TestExtractDropsFillerValues(t *testing.T) {
	server := fakeAnthropic(t, map[string]string{
		"industry":      "Not sure",
		"business_name": "TBD",
		"mission":       "help small businesses launch.",
	})
	defer server.Close()

	llm := anthropic.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)
	e := New(llm, testLogger())

	got := e.Extract(context.Background(), "some transcript", 1)

	assert.NotContains(t, got, "industry")
	assert.NotContains(t, got, "business_name")
	assert.Equal(t, "help small businesses launch", got["mission"])
}

func TestExtractSurvivesModelFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"type":"api_error","message":"overloaded"}}`)
	}))
	defer server.Close()

	llm := anthropic.NewClient("test-key", "test-model")
	llm.SetTestTransport(server.URL)
	e := New(llm, testLogger())

	got := e.Extract(context.Background(), "Hi, I'm Jane Doe, jane@x.com", 1)

	// Pattern results still come through when the model call dies.
	assert.Equal(t, "Jane Doe", got["customer_name"])
	assert.Equal(t, "jane@x.com", got["customer_email"])
}

func TestExtractWithoutModel(t *testing.T) {
	e := New(nil, testLogger())

	got := e.Extract(context.Background(), "Hi, I'm Jane Doe", 1)
	assert.Equal(t, "Jane Doe", got["customer_name"])
}

func TestExtractDeterministic(t *testing.T) {
	e := New(nil, testLogger())

	transcript := "Hi, I'm Jane Doe, jane@x.com, starting an LLC in Texas"
	first := e.Extract(context.Background(), transcript, 1)
	second := e.Extract(context.Background(), transcript, 1)
	assert.Equal(t, first, second)
}

func TestCleanValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"  Jane Doe  ", "Jane Doe", true},
		{`"Doe Consulting"`, "Doe Consulting", true},
		{"'Doe Consulting'", "Doe Consulting", true},
		{"Austin, Texas.", "Austin, Texas", true},
		{"too   many\t spaces", "too many spaces", true},
		{"", "", false},
		{"   ", "", false},
		{"not sure", "", false},
		{"Unknown", "", false},
		{"TBD", "", false},
		{"N/A", "", false},
	}
	for _, tc := range cases {
		got, ok := CleanValue(tc.in)
		assert.Equal(t, tc.ok, ok, "CleanValue(%q) ok", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "CleanValue(%q)", tc.in)
		}
	}
}
