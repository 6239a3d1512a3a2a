package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/services/batch"
)

func testServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchProfileSuccess(t *testing.T) {
	server := testServer(t, http.StatusOK, profilePage)
	client := NewClient(arbor.NewLogger(), WithBaseURL(server.URL), WithRateLimit(1000))

	snapshot, err := client.FetchProfile(context.Background(), "instagram", "acmecoffee")
	require.NoError(t, err)
	assert.Equal(t, int64(12_500), snapshot.FollowerCount)
}

func TestFetchProfileStatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind batch.ErrorKind
	}{
		{"not found", http.StatusNotFound, batch.KindNotFound},
		{"forbidden", http.StatusForbidden, batch.KindUnauthorized},
		{"bad request", http.StatusBadRequest, batch.KindValidation},
		{"rate limited", http.StatusTooManyRequests, batch.KindTransient},
		{"server error", http.StatusBadGateway, batch.KindTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testServer(t, tt.status, "")
			client := NewClient(arbor.NewLogger(), WithBaseURL(server.URL), WithRateLimit(1000))

			_, err := client.FetchProfile(context.Background(), "instagram", "acme")
			require.Error(t, err)

			var be *batch.Error
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.wantKind, be.Kind)
		})
	}
}

func TestFetchProfileValidation(t *testing.T) {
	client := NewClient(arbor.NewLogger(), WithBaseURL("http://vendor.example"))

	_, err := client.FetchProfile(context.Background(), "instagram", "")
	assert.Equal(t, batch.KindValidation, batch.Classify(err))

	unconfigured := NewClient(arbor.NewLogger())
	_, err = unconfigured.FetchProfile(context.Background(), "instagram", "acme")
	assert.Equal(t, batch.KindValidation, batch.Classify(err))
}
