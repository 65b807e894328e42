package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/res/v1/web/search", r.URL.Path)
		assert.Equal(t, "dolar hoje", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		assert.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web": {"results": [
			{"title": "Cotacao do dolar", "description": "R$ 5,43", "url": "https://example.com/dolar"},
			{"title": "Dolar comercial", "description": "em alta", "url": "https://example.com/alta"}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.Search(context.Background(), "dolar hoje")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cotacao do dolar", got[0].Title)
	assert.Equal(t, "https://example.com/alta", got[1].URL)
}

func TestSearchMissingKey(t *testing.T) {
	c := NewClient("")
	_, err := c.Search(context.Background(), "qualquer coisa")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	got, err := c.Search(context.Background(), "nada")
	require.NoError(t, err)
	assert.Empty(t, got)
}
