package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParse(t *testing.T) {
	var gotUA, gotAccept, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"schemeCode":1,"schemeName":"Axis"}`))
	}))
	defer ts.Close()

	var out struct {
		SchemeCode int    `json:"schemeCode"`
		SchemeName string `json:"schemeName"`
	}
	c := NewClient(WithUserAgent("test-agent"))
	err := c.SendAndParse(context.Background(), &RequestOptions{
		URL:         ts.URL,
		QueryParams: map[string][]string{"q": {"axis"}},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, out.SchemeCode)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "axis", gotQuery)
}

func TestSendAndParseStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, strings.Repeat("x", 2000), http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: ts.URL}, &struct{}{})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Len(t, se.Body, 512)
}

func TestSendAndParseBodyLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":"` + strings.Repeat("a", 100) + `"}`))
	}))
	defer ts.Close()

	var out map[string]string
	err := NewClient(WithMaxBody(32)).SendAndParse(context.Background(), &RequestOptions{URL: ts.URL}, &out)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	require.NoError(t, NewClient(WithMaxBody(0)).SendAndParse(context.Background(), &RequestOptions{URL: ts.URL}, &out))
	assert.Len(t, out["data"], 100)
}

func TestSendAndParseInvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer ts.Close()

	var out map[string]string
	err := NewClient().SendAndParse(context.Background(), &RequestOptions{URL: ts.URL}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode json")
}
