package seo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"

	"github.com/rahul4469/seo-master/internal/seo"
)

func TestFetchPage(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("X-Frame-Options", "DENY")
		fmt.Fprint(w, "<html><body>hi</body></html>")
	}))
	defer srv.Close()

	f := seo.NewFetcher(seo.WithUserAgent("test-agent/1.0"))
	page, err := f.FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, page.Body, "hi")
	assert.Equal(t, len(page.Body), page.Size)
	assert.Equal(t, "DENY", page.Headers.Get("X-Frame-Options"))
}

func TestFetchPageContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := seo.NewFetcher()
	_, err := f.FetchPage(ctx, srv.URL)
	assert.Error(t, err)
}

func TestFetchAsset(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("a", 1500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	f := seo.NewFetcher()

	withBody, err := f.FetchAsset(context.Background(), srv.URL, true)
	require.NoError(t, err)
	assert.Equal(t, body, withBody.Body)
	assert.Equal(t, 1500, withBody.Size)

	sizeOnly, err := f.FetchAsset(context.Background(), srv.URL, false)
	require.NoError(t, err)
	assert.Empty(t, sizeOnly.Body)
	assert.Equal(t, 1500, sizeOnly.Size)
}

func TestHeadFallsBackToGet(t *testing.T) {
	t.Parallel()

	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := seo.NewFetcher()
	status, err := f.Head(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestFetchPageRemoteHost(t *testing.T) {
	defer gock.Off()

	gock.New("https://shop.example.com").
		Get("/catalog").
		MatchHeader("Accept", "text/html").
		Reply(http.StatusNotFound).
		SetHeader("Content-Type", "text/html; charset=utf-8").
		BodyString("<html><body>not found</body></html>")

	client := &http.Client{}
	gock.InterceptClient(client)

	f := seo.NewFetcher(seo.WithHTTPClient(client))
	page, err := f.FetchPage(context.Background(), "https://shop.example.com/catalog")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, page.StatusCode)
	assert.Contains(t, page.Body, "not found")
	assert.True(t, gock.IsDone())
}
