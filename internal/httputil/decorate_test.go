package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecoratorClassifiesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":"1"}]}`))
	}))
	defer srv.Close()

	d := NewDecorator(srv.Client(), 0)
	resp, err := d.Do(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	require.Equal(t, KindJSON, resp.Kind)
	require.NotEmpty(t, resp.RequestHash)

	var body struct {
		Products []struct{ ID string } `json:"products"`
	}
	require.NoError(t, resp.DecodeJSON(&body))
	require.Len(t, body.Products, 1)
}

func TestDecoratorClassifiesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	resp, err := NewDecorator(srv.Client(), 0).Do(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	require.Equal(t, KindText, resp.Kind)
	require.Equal(t, "<html></html>", resp.Text())
}

func TestDecoratorSniffsUnlabeledJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	resp, err := NewDecorator(srv.Client(), 0).Do(context.Background(), Request{URL: srv.URL})
	require.NoError(t, err)
	require.Equal(t, KindJSON, resp.Kind)
}

func TestDecoratorHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewDecorator(srv.Client(), 0).Do(context.Background(), Request{URL: srv.URL})
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestDecoratorNetworkErrorOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDecorator(srv.Client(), 0).Do(ctx, Request{URL: srv.URL})
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.True(t, netErr.Canceled())
	require.True(t, IsCancellation(err))
}

func TestDecoratorNetworkErrorOnRefusedConn(t *testing.T) {
	// Port 1 is essentially never listening.
	_, err := NewDecorator(nil, 0).Do(context.Background(), Request{URL: "http://127.0.0.1:1/x"})
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.False(t, netErr.Canceled())

	var httpErr *HTTPError
	require.False(t, errors.As(err, &httpErr))
}
