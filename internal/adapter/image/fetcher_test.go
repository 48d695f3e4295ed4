package image

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mattear/canvas-avatar/internal/port"
)

func TestFetchKeepsBytesAndContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer server.Close()

	img, err := NewFetcher(5*time.Second).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(img.Data) != "jpeg-bytes" {
		t.Fatalf("Data = %q", img.Data)
	}
	if img.ContentType != "image/jpeg" {
		t.Fatalf("ContentType = %q, want image/jpeg", img.ContentType)
	}
}

func TestFetchDefaultsContentTypeToPNG(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// http.ResponseWriter sniffs a type unless one is set; force it empty.
		w.Header()["Content-Type"] = nil
		w.Write([]byte{0x89, 0x50})
	}))
	defer server.Close()

	img, err := NewFetcher(5*time.Second).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if img.ContentType != "image/png" {
		t.Fatalf("ContentType = %q, want image/png default", img.ContentType)
	}
}

func TestFetchNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewFetcher(5*time.Second).Fetch(context.Background(), server.URL+"/missing.png")
	if !errors.Is(err, port.ErrImageFetch) {
		t.Fatalf("Fetch() error = %v, want ErrImageFetch", err)
	}
}
