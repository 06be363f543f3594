package upload

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadImagePostsMultipart(t *testing.T) {
	var gotField, gotFilename, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for field, files := range r.MultipartForm.File {
			gotField = field
			if len(files) > 0 {
				gotFilename = files[0].Filename
			}
		}
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte("https://example.com/i/abc123.png\n"))
	}))
	defer server.Close()

	client, err := New(server.URL, "shot")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	res, err := client.UploadImage(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4)), "crop.png")
	if err != nil {
		t.Fatalf("UploadImage returned error: %v", err)
	}

	if res.Location != "https://example.com/i/abc123.png" {
		t.Fatalf("Location = %q", res.Location)
	}
	if res.Status != http.StatusOK {
		t.Fatalf("Status = %d", res.Status)
	}
	if gotField != "shot" {
		t.Fatalf("form field = %q, want %q", gotField, "shot")
	}
	if gotFilename != "crop.png" {
		t.Fatalf("filename = %q, want %q", gotFilename, "crop.png")
	}
	if gotContentType == "" {
		t.Fatalf("missing multipart content type header")
	}
}

func TestUploadNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := New(server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.UploadImage(context.Background(), image.NewRGBA(image.Rect(0, 0, 1, 1)), "")
	if err == nil {
		t.Fatalf("expected error for 403 response")
	}
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := New("   ", "file"); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
