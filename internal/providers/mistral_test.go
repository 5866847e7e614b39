package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMistralOCR_ProcessImage(t *testing.T) {
	var gotReq mistralOCRRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key123" {
			t.Errorf("auth header: got %q", got)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(mistralOCRResponse{
			Model: MistralOCRModel,
			Pages: []mistralOCRPage{{Index: 0, Markdown: "Roll No: AB123456"}},
		})
	}))
	defer srv.Close()

	c := NewMistralOCRClient(MistralOCRConfig{APIKey: "key123", BaseURL: srv.URL})

	res, err := c.ProcessImage(context.Background(), []byte("png bytes"))
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Text != "Roll No: AB123456" {
		t.Errorf("text: got %q", res.Text)
	}
	if res.Confidence != mistralOCRAssumedConfidence {
		t.Errorf("confidence: got %v, want %v", res.Confidence, mistralOCRAssumedConfidence)
	}
	if res.RequestID == "" {
		t.Error("expected a request ID")
	}

	if gotReq.Document.Type != "image_url" {
		t.Errorf("document type: got %q", gotReq.Document.Type)
	}
	if gotReq.Document.ImageURL == nil || !strings.HasPrefix(gotReq.Document.ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("image URL missing base64 data prefix: %+v", gotReq.Document.ImageURL)
	}
}

func TestMistralOCR_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "invalid api key"},
		})
	}))
	defer srv.Close()

	c := NewMistralOCRClient(MistralOCRConfig{APIKey: "bad", BaseURL: srv.URL})

	res, err := c.ProcessImage(context.Background(), []byte("png"))
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should surface API message, got %v", err)
	}
	if res == nil || res.Success {
		t.Errorf("result should mark failure, got %+v", res)
	}
}

func TestMistralOCR_NoPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(mistralOCRResponse{Model: MistralOCRModel})
	}))
	defer srv.Close()

	c := NewMistralOCRClient(MistralOCRConfig{APIKey: "key", BaseURL: srv.URL})

	res, err := c.ProcessImage(context.Background(), []byte("png"))
	if err == nil {
		t.Fatal("expected error for empty page list")
	}
	if res.Success {
		t.Errorf("result should mark failure, got %+v", res)
	}
}
