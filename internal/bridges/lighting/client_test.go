package lighting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Fetch_SendsHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotMethod = r.Method
		w.Write([]byte(`{"intensity": 42.5}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(Options{Timeout: time.Second})
	body, err := c.Fetch(context.Background(), srv.URL+"/lighting", "secret-token")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if gotMethod != http.MethodGet {
		t.Errorf("method = %q, want GET", gotMethod)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if string(body) != `{"intensity": 42.5}` {
		t.Errorf("body = %q", body)
	}
}

func TestClient_Fetch_Non2xx(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"unauthorised", http.StatusUnauthorized},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			c := NewClient(Options{Timeout: time.Second})
			_, err := c.Fetch(context.Background(), srv.URL, "t")
			if err == nil {
				t.Fatal("Fetch() expected error, got nil")
			}
			if !errors.Is(err, ErrNetwork) {
				t.Errorf("error = %v, want ErrNetwork", err)
			}
			var se *StatusError
			if !errors.As(err, &se) || se.Code != tt.code {
				t.Errorf("error = %v, want *StatusError{Code: %d}", err, tt.code)
			}
		})
	}
}

func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Options{Timeout: time.Second})
	_, err := c.Fetch(context.Background(), url, "t")
	if !IsNetwork(err) {
		t.Errorf("error = %v, want network failure", err)
	}
}

func TestClient_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Fetch(context.Background(), srv.URL, "t")
	if !IsNetwork(err) {
		t.Errorf("error = %v, want network failure", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Fetch() took %v, timeout not applied", elapsed)
	}
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	c := NewClient(Options{Timeout: 5 * time.Second})
	_, err := c.Fetch(ctx, srv.URL, "t")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled in chain", err)
	}
	if !IsNetwork(err) {
		t.Errorf("error = %v, want network failure", err)
	}
}

func TestClient_Fetch_SelfSignedTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"activeScene": 2}`)) //nolint:errcheck
	}))
	defer srv.Close()

	t.Run("skip verify accepts self-signed", func(t *testing.T) {
		c := NewClient(Options{Timeout: time.Second, InsecureSkipVerify: true})
		if _, err := c.Fetch(context.Background(), srv.URL, "t"); err != nil {
			t.Errorf("Fetch() error = %v", err)
		}
	})

	t.Run("verification rejects self-signed", func(t *testing.T) {
		c := NewClient(Options{Timeout: time.Second, InsecureSkipVerify: false})
		_, err := c.Fetch(context.Background(), srv.URL, "t")
		if !IsNetwork(err) {
			t.Errorf("error = %v, want network failure", err)
		}
	})
}

func TestClient_SetScene(t *testing.T) {
	var gotBody map[string]int
	var gotMethod, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody) //nolint:errcheck
		w.Write([]byte(`{"activeScene": 7, "name": "Evening", "outOfTune": false}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(Options{Timeout: time.Second})
	active, err := c.SetScene(context.Background(), srv.URL+"/scene", "t", 7)
	if err != nil {
		t.Fatalf("SetScene() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotType)
	}
	if gotBody["activeScene"] != 7 {
		t.Errorf("request body = %v, want activeScene 7", gotBody)
	}
	if active != 7 {
		t.Errorf("SetScene() = %d, want 7", active)
	}
}

func TestClient_SetScene_OutOfRange(t *testing.T) {
	c := NewClient(Options{})
	for _, scene := range []int{-1, 256} {
		if _, err := c.SetScene(context.Background(), "http://unused/scene", "t", scene); !errors.Is(err, ErrInvalidScene) {
			t.Errorf("SetScene(%d) error = %v, want ErrInvalidScene", scene, err)
		}
	}
}

func TestClient_SetScene_BadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html>`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(Options{Timeout: time.Second})
	_, err := c.SetScene(context.Background(), srv.URL, "t", 1)
	if !IsDecode(err) {
		t.Errorf("error = %v, want decode failure", err)
	}
}
