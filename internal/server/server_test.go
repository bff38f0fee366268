package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sptx/internal/shared"
	tu "github.com/desertthunder/sptx/internal/testing"
	"golang.org/x/oauth2"
)

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://127.0.0.1:8888/spotify/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/authorize",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func tokenResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// callback issues a request whose token exchange goes through transport.
func callback(h http.Handler, query string, transport http.RoundTripper) *httptest.ResponseRecorder {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: transport})
	req := httptest.NewRequest(http.MethodGet, "/spotify/callback?"+query, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Routes Follow Redirect URI", func(t *testing.T) {
		tests := []struct {
			redirect string
			want     string
		}{
			{"http://127.0.0.1:8888/spotify/callback", "/spotify/callback"},
			{"http://localhost:3000", "/callback"},
			{"http://localhost:3000/", "/callback"},
			{"", "/callback"},
		}
		for _, tt := range tests {
			h := NewOAuthHandler(&oauth2.Config{RedirectURL: tt.redirect}, "s")
			if got := h.Routes(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("redirect %q: expected %s, got %v", tt.redirect, tt.want, got)
			}
		}
	})

	t.Run("Exchange Success", func(t *testing.T) {
		h := NewOAuthHandler(testConfig("https://accounts.example.com/api/token"), "xyz")
		transport := tu.NewMockRoundTripper(tokenResponse(`{"access_token":"abc","refresh_token":"r","token_type":"Bearer","expires_in":3600}`), nil)

		rec := callback(h, "state=xyz&code=c0de", transport)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "connected") {
			t.Errorf("expected success page, got %q", rec.Body.String())
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token.AccessToken != "abc" || result.Token.RefreshToken != "r" {
			t.Errorf("unexpected token %+v", result.Token)
		}
	})

	t.Run("Invalid State", func(t *testing.T) {
		h := NewOAuthHandler(testConfig("https://accounts.example.com/api/token"), "xyz")

		rec := callback(h, "state=nope&code=c0de", tu.NewMockRoundTripper(nil, errors.New("unreachable")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := <-h.Result()
		if !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("Provider Denied", func(t *testing.T) {
		h := NewOAuthHandler(testConfig("https://accounts.example.com/api/token"), "xyz")

		rec := callback(h, "state=xyz&error=access_denied", tu.NewMockRoundTripper(nil, errors.New("unreachable")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := <-h.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Fatalf("expected access_denied, got %v", result.Error())
		}
	})

	t.Run("Exchange Failures", func(t *testing.T) {
		tests := []struct {
			name      string
			transport http.RoundTripper
		}{
			{"transport error", tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
			{"unreadable body", tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       &tu.FCloser{},
			}, nil)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := NewOAuthHandler(testConfig("https://accounts.example.com/api/token"), "xyz")

				rec := callback(h, "state=xyz&code=c0de", tt.transport)

				if rec.Code != http.StatusInternalServerError {
					t.Fatalf("expected 500, got %d", rec.Code)
				}
				result := <-h.Result()
				if !errors.Is(result.Error(), shared.ErrAuthFailed) {
					t.Fatalf("expected ErrAuthFailed, got %v", result.Error())
				}
			})
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		h := NewOAuthHandler(testConfig("https://accounts.example.com/api/token"), "xyz")
		transport := tu.NewMockRoundTripper(nil, errors.New("unreachable"))

		callback(h, "state=bad", transport)
		rec := callback(h, "state=xyz&code=c0de", transport)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 on replay, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already processed") {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("Middleware Order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(tag("outer"), tag("inner"))
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

		if strings.Join(order, ",") != "outer,inner,handler" {
			t.Fatalf("expected outer,inner,handler, got %v", order)
		}
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("Recoverer", func(t *testing.T) {
		r := NewBasicRouter()
		r.Use(Recoverer(log.New(io.Discard)), RequestLogger(log.New(io.Discard)))
		r.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"live","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()

	t.Run("Delivers Token", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(tokenServer.URL), "xyz")
		srv := NewCallbackServer("127.0.0.1:0", h, log.New(io.Discard))
		if err := srv.Start(); err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		go func() {
			resp, err := http.Get("http://" + srv.Addr() + "/spotify/callback?state=xyz&code=c0de")
			if err == nil {
				resp.Body.Close()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		token, err := srv.Wait(ctx)
		if err != nil {
			t.Fatalf("expected token, got %v", err)
		}
		if token.AccessToken != "live" {
			t.Errorf("expected access token live, got %q", token.AccessToken)
		}
	})

	t.Run("Context Done", func(t *testing.T) {
		h := NewOAuthHandler(testConfig(tokenServer.URL), "xyz")
		srv := NewCallbackServer("127.0.0.1:0", h, log.New(io.Discard))
		if err := srv.Start(); err != nil {
			t.Fatalf("failed to start: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := srv.Wait(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Address In Use", func(t *testing.T) {
		first := NewCallbackServer("127.0.0.1:0", NewOAuthHandler(testConfig(tokenServer.URL), "a"), log.New(io.Discard))
		if err := first.Start(); err != nil {
			t.Fatalf("failed to start: %v", err)
		}
		defer first.shutdown()

		second := NewCallbackServer(first.Addr(), NewOAuthHandler(testConfig(tokenServer.URL), "b"), log.New(io.Discard))
		if err := second.Start(); err == nil {
			t.Fatal("expected bind error")
		}
	})
}
