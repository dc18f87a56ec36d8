package main

import (
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"asset-library/internal/handlers"
)

func TestSetupRouter(t *testing.T) {
	router := setupRouter(handlers.New(nil))

	const id = "6f1c1e52-9a51-4c8e-bb0c-6f3c1f1d2a10"

	tests := []struct {
		method   string
		path     string
		wantKind string
		wantID   string
	}{
		{"GET", "/health", "", ""},
		{"HEAD", "/livez", "", ""},
		{"GET", "/version", "", ""},
		{"GET", "/api/progress", "", ""},
		{"POST", "/api/assets", "", ""},
		{"POST", "/api/textures", "", ""},
		{"POST", "/api/stockshots", "", ""},
		{"POST", "/api/stockshots/detect", "", ""},
		{"PUT", "/api/assets/" + id + "/thumbnail", "", id},
		{"POST", "/api/assets/" + id + "/thumbnail/render", "", id},
		{"GET", "/api/textures", "textures", ""},
		{"POST", "/api/stockshots/thumbnails/rebuild", "stockshots", ""},
		{"PATCH", "/api/assets/" + id, "assets", id},
		{"DELETE", "/api/textures/" + id, "textures", id},
		{"POST", "/api/stockshots/" + id + "/export", "stockshots", id},
		{"GET", "/api/assets/" + id + "/thumbnail", "assets", id},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var match mux.RouteMatch
			if !router.Match(httptest.NewRequest(tt.method, tt.path, nil), &match) || match.MatchErr != nil {
				t.Fatalf("no route (err %v)", match.MatchErr)
			}
			if got := match.Vars["kind"]; got != tt.wantKind {
				t.Errorf("kind = %q, want %q", got, tt.wantKind)
			}
			if got := match.Vars["id"]; got != tt.wantID {
				t.Errorf("id = %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestSetupRouterRejects(t *testing.T) {
	router := setupRouter(handlers.New(nil))

	tests := []struct {
		method string
		path   string
	}{
		{"PUT", "/api/textures"},
		{"POST", "/api/textures/x/thumbnail"},
		{"GET", "/api/assets/x/export"},
		{"GET", "/static/app.js"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var match mux.RouteMatch
			if router.Match(httptest.NewRequest(tt.method, tt.path, nil), &match) && match.MatchErr == nil {
				t.Errorf("unexpected route match")
			}
		})
	}
}
