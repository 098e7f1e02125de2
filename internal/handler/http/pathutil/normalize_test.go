package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"feed by id", "/feeds/123", "/feeds/:id"},
		{"reactivate", "/feeds/42/reactivate", "/feeds/:id/reactivate"},
		{"static list", "/feeds", "/feeds"},
		{"health", "/health", "/health"},
		{"trailing slash", "/feeds/", "/feeds"},
		{"root", "/", "/"},
		{"empty", "", "/"},
		{"non numeric id untouched", "/feeds/abc", "/feeds/abc"},
		{"large id", "/feeds/9876543210", "/feeds/:id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
