package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractTokenFromHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi1", want: "abc.def.ghi1"},
		{name: "bearer with padding", header: "Bearer   abc1  ", want: "abc1"},
		{name: "missing header", header: "", want: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", want: ""},
		{name: "bare token without scheme", header: "abc.def.ghi1", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := ExtractTokenFromHeaders(r); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
