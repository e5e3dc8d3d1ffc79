package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantPage     int
		wantPageSize int
	}{
		{name: "defaults", url: "/assignments", wantPage: 1, wantPageSize: 20},
		{name: "explicit", url: "/assignments?page=3&page_size=50", wantPage: 3, wantPageSize: 50},
		{name: "zero page falls back", url: "/assignments?page=0", wantPage: 1, wantPageSize: 20},
		{name: "garbage falls back", url: "/assignments?page=abc&page_size=-1", wantPage: 1, wantPageSize: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			page, pageSize := ParsePagination(r)
			if page != tt.wantPage || pageSize != tt.wantPageSize {
				t.Errorf("ParsePagination() = (%d, %d), want (%d, %d)", page, pageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}
