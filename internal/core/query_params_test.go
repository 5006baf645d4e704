// internal/core/query_params_test.go
package core

import (
	"net/url"
	"testing"
)

func TestParseListQueryOptions(t *testing.T) {
	testCases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
		wantErr    bool
		comment    string
	}{
		{"defaults", "", DefaultLimit, 0, false, ""},
		{"explicit limit", "limit=25", 25, 0, false, ""},
		{"explicit offset", "offset=10", DefaultLimit, 10, false, ""},
		{"limit and offset", "limit=5&offset=15", 5, 15, false, ""},
		{"limit at max", "limit=1000", MaxLimit, 0, false, ""},
		{"zero offset", "offset=0", DefaultLimit, 0, false, ""},
		{"unrelated params ignored", "admin=bob", DefaultLimit, 0, false, "filter params are not pagination"},
		{"limit not a number", "limit=abc", 0, 0, true, "non-integer limit"},
		{"limit zero", "limit=0", 0, 0, true, "limit below 1"},
		{"limit negative", "limit=-3", 0, 0, true, "negative limit"},
		{"limit above max", "limit=1001", 0, 0, true, "exceeds MaxLimit"},
		{"offset not a number", "offset=ten", 0, 0, true, "non-integer offset"},
		{"offset negative", "offset=-1", 0, 0, true, "negative offset"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("bad test query %q: %v", tc.query, err)
			}

			opts, err := ParseListQueryOptions(values)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseListQueryOptions(%q) expected error, got none. %s", tc.query, tc.comment)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseListQueryOptions(%q) unexpected error: %v. %s", tc.query, err, tc.comment)
			}
			if opts.Limit != tc.wantLimit {
				t.Errorf("ParseListQueryOptions(%q) Limit = %d; want %d", tc.query, opts.Limit, tc.wantLimit)
			}
			if opts.Offset != tc.wantOffset {
				t.Errorf("ParseListQueryOptions(%q) Offset = %d; want %d", tc.query, opts.Offset, tc.wantOffset)
			}
		})
	}
}
