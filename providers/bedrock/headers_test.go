package bedrock

import (
	"net/http"
	"testing"
)

func TestMergeHeaders(t *testing.T) {
	tests := []struct {
		name    string
		sources []map[string]string
		want    map[string]string
	}{
		{
			name:    "no sources",
			sources: nil,
			want:    map[string]string{},
		},
		{
			name: "later source wins on collision",
			sources: []map[string]string{
				{"X-Custom": "default", "X-Only-Default": "a"},
				{"X-Custom": "per-call", "X-Only-Call": "b"},
			},
			want: map[string]string{
				"X-Custom":       "per-call",
				"X-Only-Default": "a",
				"X-Only-Call":    "b",
			},
		},
		{
			name: "nil source is skipped",
			sources: []map[string]string{
				nil,
				{"X-Custom": "value"},
				nil,
			},
			want: map[string]string{"X-Custom": "value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeHeaders(tt.sources...)
			if len(got) != len(tt.want) {
				t.Fatalf("mergeHeaders() = %v, want %v", got, tt.want)
			}
			for key, want := range tt.want {
				if got[key] != want {
					t.Errorf("merged[%q] = %q, want %q", key, got[key], want)
				}
			}
		})
	}
}

func TestApplyHeaders(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "https://example.com", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("X-Existing", "old")

	applyHeaders(req, map[string]string{
		"X-Existing": "new",
		"X-Added":    "value",
	})

	if got := req.Header.Get("X-Existing"); got != "new" {
		t.Errorf("X-Existing = %q, want applied value to replace", got)
	}
	if got := req.Header.Get("X-Added"); got != "value" {
		t.Errorf("X-Added = %q", got)
	}
}
