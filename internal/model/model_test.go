package model

import (
	"encoding/json"
	"testing"
)

func TestFlag_UnmarshalVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"1"`, true},
		{`"0"`, false},
		{`"true"`, true},
		{`"false"`, false},
		{`null`, false},
		{`""`, false},
	}

	for _, tt := range tests {
		var f Flag
		if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if f.Bool() != tt.want {
			t.Fatalf("flag %s = %v, want %v", tt.in, f.Bool(), tt.want)
		}
	}

	var f Flag
	if err := json.Unmarshal([]byte(`"maybe"`), &f); err == nil {
		t.Fatalf("expected error for %q", "maybe")
	}
}

func TestID_UnmarshalVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want ID
	}{
		{`7`, "7"},
		{`"7"`, "7"},
		{`"a1b2"`, "a1b2"},
		{`null`, ""},
	}

	for _, tt := range tests {
		var id ID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if id != tt.want {
			t.Fatalf("id %s = %q, want %q", tt.in, id, tt.want)
		}
	}
}

func TestDocument_DecodeMixedEncodings(t *testing.T) {
	t.Parallel()

	raw := `{
		"id": 12,
		"filename": "report.pdf",
		"file_type": "pdf",
		"upload_time": "2024-05-01T09:30:00",
		"user_id": "3",
		"is_vectorized": 1,
		"path": "/data/uploads/report.pdf",
		"summary": null
	}`

	var d Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	if d.ID != "12" || d.UserID != "3" {
		t.Fatalf("expected normalized ids 12/3; got %q/%q", d.ID, d.UserID)
	}
	if !d.IsVectorized.Bool() {
		t.Fatalf("expected is_vectorized=1 to decode as true")
	}
	if d.Summarized() {
		t.Fatalf("null summary must not count as summarized")
	}
}

func TestDocument_Summarized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		summary string
		want    bool
	}{
		{"", false},
		{"None", false},
		{"null", false},
		{"  ", false},
		{"A short abstract.", true},
	}

	for _, tt := range tests {
		d := Document{Summary: tt.summary}
		if got := d.Summarized(); got != tt.want {
			t.Fatalf("Summarized(%q)=%v, want %v", tt.summary, got, tt.want)
		}
	}
}

func TestUser_GeminiKeySet(t *testing.T) {
	t.Parallel()

	if (User{GeminiAPIKey: ""}).GeminiKeySet() {
		t.Fatalf("empty key must not count as set")
	}
	if !(User{GeminiAPIKey: "sk-123"}).GeminiKeySet() {
		t.Fatalf("non-empty key must count as set")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	ok := []string{
		"2024-05-01T09:30:00",
		"2024-05-01T09:30:00.123456",
		"2024-05-01T09:30:00Z",
		"2024-05-01T09:30:00+02:00",
		"2024-05-01 09:30:00",
		"2024-05-01",
	}
	for _, s := range ok {
		if _, parsed := ParseTimestamp(s); !parsed {
			t.Fatalf("expected %q to parse", s)
		}
	}

	bad := []string{"", "yesterday", "01/05/2024"}
	for _, s := range bad {
		if _, parsed := ParseTimestamp(s); parsed {
			t.Fatalf("expected %q to fail", s)
		}
	}
}
