package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Flag is a boolean the backend serializes inconsistently: true/false,
// 0/1, or either of those quoted as a string. Absent and null mean false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "0", "false":
		*f = false
	case "1", "true":
		*f = true
	default:
		return fmt.Errorf("model: cannot decode %s as flag", string(data))
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

func (f Flag) Bool() bool { return bool(f) }

// ID arrives as either a JSON number or a string depending on the backend
// route. It normalizes to a string so filters can use exact equality.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*id = ""
		return nil
	}
	if len(s) >= 1 && s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*id = ID(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("model: cannot decode %s as id", string(data))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

type Document struct {
	ID           ID     `json:"id"`
	Filename     string `json:"filename"`
	FileType     string `json:"file_type,omitempty"`
	UploadTime   string `json:"upload_time"`
	UserID       ID     `json:"user_id"`
	IsVectorized Flag   `json:"is_vectorized"`
	Path         string `json:"path,omitempty"`
	Summary      string `json:"summary,omitempty"`
}

// Summarized reports whether the document carries a real summary.
// The backend uses "", "None" and "null" interchangeably for absent ones.
func (d Document) Summarized() bool {
	switch strings.TrimSpace(d.Summary) {
	case "", "None", "null":
		return false
	}
	return true
}

type User struct {
	ID           ID     `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	IsAdmin      Flag   `json:"is_admin"`
	IsActive     Flag   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
}

// GeminiKeySet reports whether the user has a Gemini key on file.
// Views show only this bit; the key value itself is never rendered.
func (u User) GeminiKeySet() bool {
	return strings.TrimSpace(u.GeminiAPIKey) != ""
}

// Timestamp layouts the backend emits: RFC 3339 with or without zone and
// fraction, and bare dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp decodes one of the backend's ISO-8601 variants.
// The second result is false when the string fits none of them.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
