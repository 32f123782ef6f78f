// Package stats computes dashboard aggregates from the cached collections.
// Every call recomputes from the raw records; nothing here is incremental.
package stats

import (
	"sort"
	"time"
	"unicode/utf8"

	"smartdoc-admin/internal/model"
)

// Overview is the counter block at the top of the dashboard.
type Overview struct {
	TotalDocuments int `json:"total_documents"`
	TotalUsers     int `json:"total_users"`
	Vectorized     int `json:"vectorized"`
	NotVectorized  int `json:"not_vectorized"`
	Summarized     int `json:"summarized"`
	NotSummarized  int `json:"not_summarized"`
	ActiveUsers    int `json:"active_users"`
	Admins         int `json:"admins"`
	GeminiKeys     int `json:"gemini_keys"`
}

func NewOverview(docs []model.Document, users []model.User) Overview {
	o := Overview{TotalDocuments: len(docs), TotalUsers: len(users)}
	for _, d := range docs {
		if d.IsVectorized.Bool() {
			o.Vectorized++
		} else {
			o.NotVectorized++
		}
		if d.Summarized() {
			o.Summarized++
		} else {
			o.NotSummarized++
		}
	}
	for _, u := range users {
		if u.IsActive.Bool() {
			o.ActiveUsers++
		}
		if u.IsAdmin.Bool() {
			o.Admins++
		}
		if u.GeminiKeySet() {
			o.GeminiKeys++
		}
	}
	return o
}

// Scale says how wide each histogram bucket is.
type Scale string

const (
	ScaleHourly Scale = "hourly"
	ScaleDaily  Scale = "daily"
)

type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Histogram groups records by timestamp. Buckets are hourly when every
// parsable timestamp falls on the same calendar date, daily otherwise, and
// are always sorted ascending by label. Records whose timestamp does not
// parse are excluded and counted in Invalid.
type Histogram struct {
	Scale   Scale    `json:"scale"`
	Day     string   `json:"day,omitempty"` // the shared date when Scale is hourly
	Buckets []Bucket `json:"buckets"`
	Invalid int      `json:"invalid"`
}

// BucketDocuments builds the upload-trend histogram from upload_time.
func BucketDocuments(docs []model.Document) Histogram {
	stamps := make([]string, len(docs))
	for i, d := range docs {
		stamps[i] = d.UploadTime
	}
	return bucketTimes(stamps)
}

// BucketUsers builds the signup-trend histogram from created_at.
func BucketUsers(users []model.User) Histogram {
	stamps := make([]string, len(users))
	for i, u := range users {
		stamps[i] = u.CreatedAt
	}
	return bucketTimes(stamps)
}

func bucketTimes(stamps []string) Histogram {
	var parsed []time.Time
	h := Histogram{Scale: ScaleDaily}
	for _, s := range stamps {
		t, ok := model.ParseTimestamp(s)
		if !ok {
			h.Invalid++
			continue
		}
		parsed = append(parsed, t)
	}
	if len(parsed) == 0 {
		return h
	}

	sameDay := true
	day := parsed[0].Format("2006-01-02")
	for _, t := range parsed[1:] {
		if t.Format("2006-01-02") != day {
			sameDay = false
			break
		}
	}

	counts := make(map[string]int)
	if sameDay {
		h.Scale = ScaleHourly
		h.Day = day
		for _, t := range parsed {
			counts[t.Format("15:00")]++
		}
	} else {
		for _, t := range parsed {
			counts[t.Format("2006-01-02")]++
		}
	}

	h.Buckets = make([]Bucket, 0, len(counts))
	for label, n := range counts {
		h.Buckets = append(h.Buckets, Bucket{Label: label, Count: n})
	}
	sort.Slice(h.Buckets, func(i, j int) bool { return h.Buckets[i].Label < h.Buckets[j].Label })
	return h
}

type UploaderCount struct {
	UserID model.ID `json:"user_id"`
	Count  int      `json:"count"`
}

// TopUploaders ranks users by document count, descending. Ties keep
// first-encounter order. Documents without an uploader id are skipped.
func TopUploaders(docs []model.Document, n int) []UploaderCount {
	counts := make(map[model.ID]int)
	var order []model.ID
	for _, d := range docs {
		if d.UserID == "" {
			continue
		}
		if _, seen := counts[d.UserID]; !seen {
			order = append(order, d.UserID)
		}
		counts[d.UserID]++
	}

	top := make([]UploaderCount, 0, len(order))
	for _, id := range order {
		top = append(top, UploaderCount{UserID: id, Count: counts[id]})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	return clip(top, n)
}

type SummaryStat struct {
	ID       model.ID `json:"id"`
	Filename string   `json:"filename"`
	Chars    int      `json:"chars"`
}

// TopSummaries ranks summarized documents by summary length in runes,
// descending. Ties keep first-encounter order.
func TopSummaries(docs []model.Document, n int) []SummaryStat {
	var top []SummaryStat
	for _, d := range docs {
		if !d.Summarized() {
			continue
		}
		top = append(top, SummaryStat{
			ID:       d.ID,
			Filename: d.Filename,
			Chars:    utf8.RuneCountInString(d.Summary),
		})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Chars > top[j].Chars })
	return clip(top, n)
}

func clip[T any](xs []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
