// Package browse is the single source of truth for how collections are
// filtered, sorted and paginated. Renderers call into it on every pass and
// never re-derive the logic themselves.
package browse

import (
	"sort"
	"strings"

	"smartdoc-admin/internal/model"
)

// PageSize is fixed across collections and renderers.
const PageSize = 8

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Toggle flips the direction. Anything unrecognized counts as desc, the
// default, so toggling it yields asc.
func (o Order) Toggle() Order {
	if o == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}

func ParseOrder(s string) (Order, bool) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case OrderAsc:
		return OrderAsc, true
	case OrderDesc, "":
		return OrderDesc, true
	}
	return OrderDesc, false
}

// FilterDocuments keeps documents whose filename contains search
// (case-insensitive) and whose uploader id equals userID exactly. Empty
// values pass everything. The input slice is never mutated.
func FilterDocuments(docs []model.Document, search, userID string) []model.Document {
	if search == "" && userID == "" {
		return docs
	}
	needle := strings.ToLower(search)
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if needle != "" && !strings.Contains(strings.ToLower(d.Filename), needle) {
			continue
		}
		if userID != "" && string(d.UserID) != userID {
			continue
		}
		out = append(out, d)
	}
	return out
}

// SortDocuments orders by upload_time compared as strings; the backend
// emits sortable ISO-8601 so lexicographic equals chronological. Ties keep
// their input order. Returns a copy.
func SortDocuments(docs []model.Document, order Order) []model.Document {
	out := make([]model.Document, len(docs))
	copy(out, docs)
	sort.SliceStable(out, func(i, j int) bool {
		if order == OrderAsc {
			return out[i].UploadTime < out[j].UploadTime
		}
		return out[i].UploadTime > out[j].UploadTime
	})
	return out
}

// SortUsers is SortDocuments for users, keyed on created_at.
func SortUsers(users []model.User, order Order) []model.User {
	out := make([]model.User, len(users))
	copy(out, users)
	sort.SliceStable(out, func(i, j int) bool {
		if order == OrderAsc {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

// TotalPages is max(1, ceil(n/pageSize)), so an empty collection still
// renders as "Page 1/1".
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	pages := n / pageSize
	if n%pageSize > 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate slices one 1-based page out of items. An out-of-range page is
// treated as page 1, the same rule ClampPage applies, so a shrunken
// collection never renders an empty page.
func Paginate[T any](items []T, page, pageSize int) ([]T, int) {
	if pageSize <= 0 {
		pageSize = PageSize
	}
	total := TotalPages(len(items), pageSize)
	if page < 1 || page > total {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil, total
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], total
}

// UniqueUploaderIDs returns the distinct uploader ids sorted
// lexicographically. They feed the user-filter choices.
func UniqueUploaderIDs(docs []model.Document) []string {
	seen := make(map[string]struct{}, len(docs))
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		id := string(d.UserID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
