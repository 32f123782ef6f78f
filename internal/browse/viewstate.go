package browse

import "time"

// debounceQuiet is how long the search box must be quiet before a held
// keystroke commits.
const debounceQuiet = time.Second

// ViewState is one collection's browse position. Reducers take a value and
// return the next state; nothing mutates in place, so a render pass can
// replay them freely.
type ViewState struct {
	Search     string
	UserFilter string
	Order      Order
	Page       int
	PageSize   int

	// Search debounce bookkeeping. PendingSearch holds the newest
	// keystroke that arrived inside the quiet window; LastTypedAt is when
	// the previous keystroke was recorded.
	PendingSearch string
	HasPending    bool
	LastTypedAt   time.Time
}

func NewViewState() ViewState {
	return ViewState{Order: OrderDesc, Page: 1, PageSize: PageSize}
}

// TypeSearch records one keystroke in the search box. A keystroke arriving
// after a quiet gap of more than one second commits immediately and resets
// to page 1; one arriving faster is held pending until a later pass
// (FlushSearch). There is no timer: typing and then doing nothing keeps the
// value pending until the next interaction.
func (v ViewState) TypeSearch(s string, now time.Time) ViewState {
	prev := v.LastTypedAt
	v.LastTypedAt = now
	if s == v.Search {
		v.PendingSearch = ""
		v.HasPending = false
		return v
	}
	if prev.IsZero() || now.Sub(prev) > debounceQuiet {
		return v.commitSearch(s)
	}
	v.PendingSearch = s
	v.HasPending = true
	return v
}

// FlushSearch commits a pending search once the quiet window has passed.
// Renderers call it on every user-triggered pass.
func (v ViewState) FlushSearch(now time.Time) ViewState {
	if !v.HasPending || now.Sub(v.LastTypedAt) <= debounceQuiet {
		return v
	}
	return v.commitSearch(v.PendingSearch)
}

func (v ViewState) commitSearch(s string) ViewState {
	v.Search = s
	v.Page = 1
	v.PendingSearch = ""
	v.HasPending = false
	return v
}

// CommitSearchNow applies a held search without waiting out the quiet
// window: the user pressed enter, which is an explicit submit.
func (v ViewState) CommitSearchNow() ViewState {
	if !v.HasPending {
		return v
	}
	return v.commitSearch(v.PendingSearch)
}

// CancelSearch drops a held keystroke without committing it; the box falls
// back to the last committed value.
func (v ViewState) CancelSearch() ViewState {
	v.PendingSearch = ""
	v.HasPending = false
	return v
}

// SearchInput is what the search box should display: the held keystrokes
// when a commit is pending, the committed value otherwise.
func (v ViewState) SearchInput() string {
	if v.HasPending {
		return v.PendingSearch
	}
	return v.Search
}

// ToggleOrder flips the sort direction. The page stays put: re-sorting
// never changes the filtered count.
func (v ViewState) ToggleOrder() ViewState {
	v.Order = v.Order.Toggle()
	return v
}

// SetUserFilter commits immediately, unlike search.
func (v ViewState) SetUserFilter(id string) ViewState {
	if v.UserFilter == id {
		return v
	}
	v.UserFilter = id
	v.Page = 1
	return v
}

func (v ViewState) NextPage(totalPages int) ViewState {
	if v.Page < totalPages {
		v.Page++
	}
	return v
}

func (v ViewState) PrevPage() ViewState {
	if v.Page > 1 {
		v.Page--
	}
	return v
}

// ClampPage restores the page invariant after the filtered set changed:
// a page outside [1, TotalPages(filteredCount)] resets to 1.
func (v ViewState) ClampPage(filteredCount int) ViewState {
	if v.Page < 1 || v.Page > TotalPages(filteredCount, v.PageSize) {
		v.Page = 1
	}
	return v
}
