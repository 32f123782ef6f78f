package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken short-circuits authenticated calls made before login.
// No request leaves the process when it is returned.
var ErrNoToken = errors.New("api: no access token")

// Kind classifies a failed backend call.
type Kind int

const (
	KindTransport Kind = iota + 1 // request never reached the backend
	KindAuth                      // 401: credentials missing or expired
	KindForbidden                 // 403: authenticated but not allowed
	KindRequest                   // any other non-2xx
	KindDecode                    // 2xx with an unreadable body
)

// Reason narrows a 401 from /auth/token to the causes the backend encodes
// in its detail message.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingGeminiKey
	ReasonInvalidGeminiKey
	ReasonBadCredentials
	ReasonOther
)

// Error is the failure outcome of one backend call.
type Error struct {
	Kind   Kind
	Reason Reason
	Status int    // HTTP status, 0 when no response arrived
	Detail string // backend detail message, verbatim
	Op     string // "login", "list documents", ...
	Err    error  // underlying transport or decode error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
	case KindAuth:
		if e.Detail != "" {
			return fmt.Sprintf("%s: unauthorized: %s", e.Op, e.Detail)
		}
		return fmt.Sprintf("%s: unauthorized", e.Op)
	case KindForbidden:
		if e.Detail != "" {
			return fmt.Sprintf("%s: forbidden: %s", e.Op, e.Detail)
		}
		return fmt.Sprintf("%s: forbidden", e.Op)
	case KindDecode:
		return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Detail, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuth reports whether err is a 401 outcome.
func IsAuth(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindAuth
}

// IsTransport reports whether err means the backend was never reached.
func IsTransport(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindTransport
}

// classifyLoginDetail matches the 401 detail strings the auth endpoint
// emits. The backend is external and fixed, so the substrings are matched
// exactly as it words them.
func classifyLoginDetail(detail string) Reason {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "gemini api key is missing"):
		return ReasonMissingGeminiKey
	case strings.Contains(d, "your gemini api key is invalid"):
		return ReasonInvalidGeminiKey
	case strings.Contains(d, "incorrect email or password"):
		return ReasonBadCredentials
	}
	return ReasonOther
}

// LoginMessage words a login failure for display. Both renderers use it so
// the wording stays in one place.
func LoginMessage(err error) string {
	var ae *Error
	if !errors.As(err, &ae) {
		return "Login failed: " + err.Error()
	}
	switch ae.Reason {
	case ReasonMissingGeminiKey:
		return "Gemini API key is missing. Please update your profile with a valid key."
	case ReasonInvalidGeminiKey:
		return "Your Gemini API key is invalid. Please update your key or contact support."
	case ReasonBadCredentials:
		return "Incorrect email or password."
	}
	if ae.Kind == KindTransport {
		return "Could not connect to the API. Please ensure the backend is running."
	}
	detail := ae.Detail
	if detail == "" {
		detail = "Unknown error"
	}
	return "Login failed: " + detail
}
