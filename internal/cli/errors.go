package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

func errBadOrder(s string) error {
	return fmt.Errorf("unknown order: %s (want asc or desc)", s)
}

type adminProtectedError struct {
	username string
	id       string
}

func (e adminProtectedError) Error() string {
	return fmt.Sprintf("refusing to delete admin account %s (user %s)", e.username, e.id)
}

func errAdminProtected(username, id string) error {
	return adminProtectedError{username: username, id: id}
}
