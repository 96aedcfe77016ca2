package chain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	aptos "github.com/aptos-labs/aptos-go-sdk"
)

// Error is a failure reported by the Aptos node or the SDK for one operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("chain %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

func isNotFound(err error) bool {
	var httpErr *aptos.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	msg := err.Error()
	return strings.Contains(msg, "resource_not_found") || strings.Contains(msg, "account_not_found")
}
