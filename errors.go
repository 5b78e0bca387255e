package osa

import (
	"errors"
	"fmt"
)

var (
	ObjectNotFound       = errors.New("object not found")
	ErrNoSuchFile        = errors.New("NoSuchFile: the specified file does not exist")
	ErrWaitTimeout       = errors.New("timed out waiting for upload to complete")
	ErrUnknownPermission = errors.New("unknown permission")
	ErrACLNotSupported   = errors.New("store does not support access control policies")
)

// StoreError carries a backend-reported error code and message verbatim.
type StoreError struct {
	Code    string
	Message string
}

func NewStoreError(code string, message string) *StoreError {
	return &StoreError{Code: code, Message: message}
}

func (t *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", t.Code, t.Message)
}

// AsStoreError returns the StoreError inside err, or nil.
func AsStoreError(err error) *StoreError {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr
	}
	return nil
}

// OpError tags an error with the step of a fetch/merge/write sequence that
// produced it, so callers can tell a failed fetch from a failed write.
type OpError struct {
	Op  string
	Err error
}

func (t *OpError) Error() string {
	return t.Op + ": " + t.Err.Error()
}

func (t *OpError) Unwrap() error {
	return t.Err
}

const (
	OpFetch  = "fetch acl"
	OpWrite  = "write acl"
	OpVerify = "verify acl"
)
