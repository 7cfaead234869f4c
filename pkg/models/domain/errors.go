package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset means the backend is up but ingestion has not produced
	// any rows yet. It is treated exactly like "not ready".
	ErrEmptyDataset = errors.New("dataset is empty, ingestion incomplete")
	// ErrReadinessTimeout is returned when a bounded readiness wait expires.
	ErrReadinessTimeout = errors.New("readiness timed out")
)

// NetworkError is a transport failure or timeout.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFoundError is a 4xx answer from the API.
type NotFoundError struct {
	Resource   string
	StatusCode int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s (status %d)", e.Resource, e.StatusCode)
}

// ServerError is a 5xx answer or a payload that does not match the contract.
type ServerError struct {
	Resource   string
	StatusCode int
	Err        error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server error: %s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("server error: %s (status %d)", e.Resource, e.StatusCode)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsServer(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

// IsNotReady reports errors that mean "retry later" during readiness polling.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrEmptyDataset) || IsNotFound(err)
}
