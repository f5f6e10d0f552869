package sharebox

import "errors"

var (
	// ErrNotFound is returned when an object does not exist in the bucket
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when the upload token does not match
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageWrite is returned when the backend fails to store an object
	ErrStorageWrite = errors.New("storage write failed")
	// ErrStorageRead is returned when the backend fails to read an object or its tags
	ErrStorageRead = errors.New("storage read failed")
	// ErrStorageTag is returned when the backend fails to tag an object
	ErrStorageTag = errors.New("storage tag failed")
	// ErrTimeout is returned when a backend call exceeds its deadline
	ErrTimeout = errors.New("storage timeout")
	// ErrKeyCollision is returned when no free key could be generated
	ErrKeyCollision = errors.New("key collision")
)
