package domain

import "fmt"

// DuplicatePolicy decides what ingestion does when a document with the
// same source already exists.
type DuplicatePolicy int

// Duplicate resolution policies.
const (
	// DuplicateReject fails the ingestion with ErrDuplicateDocument.
	DuplicateReject DuplicatePolicy = iota

	// DuplicateSkip returns the existing document unchanged. The loader
	// is never invoked.
	DuplicateSkip

	// DuplicateReplace deletes the existing document and its chunks,
	// then ingests the source afresh.
	DuplicateReplace
)

// String returns the wire name of the policy.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateSkip:
		return "skip"
	case DuplicateReplace:
		return "replace"
	}
	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

// ParseDuplicatePolicy parses a wire name. An empty string defaults to
// reject.
func ParseDuplicatePolicy(name string) (DuplicatePolicy, error) {
	switch name {
	case "", "reject":
		return DuplicateReject, nil
	case "skip":
		return DuplicateSkip, nil
	case "replace":
		return DuplicateReplace, nil
	}
	return DuplicateReject, fmt.Errorf("%w: duplicate policy %q", ErrUnsupportedType, name)
}
