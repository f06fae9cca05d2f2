package model

import "errors"

// ErrInvalidStatus is returned when a review action names a target state
// outside {signed, rejected}.
var ErrInvalidStatus = errors.New("invalid status")

// Status is the review state of a placement.
type Status string

const (
	StatusPending  Status = "pending"
	StatusSigned   Status = "signed"
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status is a review outcome. Note that the
// lifecycle still permits moving between terminal states; reviewers may
// revise a decision at any time.
func (s Status) Terminal() bool {
	return s == StatusSigned || s == StatusRejected
}

// ParseReviewStatus validates a requested review target. Only the two
// terminal states are legal targets; "pending" cannot be requested back.
func ParseReviewStatus(v string) (Status, error) {
	switch Status(v) {
	case StatusSigned, StatusRejected:
		return Status(v), nil
	default:
		return "", ErrInvalidStatus
	}
}
