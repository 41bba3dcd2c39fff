package valueobjects

// DisputeStatus mirrors Stripe's dispute status values.
type DisputeStatus string

const (
	DisputeStatusWarningNeedsResponse DisputeStatus = "warning_needs_response"
	DisputeStatusWarningUnderReview   DisputeStatus = "warning_under_review"
	DisputeStatusWarningClosed        DisputeStatus = "warning_closed"
	DisputeStatusNeedsResponse        DisputeStatus = "needs_response"
	DisputeStatusUnderReview          DisputeStatus = "under_review"
	DisputeStatusWon                  DisputeStatus = "won"
	DisputeStatusLost                 DisputeStatus = "lost"
)

var validDisputeStatuses = map[DisputeStatus]bool{
	DisputeStatusWarningNeedsResponse: true,
	DisputeStatusWarningUnderReview:   true,
	DisputeStatusWarningClosed:        true,
	DisputeStatusNeedsResponse:        true,
	DisputeStatusUnderReview:          true,
	DisputeStatusWon:                  true,
	DisputeStatusLost:                 true,
}

func (s DisputeStatus) IsValid() bool {
	return validDisputeStatuses[s]
}

func (s DisputeStatus) IsClosed() bool {
	return s == DisputeStatusWon || s == DisputeStatusLost || s == DisputeStatusWarningClosed
}

// AcceptsEvidence reports whether evidence can still be submitted.
func (s DisputeStatus) AcceptsEvidence() bool {
	return s == DisputeStatusNeedsResponse || s == DisputeStatusWarningNeedsResponse
}

func (s DisputeStatus) String() string {
	return string(s)
}
