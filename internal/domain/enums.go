package domain

// SubmissionKind identifies the kind of paperwork a record represents.
// Values match the labels the filing organizations see on the forms.
type SubmissionKind string

const (
	KindActivityRequest SubmissionKind = "Request to Conduct Activity"
	KindAccomplishment  SubmissionKind = "Accomplishment Report"
	KindLiquidation     SubmissionKind = "Liquidation Report"
	KindLetterOfAppeal  SubmissionKind = "Letter of Appeal"
)

// AllowedSubmissionKinds is the set of kinds accepted on the submit endpoint.
var AllowedSubmissionKinds = map[SubmissionKind]bool{
	KindActivityRequest: true,
	KindAccomplishment:  true,
	KindLiquidation:     true,
	KindLetterOfAppeal:  true,
}

// SubmissionStatus is the review status stored on a single submission record.
type SubmissionStatus string

const (
	StatusPending     SubmissionStatus = "Pending"
	StatusForRevision SubmissionStatus = "For Revision"
	StatusApproved    SubmissionStatus = "Approved"
	StatusRejected    SubmissionStatus = "Rejected"
)

// Terminal reports whether the status ends the review cycle for the record.
// For Revision is non-terminal: it demands a resubmission under the same
// (title, kind) key.
func (s SubmissionStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ReportKind identifies which post-activity report a deadline applies to.
type ReportKind string

const (
	ReportAccomplishment ReportKind = "accomplishment"
	ReportLiquidation    ReportKind = "liquidation"
)

// SubmissionKind returns the submission kind that satisfies a deadline of
// this report kind.
func (k ReportKind) SubmissionKind() SubmissionKind {
	if k == ReportLiquidation {
		return KindLiquidation
	}
	return KindAccomplishment
}

// ResolvedStatus is the folded status of all records for one
// (activity title, kind, organization) key.
type ResolvedStatus string

const (
	ResolvedNone     ResolvedStatus = "no_submission"
	ResolvedPending  ResolvedStatus = "pending"
	ResolvedApproved ResolvedStatus = "approved"
)

// MarkerStatus is the submission status attached to a synthesized deadline
// marker. pending means the owning organization itself has filed and awaits
// review; pending_review means a subordinate organization has filed and the
// viewer is the one expected to review it.
type MarkerStatus string

const (
	MarkerNoSubmission  MarkerStatus = "no_submission"
	MarkerPending       MarkerStatus = "pending"
	MarkerPendingReview MarkerStatus = "pending_review"
)

// AppealState is the derived letter-of-appeal state per (event, organization).
type AppealState string

const (
	AppealNone              AppealState = "none"
	AppealOwnPending        AppealState = "own-submitted-pending"
	AppealOwnApproved       AppealState = "own-approved"
	AppealRejectedHeld      AppealState = "appeal-rejected"
	AppealChildSubmitted    AppealState = "child-submitted"
	AppealChildNotSubmitted AppealState = "child-not-submitted"
)

// ReviewAction is a reviewer's decision on a submission record.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewRevise  ReviewAction = "revise"
	ReviewReject  ReviewAction = "reject"
)

// StatusFor maps a review action to the submission status it produces.
func (a ReviewAction) StatusFor() (SubmissionStatus, bool) {
	switch a {
	case ReviewApprove:
		return StatusApproved, true
	case ReviewRevise:
		return StatusForRevision, true
	case ReviewReject:
		return StatusRejected, true
	default:
		return "", false
	}
}
