package types

type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "ACTIVE"
	MembershipStatusExpired   MembershipStatus = "EXPIRED"
	MembershipStatusSuspended MembershipStatus = "SUSPENDED"
	MembershipStatusCancelled MembershipStatus = "CANCELLED"
)

type PlanType string

const (
	PlanTypeDaily     PlanType = "DAILY"
	PlanTypeWeekly    PlanType = "WEEKLY"
	PlanTypeMonthly   PlanType = "MONTHLY"
	PlanTypeQuarterly PlanType = "QUARTERLY"
	PlanTypeAnnual    PlanType = "ANNUAL"
)

// MembershipChangeReason is recorded on every membership log entry.
type MembershipChangeReason string

const (
	MembershipChangeReasonCreate  MembershipChangeReason = "create"
	MembershipChangeReasonRenew   MembershipChangeReason = "renew"
	MembershipChangeReasonCancel  MembershipChangeReason = "cancel"
	MembershipChangeReasonSuspend MembershipChangeReason = "suspend"
	MembershipChangeReasonResume  MembershipChangeReason = "resume"
)
