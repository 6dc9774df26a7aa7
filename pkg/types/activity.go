package types

type ActivityKind string

const (
	ActivityKindSale    ActivityKind = "sale"
	ActivityKindCheckIn ActivityKind = "check_in"
)
