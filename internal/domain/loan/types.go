package loan

type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusReturned:
		return true
	default:
		return false
	}
}

// RenewalLimit is a hard cap: each loan may be renewed exactly once.
const RenewalLimit = 1
