package book

import "time"

// Type distinguishes circulating books from reference-only ("consulta")
// material, which lends for a shorter period.
type Type string

const (
	TypeNormal   Type = "normal"
	TypeConsulta Type = "consulta"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeNormal, TypeConsulta:
		return true
	default:
		return false
	}
}

// LoanPeriod is 7 days for reference material and 14 days for everything
// else, including unknown types.
func (t Type) LoanPeriod() time.Duration {
	return time.Duration(t.LoanPeriodDays()) * 24 * time.Hour
}

func (t Type) LoanPeriodDays() int {
	if t == TypeConsulta {
		return 7
	}
	return 14
}

type CopyStatus string

const (
	CopyAvailable CopyStatus = "available"
	CopyBorrowed  CopyStatus = "borrowed"
)

func (s CopyStatus) String() string {
	return string(s)
}

func (s CopyStatus) IsValid() bool {
	switch s {
	case CopyAvailable, CopyBorrowed:
		return true
	default:
		return false
	}
}
