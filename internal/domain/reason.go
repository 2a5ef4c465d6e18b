package domain

// Reason is the declared purpose of a collect.
type Reason string

// Allowed collect reasons
const (
	ReasonBirthday Reason = "birthday"
	ReasonWedding  Reason = "wedding"
	ReasonCharity  Reason = "charity"
)

// Valid reports whether r is one of the allowed reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonBirthday, ReasonWedding, ReasonCharity:
		return true
	}
	return false
}
