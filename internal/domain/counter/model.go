// Package counter provides per-name sequential numbering used to assign
// consecutive numbers to documents of the same concept.
package counter

// Counter is the persisted high-water mark for one sequence.
type Counter struct {
	Name  string `db:"name" json:"name" bson:"name"`
	Value int64  `db:"value" json:"value" bson:"value"`
}

// CreateOutcome tells the allocator whether its create call won the race.
type CreateOutcome int

const (
	// Created means this caller inserted the counter.
	Created CreateOutcome = iota + 1
	// AlreadyExists means the unique constraint rejected the insert because
	// another caller created the counter first. The stored value is untouched.
	AlreadyExists
)

func (o CreateOutcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Allocation outcomes reported to an Observer.
const (
	OutcomeExisting = "existing"
	OutcomeCreated  = "created"
	OutcomeRaceLost = "race_lost"
	OutcomeError    = "error"
)
