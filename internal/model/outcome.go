package model

import "time"

type OutcomeKind string

const (
	OutcomeGreen OutcomeKind = "green"
	OutcomeRed   OutcomeKind = "red"
)

// Valid reports whether the kind is one of the two recognized values.
func (k OutcomeKind) Valid() bool {
	return k == OutcomeGreen || k == OutcomeRed
}

// OutcomeCounter is the single durable green/red tally. Exactly one row
// exists; all mutation goes through the outcome repository.
type OutcomeCounter struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"-"`
	Green     int64     `gorm:"column:green;not null;default:0" json:"green"`
	Red       int64     `gorm:"column:red;not null;default:0" json:"red"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (OutcomeCounter) TableName() string {
	return "outcome_counters"
}
