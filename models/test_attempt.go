package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AnswerMap maps a question ID to the set of option IDs the user selected.
// It is stored as a single JSON column on the attempt row.
type AnswerMap map[uint][]uint

func (a AnswerMap) Value() (driver.Value, error) {
	if a == nil {
		a = AnswerMap{}
	}
	return json.Marshal(a)
}

func (a *AnswerMap) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*a = AnswerMap{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("unsupported answer map column type %T", value)
	}
}

// TestAttempt is a user's single permitted run at a test. The composite
// unique index is the actual enforcement of the one-attempt rule; the
// application-level lookup in the service is only an early exit.
type TestAttempt struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_user_test"`
	TestID      uint       `json:"test_id" gorm:"not null;uniqueIndex:idx_attempt_user_test"`
	Score       float64    `json:"score" gorm:"not null;default:0"`
	Answers     AnswerMap  `json:"answers" gorm:"type:jsonb"`
	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relationships
	User User `json:"user,omitempty"`
	Test Test `json:"test,omitempty"`
}
