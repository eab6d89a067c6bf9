package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Test is an authored, ordered collection of questions owned by a user.
// Tests are never physically deleted; IsDeleted hides them from listings and edits.
type Test struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;size:200;index"`
	Description string         `json:"description" gorm:"type:text"`
	IsPublic    bool           `json:"is_public" gorm:"default:false;index"`
	Tags        datatypes.JSON `json:"tags" gorm:"type:jsonb"`

	// Presentation defaults copied into new sessions
	ShuffleQuestions   bool `json:"shuffle_questions" gorm:"default:false"`
	ShuffleAnswers     bool `json:"shuffle_answers" gorm:"default:false"`
	OneQuestionAtATime bool `json:"one_question_at_a_time" gorm:"default:false"`

	OwnerID   string    `json:"owner_id" gorm:"not null;index;size:255"`
	IsDeleted bool      `json:"-" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question    `json:"questions" gorm:"foreignKey:TestID"`
	Sessions  []TestSession `json:"-" gorm:"foreignKey:TestID"`
}

func (Test) TableName() string {
	return "tests"
}

// Presentation returns the test's default presentation flags.
func (t *Test) Presentation() Presentation {
	return Presentation{
		ShuffleQuestions:   t.ShuffleQuestions,
		ShuffleAnswers:     t.ShuffleAnswers,
		OneQuestionAtATime: t.OneQuestionAtATime,
	}
}

// ActiveQuestions returns the questions that are not soft-deleted, in stored order.
func (t *Test) ActiveQuestions() []Question {
	active := make([]Question, 0, len(t.Questions))
	for _, q := range t.Questions {
		if !q.IsDeleted {
			active = append(active, q)
		}
	}
	return active
}

// TagList decodes Tags. Malformed or empty tag data yields nil.
func (t *Test) TagList() []string {
	if len(t.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(t.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

// EncodeTags builds the jsonb value stored in Test.Tags.
func EncodeTags(tags []string) datatypes.JSON {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

// Presentation groups the three flags that control how a session is shown.
type Presentation struct {
	ShuffleQuestions   bool `json:"shuffle_questions"`
	ShuffleAnswers     bool `json:"shuffle_answers"`
	OneQuestionAtATime bool `json:"one_question_at_a_time"`
}
