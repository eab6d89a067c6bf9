package models

import "time"

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
)

// IsChoice reports whether answers of this kind are selected rather than typed.
func (t QuestionType) IsChoice() bool {
	return t == SingleChoice || t == MultipleChoice || t == TrueFalse
}

func (t QuestionType) IsValid() bool {
	return t.IsChoice() || t == ShortAnswer
}

type Question struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	TestID     uint         `json:"test_id" gorm:"not null;index"`
	Content    string       `json:"content" gorm:"type:text;not null"`
	Type       QuestionType `json:"type" gorm:"not null;size:32"`
	RenderMath bool         `json:"render_math" gorm:"default:false"`
	Position   int          `json:"position" gorm:"not null;default:0"`
	IsDeleted  bool         `json:"-" gorm:"default:false;index"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	Answers []Answer `json:"answers" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectAnswerIDs returns the ids of answers flagged correct.
func (q *Question) CorrectAnswerIDs() []uint {
	ids := make([]uint, 0, 1)
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// Reference returns the reference value of a short-answer question.
func (q *Question) Reference() (string, bool) {
	if len(q.Answers) == 0 {
		return "", false
	}
	return q.Answers[0].Content, true
}

// Answer is one option of a choice question, or the single reference value of
// a short-answer question.
type Answer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"default:false"`
	Position   int       `json:"position" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Answer) TableName() string {
	return "answers"
}
