package models

import "time"

// TestSession is one user's attempt at a test. It stores only presentation
// flags and references; the test content is re-read on every render.
type TestSession struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	TestID uint   `json:"test_id" gorm:"not null;index"`
	UserID string `json:"user_id" gorm:"not null;index;size:255"`

	ShuffleQuestions   bool `json:"shuffle_questions"`
	ShuffleAnswers     bool `json:"shuffle_answers"`
	OneQuestionAtATime bool `json:"one_question_at_a_time"`

	IsCompleted bool       `json:"is_completed" gorm:"default:false;index"`
	Score       int        `json:"score" gorm:"default:0"`
	MaxScore    int        `json:"max_score" gorm:"default:0"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	CapturedAnswers []CapturedAnswer `json:"-" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (TestSession) TableName() string {
	return "test_sessions"
}

func (s *TestSession) Presentation() Presentation {
	return Presentation{
		ShuffleQuestions:   s.ShuffleQuestions,
		ShuffleAnswers:     s.ShuffleAnswers,
		OneQuestionAtATime: s.OneQuestionAtATime,
	}
}

func (s *TestSession) SetPresentation(p Presentation) {
	s.ShuffleQuestions = p.ShuffleQuestions
	s.ShuffleAnswers = p.ShuffleAnswers
	s.OneQuestionAtATime = p.OneQuestionAtATime
}

// CapturedAnswer records what a user selected or typed for one question in one
// session. Choice questions get one row per selected answer; short-answer
// questions get a single row with Value set.
type CapturedAnswer struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SessionID  uint      `json:"session_id" gorm:"not null;index:idx_capture_session_question"`
	QuestionID uint      `json:"question_id" gorm:"not null;index:idx_capture_session_question"`
	AnswerID   *uint     `json:"answer_id" gorm:"index"`
	Value      *string   `json:"value" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CapturedAnswer) TableName() string {
	return "captured_answers"
}

// IsFreeText reports whether the row holds a typed value rather than a selection.
func (c *CapturedAnswer) IsFreeText() bool {
	return c.Value != nil
}
