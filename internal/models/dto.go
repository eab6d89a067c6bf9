package models

// TestEdit is the client-submitted shape of a test, used both for creation and
// for reconciliation against a persisted test.
type TestEdit struct {
	Title              string         `json:"title" validate:"max=200"`
	Description        string         `json:"description" validate:"max=2000"`
	IsPublic           bool           `json:"is_public"`
	ShuffleQuestions   bool           `json:"shuffle_questions"`
	ShuffleAnswers     bool           `json:"shuffle_answers"`
	OneQuestionAtATime bool           `json:"one_question_at_a_time"`
	Tags               []string       `json:"tags" validate:"max=20,dive,max=50"`
	Questions          []QuestionEdit `json:"questions" validate:"dive"`
}

// QuestionEdit carries an ID of zero for new questions.
type QuestionEdit struct {
	ID         uint         `json:"id,omitempty"`
	Content    string       `json:"content" validate:"max=5000"`
	Type       QuestionType `json:"type" validate:"question_kind"`
	RenderMath bool         `json:"render_math"`
	Answers    []AnswerEdit `json:"answers" validate:"max=20,dive"`
}

type AnswerEdit struct {
	ID        uint   `json:"id,omitempty"`
	Content   string `json:"content" validate:"max=1000"`
	IsCorrect bool   `json:"is_correct"`
}

// SubmittedAnswer is one question's worth of input from a test taker.
// AnswerIDs is used for choice questions, Value for short-answer questions.
type SubmittedAnswer struct {
	QuestionID uint    `json:"question_id" validate:"required"`
	AnswerIDs  []uint  `json:"answer_ids"`
	Value      *string `json:"value"`
}

// RenderedTest is the view of a session handed to the test taker.
type RenderedTest struct {
	SessionID   uint   `json:"session_id"`
	TestID      uint   `json:"test_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Presentation
	IsCompleted bool               `json:"is_completed"`
	Score       int                `json:"score"`
	MaxScore    int                `json:"max_score"`
	Questions   []RenderedQuestion `json:"questions"`
}

type RenderedQuestion struct {
	ID         uint             `json:"id"`
	Content    string           `json:"content"`
	Type       QuestionType     `json:"type"`
	RenderMath bool             `json:"render_math"`
	Answers    []RenderedAnswer `json:"answers"`
	// Value is the previously typed text of a short-answer question.
	Value *string `json:"value,omitempty"`
}

// RenderedAnswer exposes IsCorrect only once the session is completed.
type RenderedAnswer struct {
	ID        uint   `json:"id"`
	Content   string `json:"content"`
	Selected  bool   `json:"selected"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// TestResultRow is one session line of a results export.
type TestResultRow struct {
	SessionID   uint
	UserID      string
	IsCompleted bool
	Score       int
	MaxScore    int
}
