package grading

import "github.com/SAP-F-2025/quiz-service/internal/models"

// Score counts the questions answered correctly and the number of questions
// considered. Every question passed in counts toward max, answered or not;
// callers decide whether soft-deleted questions take part.
func Score(questions []models.Question, captured []models.CapturedAnswer) (score, max int) {
	byQuestion := GroupByQuestion(captured)
	for i := range questions {
		max++
		if IsCorrect(&questions[i], byQuestion[questions[i].ID]) {
			score++
		}
	}
	return score, max
}

// GroupByQuestion indexes captured rows by question id.
func GroupByQuestion(captured []models.CapturedAnswer) map[uint][]models.CapturedAnswer {
	grouped := make(map[uint][]models.CapturedAnswer)
	for _, c := range captured {
		grouped[c.QuestionID] = append(grouped[c.QuestionID], c)
	}
	return grouped
}

// IsCorrect grades one question against the rows captured for it.
func IsCorrect(q *models.Question, captured []models.CapturedAnswer) bool {
	switch q.Type {
	case models.SingleChoice, models.TrueFalse, models.MultipleChoice:
		return setEqual(selectedIDs(captured), toSet(q.CorrectAnswerIDs()))
	case models.ShortAnswer:
		reference, ok := q.Reference()
		if !ok {
			return false
		}
		for _, c := range captured {
			if c.Value != nil {
				return Equivalent(reference, *c.Value)
			}
		}
		return false
	default:
		return false
	}
}

func selectedIDs(captured []models.CapturedAnswer) map[uint]struct{} {
	m := make(map[uint]struct{}, len(captured))
	for _, c := range captured {
		if c.AnswerID != nil {
			m[*c.AnswerID] = struct{}{}
		}
	}
	return m
}

func toSet(ids []uint) map[uint]struct{} {
	m := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func setEqual(a, b map[uint]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
