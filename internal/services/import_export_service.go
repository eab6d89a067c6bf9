package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/quiz-service/internal/models"
	"github.com/SAP-F-2025/quiz-service/internal/repositories"
)

const (
	testSheet      = "Test"
	questionsSheet = "Questions"
	resultsSheet   = "Results"
)

var (
	testSheetHeaders     = []string{"field", "value"}
	questionSheetHeaders = []string{"question_no", "type", "content", "render_math", "answer", "is_correct"}
	resultSheetHeaders   = []string{"session_id", "user_id", "user_name", "completed", "score", "max_score"}
)

type importExportService struct {
	repo        repositories.Repository
	testService TestService
	logger      *slog.Logger
}

func NewImportExportService(repo repositories.Repository, testService TestService, logger *slog.Logger) ImportExportService {
	return &importExportService{
		repo:        repo,
		testService: testService,
		logger:      logger,
	}
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportTest(ctx context.Context, testID uint, userID string) ([]byte, error) {
	s.logger.Info("Exporting test", "test_id", testID, "user_id", userID)

	test, err := s.loadOwnedTest(ctx, testID, userID, "export")
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", testSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	writeRow(f, testSheet, 1, toCells(testSheetHeaders))
	for i, row := range testFieldRows(test) {
		writeRow(f, testSheet, i+2, row)
	}

	if _, err := f.NewSheet(questionsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	writeRow(f, questionsSheet, 1, toCells(questionSheetHeaders))
	rowIndex := 2
	for qi, q := range test.ActiveQuestions() {
		if len(q.Answers) == 0 {
			writeRow(f, questionsSheet, rowIndex, []interface{}{qi + 1, string(q.Type), q.Content, q.RenderMath, "", false})
			rowIndex++
			continue
		}
		for _, a := range q.Answers {
			writeRow(f, questionsSheet, rowIndex, []interface{}{qi + 1, string(q.Type), q.Content, q.RenderMath, a.Content, a.IsCorrect})
			rowIndex++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Test exported successfully", "test_id", testID, "questions", len(test.Questions))
	return buf.Bytes(), nil
}

func (s *importExportService) ExportTestResults(ctx context.Context, testID uint, userID string) ([]byte, error) {
	s.logger.Info("Exporting test results", "test_id", testID, "user_id", userID)

	if _, err := s.loadOwnedTest(ctx, testID, userID, "export_results"); err != nil {
		return nil, err
	}

	sessions, err := s.repo.Session().ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to get test sessions: %w", err)
	}

	names, err := s.userNames(ctx, sessions)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	writeRow(f, resultsSheet, 1, toCells(resultSheetHeaders))
	for i, sess := range sessions {
		writeRow(f, resultsSheet, i+2, []interface{}{
			sess.ID,
			sess.UserID,
			names[sess.UserID],
			sess.IsCompleted,
			sess.Score,
			sess.MaxScore,
		})
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Test results exported successfully", "test_id", testID, "sessions", len(sessions))
	return buf.Bytes(), nil
}

// ===== IMPORT OPERATIONS =====

// ImportTest reads a workbook in the ExportTest layout and creates a new test
// owned by userID. Answer rows sharing a question_no form one question.
func (s *importExportService) ImportTest(ctx context.Context, reader io.Reader, userID string) (uint, error) {
	s.logger.Info("Importing test", "user_id", userID)

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return 0, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	edit, err := parseWorkbook(f)
	if err != nil {
		return 0, err
	}

	id, err := s.testService.CreateTest(ctx, edit, userID)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Test imported successfully", "test_id", id, "questions", len(edit.Questions))
	return id, nil
}

func parseWorkbook(f *excelize.File) (*models.TestEdit, error) {
	if idx, _ := f.GetSheetIndex(testSheet); idx < 0 {
		return nil, validationError("file", fmt.Sprintf("missing %q sheet", testSheet), "required", nil)
	}
	if idx, _ := f.GetSheetIndex(questionsSheet); idx < 0 {
		return nil, validationError("file", fmt.Sprintf("missing %q sheet", questionsSheet), "required", nil)
	}

	testRows, err := f.GetRows(testSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	edit := &models.TestEdit{}
	if errs := applyTestFieldRows(edit, testRows); len(errs) > 0 {
		return nil, errs
	}

	questionRows, err := f.GetRows(questionsSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	questions, errs := parseQuestionRows(questionRows)
	if len(errs) > 0 {
		return nil, errs
	}
	edit.Questions = questions
	return edit, nil
}

func applyTestFieldRows(edit *models.TestEdit, rows [][]string) ValidationErrors {
	var errs ValidationErrors
	flag := func(field, raw string) bool {
		v, err := parseBool(raw)
		if err != nil {
			errs = append(errs, validationError(field, "must be true or false", "boolean", raw)...)
		}
		return v
	}

	for i, row := range rows {
		if i == 0 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(cell(row, 0)))
		value := cell(row, 1)
		switch field {
		case "":
		case "title":
			edit.Title = value
		case "description":
			edit.Description = value
		case "is_public":
			edit.IsPublic = flag(field, value)
		case "shuffle_questions":
			edit.ShuffleQuestions = flag(field, value)
		case "shuffle_answers":
			edit.ShuffleAnswers = flag(field, value)
		case "one_question_at_a_time":
			edit.OneQuestionAtATime = flag(field, value)
		case "tags":
			edit.Tags = splitTags(value)
		default:
			errs = append(errs, validationError(fmt.Sprintf("%s!A%d", testSheet, i+1), "unknown field", "unknown_field", field)...)
		}
	}
	return errs
}

func parseQuestionRows(rows [][]string) ([]models.QuestionEdit, ValidationErrors) {
	var (
		errs      ValidationErrors
		questions []models.QuestionEdit
	)
	index := make(map[int]int)

	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		at := func(col string) string { return fmt.Sprintf("%s!%s%d", questionsSheet, col, i+1) }

		no, err := strconv.Atoi(strings.TrimSpace(cell(row, 0)))
		if err != nil || no <= 0 {
			errs = append(errs, validationError(at("A"), "must be a positive number", "question_no", cell(row, 0))...)
			continue
		}
		renderMath, err := parseBool(cell(row, 3))
		if err != nil {
			errs = append(errs, validationError(at("D"), "must be true or false", "boolean", cell(row, 3))...)
			continue
		}
		correct, err := parseBool(cell(row, 5))
		if err != nil {
			errs = append(errs, validationError(at("F"), "must be true or false", "boolean", cell(row, 5))...)
			continue
		}

		pos, seen := index[no]
		if !seen {
			pos = len(questions)
			index[no] = pos
			questions = append(questions, models.QuestionEdit{
				Type:       models.QuestionType(strings.TrimSpace(cell(row, 1))),
				Content:    cell(row, 2),
				RenderMath: renderMath,
			})
		}
		if answer := cell(row, 4); answer != "" {
			questions[pos].Answers = append(questions[pos].Answers, models.AnswerEdit{Content: answer, IsCorrect: correct})
		}
	}
	return questions, errs
}

// ===== HELPERS =====

func (s *importExportService) loadOwnedTest(ctx context.Context, testID uint, userID, action string) (*models.Test, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, testID, false)
	if err != nil {
		return nil, mapRepoError(err, ErrTestNotFound)
	}
	if test.IsDeleted {
		return nil, ErrTestNotFound
	}
	if test.OwnerID != userID {
		return nil, NewPermissionError(userID, testID, "test", action, "not the test owner")
	}
	return test, nil
}

func (s *importExportService) userNames(ctx context.Context, sessions []*models.TestSession) (map[string]string, error) {
	ids := make([]string, 0, len(sessions))
	seen := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		if !seen[sess.UserID] {
			seen[sess.UserID] = true
			ids = append(ids, sess.UserID)
		}
	}

	users, err := s.repo.User().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names, nil
}

func testFieldRows(test *models.Test) [][]interface{} {
	return [][]interface{}{
		{"title", test.Title},
		{"description", test.Description},
		{"is_public", test.IsPublic},
		{"shuffle_questions", test.ShuffleQuestions},
		{"shuffle_answers", test.ShuffleAnswers},
		{"one_question_at_a_time", test.OneQuestionAtATime},
		{"tags", strings.Join(test.TagList(), ",")},
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, value := range values {
		f.SetCellValue(sheet, fmt.Sprintf("%c%d", 'A'+col, row), value)
	}
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseBool accepts the spellings spreadsheets produce for booleans. Blank
// reads as false.
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "0", "false", "no":
		return false, nil
	case "1", "true", "yes":
		return true, nil
	}
	return false, fmt.Errorf("invalid boolean %q", raw)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
