package dto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/sma-compliance-report/internal/models"
)

// SentinelQuestion marks answers that carry phase bookkeeping instead of a response.
const SentinelQuestion = "percentage"

// GenerateReportRequest captures the POST /reports payload.
type GenerateReportRequest struct {
	Period *PeriodPayload `json:"period" validate:"required"`
}

// PeriodPayload mirrors the evaluation period exported by the evaluation system.
type PeriodPayload struct {
	Stage            string               `json:"stage" validate:"required"`
	Degree           string               `json:"degree" validate:"required"`
	InitDate         string               `json:"initDate"`
	Questions        []QuestionPayload    `json:"questions" validate:"required,min=1,dive"`
	Alternatives     []AlternativePayload `json:"alternatives" validate:"required,min=1,dive"`
	EvaluationGrades []GradePayload       `json:"evaluationGrades" validate:"required,min=1,dive"`
}

// QuestionPayload is one indicator definition.
type QuestionPayload struct {
	PersistenceID int    `json:"persistenceId"`
	Description   string `json:"description" validate:"required"`
}

// AlternativePayload is one answer choice definition.
type AlternativePayload struct {
	PersistenceID int    `json:"persistenceId"`
	Description   string `json:"description" validate:"required"`
}

// GradePayload groups syllabuses of one cycle/parallel.
type GradePayload struct {
	Number     int               `json:"number" validate:"min=1,max=10"`
	Parallel   string            `json:"parallel"`
	Syllabuses []SyllabusPayload `json:"syllabuses" validate:"required,min=1,dive"`
}

// SyllabusPayload carries per-phase sheet buckets ([0] midpoint, [1] final).
type SyllabusPayload struct {
	Denomination string           `json:"denomination" validate:"required"`
	Teacher      TeacherPayload   `json:"teacher"`
	Sheets       [][]SheetPayload `json:"sheets" validate:"max=2"`
}

// TeacherPayload names the syllabus teacher.
type TeacherPayload struct {
	Name string `json:"name"`
}

// SheetPayload is one student's submission.
type SheetPayload struct {
	Answers []AnswerPayload `json:"answers"`
}

// AnswerPayload references a question and an alternative by their ids as strings.
type AnswerPayload struct {
	Question    string `json:"question"`
	Alternative string `json:"alternative"`
}

// IngestStats reports what was discarded while converting a payload.
type IngestStats struct {
	Sheets         int
	DroppedAnswers int
}

// ToModel converts the payload into the typed period, parsing every answer
// reference exactly once. Answers whose references do not parse are dropped
// and counted; duplicate ids fail the conversion.
func (p PeriodPayload) ToModel(midpointLabel string) (models.Period, IngestStats, error) {
	var stats IngestStats
	period := models.Period{
		Stage:    p.Stage,
		Phase:    models.ResolveStage(p.Stage, midpointLabel),
		Degree:   p.Degree,
		InitDate: p.InitDate,
	}

	seenQuestions := make(map[int]struct{}, len(p.Questions))
	period.Indicators = make([]models.Indicator, 0, len(p.Questions))
	for i, q := range p.Questions {
		if _, dup := seenQuestions[q.PersistenceID]; dup {
			return models.Period{}, stats, fmt.Errorf("duplicate question id %d", q.PersistenceID)
		}
		seenQuestions[q.PersistenceID] = struct{}{}
		period.Indicators = append(period.Indicators, models.Indicator{
			ID:          q.PersistenceID,
			Description: q.Description,
			Position:    i + 1,
		})
	}

	seenAlternatives := make(map[int]struct{}, len(p.Alternatives))
	period.Alternatives = make([]models.Alternative, 0, len(p.Alternatives))
	for _, a := range p.Alternatives {
		if _, dup := seenAlternatives[a.PersistenceID]; dup {
			return models.Period{}, stats, fmt.Errorf("duplicate alternative id %d", a.PersistenceID)
		}
		seenAlternatives[a.PersistenceID] = struct{}{}
		period.Alternatives = append(period.Alternatives, models.Alternative{
			ID:          a.PersistenceID,
			Description: a.Description,
		})
	}

	period.Grades = make([]models.Grade, 0, len(p.EvaluationGrades))
	for _, g := range p.EvaluationGrades {
		grade := models.Grade{
			Number:     g.Number,
			Parallel:   g.Parallel,
			Syllabuses: make([]models.Syllabus, 0, len(g.Syllabuses)),
		}
		for _, s := range g.Syllabuses {
			syllabus := models.Syllabus{
				Denomination: s.Denomination,
				TeacherName:  s.Teacher.Name,
			}
			for phase, bucket := range s.Sheets {
				if phase >= models.PhaseCount {
					break
				}
				sheets := make([]models.Sheet, 0, len(bucket))
				for _, sheet := range bucket {
					answers, dropped := parseAnswers(sheet.Answers)
					stats.DroppedAnswers += dropped
					sheets = append(sheets, models.Sheet{Answers: answers})
				}
				syllabus.Sheets[phase] = sheets
			}
			stats.Sheets += syllabus.StudentCount(period.Phase)
			grade.Syllabuses = append(grade.Syllabuses, syllabus)
		}
		period.Grades = append(period.Grades, grade)
	}

	return period, stats, nil
}

func parseAnswers(raw []AnswerPayload) ([]models.Answer, int) {
	answers := make([]models.Answer, 0, len(raw))
	dropped := 0
	for _, a := range raw {
		answer, ok := ParseAnswer(a.Question, a.Alternative)
		if !ok {
			dropped++
			continue
		}
		answers = append(answers, answer)
	}
	return answers, dropped
}

// ParseAnswer turns the string references of one answer into its typed form.
// The second return value is false when a non-sentinel reference does not parse.
func ParseAnswer(question, alternative string) (models.Answer, bool) {
	question = strings.TrimSpace(question)
	if question == SentinelQuestion {
		return models.SentinelAnswer{}, true
	}
	questionID, err := strconv.Atoi(question)
	if err != nil {
		return nil, false
	}
	alternativeID, err := strconv.Atoi(strings.TrimSpace(alternative))
	if err != nil {
		return nil, false
	}
	return models.ScoredAnswer{QuestionID: questionID, AlternativeID: alternativeID}, true
}
