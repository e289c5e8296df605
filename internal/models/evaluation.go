package models

// Period is one evaluation period as submitted for tabulation. It is treated
// as immutable once ingested.
type Period struct {
	Stage        string
	Phase        Phase
	Degree       string
	InitDate     string
	Indicators   []Indicator
	Alternatives []Alternative
	Grades       []Grade
}

// Indicator is one evaluated statement. Position is 1-based and follows input order.
type Indicator struct {
	ID          int
	Description string
	Position    int
}

// Alternative is one selectable answer choice.
type Alternative struct {
	ID          int
	Description string
}

// Grade groups the syllabuses of one cycle and parallel.
type Grade struct {
	Number     int
	Parallel   string
	Syllabuses []Syllabus
}

// Syllabus is one subject evaluated within a grade. Sheets holds one bucket
// per phase; buckets are never merged.
type Syllabus struct {
	Denomination string
	TeacherName  string
	Sheets       [PhaseCount][]Sheet
}

// SheetsFor returns the sheets recorded for the given phase.
func (s Syllabus) SheetsFor(p Phase) []Sheet {
	return s.Sheets[p.SheetIndex()]
}

// StudentCount is the number of sheets recorded for the phase.
func (s Syllabus) StudentCount(p Phase) int {
	return len(s.SheetsFor(p))
}

// Sheet is one student's set of answers for one phase.
type Sheet struct {
	Answers []Answer
}

// Answer is either a ScoredAnswer or a SentinelAnswer.
type Answer interface {
	isAnswer()
}

// ScoredAnswer is a countable response to an indicator.
type ScoredAnswer struct {
	QuestionID    int
	AlternativeID int
}

// SentinelAnswer marks bookkeeping entries that never count toward any tally.
type SentinelAnswer struct{}

func (ScoredAnswer) isAnswer()   {}
func (SentinelAnswer) isAnswer() {}

var gradeNames = map[int]string{
	1:  "Primer",
	2:  "Segundo",
	3:  "Tercer",
	4:  "Cuarto",
	5:  "Quinto",
	6:  "Sexto",
	7:  "Séptimo",
	8:  "Octavo",
	9:  "Noveno",
	10: "Décimo",
}

// GradeName returns the ordinal name of a grade number in 1..10, or "" otherwise.
func GradeName(number int) string {
	return gradeNames[number]
}

// TotalStudents sums the phase sheet counts across all syllabuses of the grade.
func (g Grade) TotalStudents(p Phase) int {
	total := 0
	for _, s := range g.Syllabuses {
		total += s.StudentCount(p)
	}
	return total
}
