package ai

// QuizQuestion is one multiple-choice question in a generated quiz.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Summary is the generated revision summary for a resource.
type Summary struct {
	Summary  []string `json:"summary"`
	KeyTerms []string `json:"keyTerms"`
}

// ExamQuestion is one predicted exam question with a model answer snippet.
type ExamQuestion struct {
	Question      string `json:"question"`
	AnswerSnippet string `json:"answerSnippet"`
	Marks         string `json:"marks"`
	Difficulty    string `json:"difficulty"`
}

// GroupMatch is the per-group entry the model returns for the study-group
// matching prompt. Only Reason and BestMeetingTime are trusted during
// enhancement; every other field comes from the computed ranking.
type GroupMatch struct {
	GroupID         string   `json:"groupId"`
	MatchScore      float64  `json:"matchScore"`
	Reason          string   `json:"reason"`
	BestMeetingTime string   `json:"bestMeetingTime"`
	CommonSubjects  []string `json:"commonSubjects"`
	GroupSize       int      `json:"groupSize"`
	AvailableSpots  int      `json:"availableSpots"`
}
