package ai

import (
	"fmt"
	"strings"
)

// MatchPreferences carries the student context embedded in the group-matching
// prompt.
type MatchPreferences struct {
	Subjects       []string
	Topics         []string
	PreferredTimes []string
	StudyPace      string
	MeetingType    string
}

// QuizPrompt asks for n multiple-choice questions over the study material.
func QuizPrompt(resourceText string, numQuestions int) string {
	if numQuestions <= 0 {
		numQuestions = 5
	}
	return fmt.Sprintf(`Generate %d quiz questions based on the following study material. Return a JSON array with this structure:
[
  {
    "question": "question text",
    "options": ["option1", "option2", "option3", "option4"],
    "correctAnswer": 0,
    "explanation": "brief explanation"
  }
]

Study Material:
%s

Return only valid JSON, no markdown formatting.
`, numQuestions, resourceText)
}

// SummaryPrompt asks for 6-8 revision bullet points plus key terms.
func SummaryPrompt(resourceText string) string {
	return fmt.Sprintf(`Summarize the following study notes into 6-8 key bullet points for quick revision. Return a JSON object with this structure:
{
  "summary": [
    "bullet point 1",
    "bullet point 2"
  ],
  "keyTerms": ["term1", "term2"]
}

Study Notes:
%s

Return only valid JSON, no markdown formatting.
`, resourceText)
}

// ExamQuestionsPrompt asks for the five most likely exam questions with model
// answer snippets for the given subject.
func ExamQuestionsPrompt(resourceText, subject string) string {
	return fmt.Sprintf(`Based on the following study material for %s, generate the top 5 most likely exam questions with model answer snippets. Return a JSON array with this structure:
[
  {
    "question": "exam question text",
    "answerSnippet": "key points for the answer",
    "marks": "estimated marks",
    "difficulty": "easy|medium|hard"
  }
]

Study Material:
%s

Return only valid JSON, no markdown formatting.
`, subject, resourceText)
}

// MatchGroupsPrompt asks the model to rank study groups for a student.
func MatchGroupsPrompt(p MatchPreferences) string {
	return fmt.Sprintf(`Match a student with study groups based on their preferences. Return a JSON array with this structure:
[
  {
    "groupId": "group-id",
    "matchScore": 0.85,
    "reason": "why this is a good match",
    "bestMeetingTime": "suggested meeting time",
    "commonSubjects": ["subject1", "subject2"],
    "groupSize": 5,
    "availableSpots": 3
  }
]

Student Preferences:
- Subjects: %s
- Topics: %s
- Preferred Times: %s
- Study Pace: %s
- Meeting Type: %s

Return only valid JSON, no markdown formatting.
`,
		strings.Join(p.Subjects, ", "),
		strings.Join(p.Topics, ", "),
		strings.Join(p.PreferredTimes, ", "),
		p.StudyPace,
		p.MeetingType,
	)
}
