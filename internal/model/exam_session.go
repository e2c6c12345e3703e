package model

// SessionStatus enumerates practice session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

// AnswerStatus enumerates the per-question answer states.
type AnswerStatus string

const (
	AnswerUnanswered AnswerStatus = "UNANSWERED"
	AnswerSelected   AnswerStatus = "SELECTED"
	AnswerRevealed   AnswerStatus = "REVEALED"
)

// AnswerState is the answer recorded for one question of a session.
// Option is empty while the question is unanswered.
type AnswerState struct {
	Status AnswerStatus `json:"status"`
	Option string       `json:"option,omitempty"`
}

// Reveal is the feedback shown once a question's answer has been submitted.
type Reveal struct {
	QuestionID     string `json:"questionId"`
	SelectedOption string `json:"selectedOption"`
	CorrectOption  string `json:"correctOption"`
	IsCorrect      bool   `json:"isCorrect"`
	Rationale      string `json:"rationale"`
}

// Summary is exposed once a session completes.
type Summary struct {
	UserName            string `json:"userName"`
	QuestionsCompleted  int    `json:"questionsCompleted"`
	CorrectAnswers      int    `json:"correctAnswers"`
	TotalElapsedSeconds int    `json:"totalElapsedSeconds"`
	TotalElapsed        string `json:"totalElapsed"`
}

// QuestionView is a question as shown to the user. Correct and Rationale stay
// hidden until the answer is revealed.
type QuestionView struct {
	ID        string   `json:"id"`
	Prompt    string   `json:"question"`
	Options   []string `json:"options"`
	Correct   string   `json:"correct,omitempty"`
	Rationale string   `json:"rationale,omitempty"`
}

// SessionView is a point-in-time snapshot of a practice session.
type SessionView struct {
	ID                     string        `json:"id"`
	UserName               string        `json:"userName"`
	Status                 SessionStatus `json:"status"`
	Position               int           `json:"position"`
	Total                  int           `json:"total"`
	Current                *QuestionView `json:"current,omitempty"`
	Answer                 *AnswerState  `json:"answer,omitempty"`
	Reveal                 *Reveal       `json:"reveal,omitempty"`
	TotalElapsedSeconds    int           `json:"totalElapsedSeconds"`
	QuestionElapsedSeconds int           `json:"questionElapsedSeconds"`
	TotalElapsed           string        `json:"totalElapsed"`
	QuestionElapsed        string        `json:"questionElapsed"`
	Summary                *Summary      `json:"summary,omitempty"`
}

// StartSessionRequest is the payload for starting a practice session.
type StartSessionRequest struct {
	NumQuestions int    `json:"numQuestions"`
	Topic        string `json:"topic" binding:"omitempty,max=100"`
	UserName     string `json:"userName" binding:"omitempty,max=100"`
}

// SelectOptionRequest is the payload for choosing an answer.
type SelectOptionRequest struct {
	Option string `json:"option" binding:"required"`
}
