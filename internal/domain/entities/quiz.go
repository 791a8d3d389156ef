package entities

// SessionStatus is the lifecycle state of a quiz session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// Prompt is a read-only snapshot of the current question for rendering.
type Prompt struct {
	Number  int                 // 1-based question number
	Total   int                 // number of questions in the session
	Options [AnswerCount]string // answers in presentation order
}

// Tally is the final score of a completed session.
type Tally struct {
	Correct int
	Total   int
}
