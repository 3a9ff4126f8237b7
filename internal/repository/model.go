package repository

import "time"

type TaskStatus string

const (
	TaskStatusRecorded   TaskStatus = "recorded"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusScored     TaskStatus = "scored"
	TaskStatusError      TaskStatus = "error"
)

// taskTransitions is the full lifecycle: recorded -> processing -> scored|error.
// Terminal states have no exits; a resubmission is a new task, not a mutation.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusRecorded:   {TaskStatusProcessing},
	TaskStatusProcessing: {TaskStatusScored, TaskStatusError},
	TaskStatusScored:     {},
	TaskStatusError:      {},
}

func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s TaskStatus) IsTerminal() bool {
	return len(taskTransitions[s]) == 0
}

type Task struct {
	ID           string
	SessionID    string
	UserID       string
	TaskType     int
	PromptID     string
	PromptText   string
	PrepSeconds  int
	SpeakSeconds int
	AudioPath    *string
	Transcript   *string
	Status       TaskStatus
	CreatedAt    time.Time
}

type Feedback struct {
	ID          string
	TaskID      string
	UserID      string
	Rubric      []byte
	Band        int
	Strengths   []string
	Issues      []string
	Suggestions []byte
	Prosody     []byte
	CreatedAt   time.Time
}

type Prompt struct {
	ID         string
	TaskType   int
	Text       string
	Difficulty int
	Active     bool
	Locale     string
	CreatedAt  time.Time
}

type Profile struct {
	UserID            string
	DisplayName       string
	FreeCreditGranted bool
	CreatedAt         time.Time
}

type CreditSource string

const (
	CreditSourceFree     CreditSource = "free"
	CreditSourcePurchase CreditSource = "purchase"
)

type Credit struct {
	ID        string
	UserID    string
	Source    CreditSource
	Remaining int
	CreatedAt time.Time
}

type Timing struct {
	PrepSeconds  int
	SpeakSeconds int
}

// taskTimings fixes the prep/speak pair for the eight CELPIP speaking tasks.
var taskTimings = map[int]Timing{
	1: {PrepSeconds: 30, SpeakSeconds: 90}, // Giving Advice
	2: {PrepSeconds: 30, SpeakSeconds: 90}, // Personal Experience
	3: {PrepSeconds: 30, SpeakSeconds: 60}, // Describing a Scene
	4: {PrepSeconds: 30, SpeakSeconds: 60}, // Making Predictions
	5: {PrepSeconds: 60, SpeakSeconds: 60}, // Comparing and Persuading
	6: {PrepSeconds: 60, SpeakSeconds: 60}, // Dealing with a Difficult Situation
	7: {PrepSeconds: 30, SpeakSeconds: 90}, // Expressing Opinions
	8: {PrepSeconds: 30, SpeakSeconds: 60}, // Describing an Unusual Situation
}

func TaskTiming(taskType int) (Timing, bool) {
	t, ok := taskTimings[taskType]
	return t, ok
}
