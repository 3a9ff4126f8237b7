package repository

import "testing"

func TestTaskStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TaskStatus
		to      TaskStatus
		allowed bool
	}{
		{TaskStatusRecorded, TaskStatusProcessing, true},
		{TaskStatusProcessing, TaskStatusScored, true},
		{TaskStatusProcessing, TaskStatusError, true},
		{TaskStatusRecorded, TaskStatusScored, false},
		{TaskStatusRecorded, TaskStatusError, false},
		{TaskStatusScored, TaskStatusProcessing, false},
		{TaskStatusScored, TaskStatusError, false},
		{TaskStatusError, TaskStatusProcessing, false},
		{TaskStatusError, TaskStatusScored, false},
		{TaskStatusProcessing, TaskStatusRecorded, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", c.from, c.to, c.allowed, got)
		}
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	if TaskStatusRecorded.IsTerminal() || TaskStatusProcessing.IsTerminal() {
		t.Fatal("recorded and processing must not be terminal")
	}
	if !TaskStatusScored.IsTerminal() || !TaskStatusError.IsTerminal() {
		t.Fatal("scored and error must be terminal")
	}
}

func TestTaskTiming(t *testing.T) {
	cases := map[int]Timing{
		1: {PrepSeconds: 30, SpeakSeconds: 90},
		3: {PrepSeconds: 30, SpeakSeconds: 60},
		5: {PrepSeconds: 60, SpeakSeconds: 60},
		7: {PrepSeconds: 30, SpeakSeconds: 90},
		8: {PrepSeconds: 30, SpeakSeconds: 60},
	}
	for taskType, want := range cases {
		got, ok := TaskTiming(taskType)
		if !ok {
			t.Fatalf("task type %d should have a timing", taskType)
		}
		if got != want {
			t.Fatalf("task type %d: expected %+v, got %+v", taskType, want, got)
		}
	}
	if _, ok := TaskTiming(9); ok {
		t.Fatal("task type 9 should not exist")
	}
}
