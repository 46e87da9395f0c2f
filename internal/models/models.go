package models

import (
	"time"

	"github.com/google/uuid"
)

// TodoItem represents a single todo entry within a day
type TodoItem struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	MoveToNextDay bool      `json:"move_to_next_day"`
	Notes         string    `json:"notes"`
}

// DayData represents everything stored for one calendar date
type DayData struct {
	Date  Date       `json:"date"`
	Todos []TodoItem `json:"todos"`
	Notes string     `json:"notes"`
}

// NewTodoItem creates a todo with a fresh id and the current local time.
// Text may be empty or arbitrarily long; no validation is applied.
func NewTodoItem(text string) TodoItem {
	return TodoItem{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewDayData returns an empty record for the given date
func NewDayData(date Date) DayData {
	return DayData{
		Date:  date,
		Todos: []TodoItem{},
	}
}
