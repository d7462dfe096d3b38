package engine

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LetterKind is the tone of a letter.
type LetterKind string

const LetterPositive LetterKind = "positive"

// Letter is a notification posted to the player.
type Letter struct {
	ID       uuid.UUID  `json:"id"`
	Label    string     `json:"label"`
	Text     string     `json:"text"`
	Kind     LetterKind `json:"kind"`
	Received time.Time  `json:"received"`
}

// LetterStack collects letters in the order they were received.
type LetterStack struct {
	letters []Letter
}

// NewLetterStack creates an empty stack.
func NewLetterStack() *LetterStack {
	return &LetterStack{}
}

// Receive posts a letter and returns it.
func (ls *LetterStack) Receive(label, text string, kind LetterKind) Letter {
	l := Letter{
		ID:       uuid.New(),
		Label:    label,
		Text:     text,
		Kind:     kind,
		Received: time.Now().UTC(),
	}
	ls.letters = append(ls.letters, l)
	slog.Info("letter received", "label", label, "kind", kind)
	return l
}

// Restore appends a previously saved letter.
func (ls *LetterStack) Restore(l Letter) {
	ls.letters = append(ls.letters, l)
}

// All returns every letter, oldest first.
func (ls *LetterStack) All() []Letter {
	return ls.letters
}
