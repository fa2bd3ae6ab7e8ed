package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = checklistItem{}
)

// checklistItem wraps an onboarding step to implement [list.Item].
type checklistItem struct {
	label string
	hint  string
	done  bool
}

func (i checklistItem) FilterValue() string { return i.label }

func (i checklistItem) Title() string {
	if i.done {
		return "✓ " + i.label
	}
	return "○ " + i.label
}

func (i checklistItem) Description() string {
	if i.done {
		return "done"
	}
	return i.hint
}
