// Package events defines the typed messages components use to talk to the
// root model.
package events

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/ledger/pkg/ledger"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// FormSubmitMsg carries a normalized payload from the entry form. EntryID is
// zero when creating.
type FormSubmitMsg struct {
	Component ComponentID
	EntryID   int64
	Payload   ledger.NewEntry
}

// Describe renders the submission in a human-friendly format for logs.
func (m FormSubmitMsg) Describe() string {
	action := "create"
	if m.EntryID != 0 {
		action = fmt.Sprintf("update id:%d", m.EntryID)
	}
	return fmt.Sprintf(`%s description:%q amount:%.2f`, action, m.Payload.Description, m.Payload.Amount)
}

// Editing reports whether the submission targets an existing entry.
func (m FormSubmitMsg) Editing() bool {
	return m.EntryID != 0
}

// FormSubmitCmd wraps a FormSubmitMsg in a tea.Cmd helper.
func FormSubmitCmd(component ComponentID, entryID int64, payload ledger.NewEntry) tea.Cmd {
	return func() tea.Msg {
		return FormSubmitMsg{Component: component, EntryID: entryID, Payload: payload}
	}
}

// FormCancelMsg is emitted when the user abandons the form.
type FormCancelMsg struct {
	Component ComponentID
}

// Describe renders the cancellation for logs.
func (m FormCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// FormCancelCmd wraps a FormCancelMsg in a tea.Cmd helper.
func FormCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FormCancelMsg{Component: component}
	}
}

// EditRequestMsg asks the root to open the form for an entry.
type EditRequestMsg struct {
	Component ComponentID
	Entry     ledger.Entry
}

// Describe renders the request for logs.
func (m EditRequestMsg) Describe() string {
	return fmt.Sprintf(`id:%d description:%q`, m.Entry.ID, m.Entry.Description)
}

// EditRequestCmd wraps an EditRequestMsg in a tea.Cmd helper.
func EditRequestCmd(component ComponentID, entry ledger.Entry) tea.Cmd {
	return func() tea.Msg {
		return EditRequestMsg{Component: component, Entry: entry}
	}
}

// DeleteRequestMsg asks the root to delete an entry.
type DeleteRequestMsg struct {
	Component   ComponentID
	EntryID     int64
	Description string
}

// Describe renders the request for logs.
func (m DeleteRequestMsg) Describe() string {
	return fmt.Sprintf(`id:%d description:%q`, m.EntryID, m.Description)
}

// DeleteRequestCmd wraps a DeleteRequestMsg in a tea.Cmd helper.
func DeleteRequestCmd(component ComponentID, id int64, description string) tea.Cmd {
	return func() tea.Msg {
		return DeleteRequestMsg{Component: component, EntryID: id, Description: description}
	}
}

// FilterChangeMsg sets one filter dimension. An empty Value removes it.
type FilterChangeMsg struct {
	Component ComponentID
	Key       ledger.FilterKey
	Value     string
}

// Describe renders the change for logs.
func (m FilterChangeMsg) Describe() string {
	return fmt.Sprintf(`key:%q value:%q`, m.Key, m.Value)
}

// FilterChangeCmd wraps a FilterChangeMsg in a tea.Cmd helper.
func FilterChangeCmd(component ComponentID, key ledger.FilterKey, value string) tea.Cmd {
	return func() tea.Msg {
		return FilterChangeMsg{Component: component, Key: key, Value: value}
	}
}

// FilterResetMsg clears every filter.
type FilterResetMsg struct {
	Component ComponentID
}

// Describe renders the reset for logs.
func (m FilterResetMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// FilterResetCmd wraps a FilterResetMsg in a tea.Cmd helper.
func FilterResetCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FilterResetMsg{Component: component}
	}
}

// FocusMsg instructs a component to focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe renders the focus target for logs.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}
