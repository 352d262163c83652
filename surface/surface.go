package surface

import "github.com/MrEthical07/jwtlens/bus"

// Text is a plain text-holding surface. Every SetValue lands immediately and
// raises a change notification; whether a handler runs is the bus's decision.
type Text struct {
	b       *bus.Bus
	topic   bus.Topic
	value   string
	errored bool
	visible bool
}

// NewText creates a visible, empty text surface bound to a bus topic.
func NewText(b *bus.Bus, topic bus.Topic) *Text {
	return &Text{b: b, topic: topic, visible: true}
}

// Value returns the current text.
func (s *Text) Value() string {
	return s.value
}

// SetValue replaces the text and notifies the bus. The write is applied even
// under suppression; only handler delivery is gated.
func (s *Text) SetValue(text string) {
	s.value = text
	s.b.Notify(s.topic)
}

// MarkError flags the surface as the origin of the current failure.
func (s *Text) MarkError() {
	s.errored = true
}

// ClearError removes the failure flag.
func (s *Text) ClearError() {
	s.errored = false
}

// Errored reports whether the surface currently carries a failure flag.
func (s *Text) Errored() bool {
	return s.errored
}

// SetVisible toggles whether the surface is displayed. Visibility changes do
// not raise change notifications.
func (s *Text) SetVisible(v bool) {
	s.visible = v
}

// Visible reports the display state.
func (s *Text) Visible() bool {
	return s.visible
}

// Check is a boolean surface (a checkbox).
type Check struct {
	b       *bus.Bus
	topic   bus.Topic
	checked bool
	visible bool
}

// NewCheck creates a visible, unchecked surface bound to a bus topic.
func NewCheck(b *bus.Bus, topic bus.Topic) *Check {
	return &Check{b: b, topic: topic, visible: true}
}

// Checked returns the current state.
func (s *Check) Checked() bool {
	return s.checked
}

// SetChecked replaces the state and notifies the bus.
func (s *Check) SetChecked(v bool) {
	s.checked = v
	s.b.Notify(s.topic)
}

// SetVisible toggles display without notifying.
func (s *Check) SetVisible(v bool) {
	s.visible = v
}

// Visible reports the display state.
func (s *Check) Visible() bool {
	return s.visible
}

// Select is a fixed-option selector surface.
type Select struct {
	b        *bus.Bus
	topic    bus.Topic
	options  []string
	selected string
}

// NewSelect creates a selector over a fixed option set. The first option is
// preselected; an empty option set leaves the selection empty.
func NewSelect(b *bus.Bus, topic bus.Topic, options []string) *Select {
	s := &Select{b: b, topic: topic, options: append([]string(nil), options...)}
	if len(s.options) > 0 {
		s.selected = s.options[0]
	}
	return s
}

// Options returns a copy of the option set.
func (s *Select) Options() []string {
	out := make([]string, len(s.options))
	copy(out, s.options)
	return out
}

// Selected returns the current selection.
func (s *Select) Selected() string {
	return s.selected
}

// SetSelected switches the selection and notifies the bus. A value outside
// the option set is rejected and reported false, with no notification.
func (s *Select) SetSelected(value string) bool {
	found := false
	for _, opt := range s.options {
		if opt == value {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	s.selected = value
	s.b.Notify(s.topic)
	return true
}
