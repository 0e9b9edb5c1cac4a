package form

import (
	"github.com/ezachrisen/formlogic"
	"github.com/ezachrisen/formlogic/reactive"
)

// SetValue returns an action assigning v to the question's answer and
// marking the question answered. v may be a constant or a reference to
// another cell of the same type.
func SetValue[T formlogic.Answer](q *Question[T], v formlogic.Operand[T]) formlogic.Action {
	return formlogic.ActionBlock{
		formlogic.Assign[T]{Target: q.Value, Value: v},
		setFlag(q.Answered, true),
	}
}

// ClearValue returns an action marking the question unanswered and
// resetting its value to the zero value of its type.
func ClearValue[T formlogic.Answer](q *Question[T]) formlogic.Action {
	var zero T
	return formlogic.ActionBlock{
		setFlag(q.Answered, false),
		formlogic.Assign[T]{Target: q.Value, Value: formlogic.Constant[T]{Value: zero}},
	}
}

// SetRequired returns an action marking the question required or optional.
func SetRequired[T formlogic.Answer](q *Question[T], required bool) formlogic.Action {
	return setFlag(q.Required, required)
}

// SetReadOnly returns an action making the question read-only or editable.
func SetReadOnly[T formlogic.Answer](q *Question[T], readOnly bool) formlogic.Action {
	return setFlag(q.ReadOnly, readOnly)
}

// SetVisible returns an action showing or hiding the question.
func SetVisible[T formlogic.Answer](q *Question[T], visible bool) formlogic.Action {
	return setFlag(q.Visible, visible)
}

// SetSectionVisible returns an action showing or hiding a section.
func SetSectionVisible(s *Section, visible bool) formlogic.Action {
	return setFlag(s.Visible, visible)
}

// SetPageVisible returns an action showing or hiding a page.
func SetPageVisible(p *Page, visible bool) formlogic.Action {
	return setFlag(p.Visible, visible)
}

func setFlag(flag reactive.Signal[bool], v bool) formlogic.Action {
	return formlogic.Assign[bool]{Target: flag, Value: formlogic.Constant[bool]{Value: v}}
}
