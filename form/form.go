// Package form holds the metadata of a dynamic form: questions, the sections
// grouping them and the pages grouping sections.
//
// A question's answer, whether it is answered, and its visible, required and
// read-only flags are reactive cells, so rules that change them (see SetValue, SetVisible and
// friends) propagate to every effect that reads them. The Form registry maps
// question ids to the cells conditions are built on.
package form

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/ezachrisen/formlogic"
	"github.com/ezachrisen/formlogic/reactive"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var (
	// ErrUnknownQuestion is returned when an id does not name a question of the form.
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrUnknownSection is returned when an id does not name a section of the form.
	ErrUnknownSection = errors.New("unknown section")

	// ErrWrongType is returned by Lookup when the question holds a different answer type.
	ErrWrongType = errors.New("wrong answer type")
)

// Question is a single question of a form.
type Question[T formlogic.Answer] struct {
	ID    int
	Label string
	Text  string

	Value    reactive.Signal[T]
	Answered reactive.Signal[bool]
	Visible  reactive.Signal[bool]
	Required reactive.Signal[bool]
	ReadOnly reactive.Signal[bool]
}

// NewQuestion creates a visible, optional, editable and unanswered question.
// Value starts at initial, which stands for the default shown to the user
// until the question is answered.
func NewQuestion[T formlogic.Answer](rt *reactive.Runtime, id int, label, text string, initial T) *Question[T] {
	return &Question[T]{
		ID:       id,
		Label:    label,
		Text:     text,
		Value:    reactive.NewSignal(rt, initial),
		Answered: reactive.NewSignal(rt, false),
		Visible:  reactive.NewSignal(rt, true),
		Required: reactive.NewSignal(rt, false),
		ReadOnly: reactive.NewSignal(rt, false),
	}
}

// Answer stores v as the answer and marks the question answered.
func (q *Question[T]) Answer(v T) {
	q.Value.Set(v)
	q.Answered.Set(true)
}

// Clear marks the question unanswered and resets the value to the zero value
// of its type.
func (q *Question[T]) Clear() {
	var zero T
	q.Answered.Set(false)
	q.Value.Set(zero)
}

// Description is a snapshot of a question.
type Description struct {
	ID       int
	Label    string
	Text     string
	Type     formlogic.Type
	Cell     reactive.SignalID
	Answer   any
	Answered bool
	Visible  bool
	Required bool
	ReadOnly bool
}

// Describe reads the question's cells. Called inside an effect, it subscribes
// the effect to all of them.
func (q *Question[T]) Describe() Description {
	return Description{
		ID:       q.ID,
		Label:    q.Label,
		Text:     q.Text,
		Type:     formlogic.TypeOf[T](),
		Cell:     q.Value.ID(),
		Answer:   q.Value.Get(),
		Answered: q.Answered.Get(),
		Visible:  q.Visible.Get(),
		Required: q.Required.Get(),
		ReadOnly: q.ReadOnly.Get(),
	}
}

// Cell returns the id of the cell holding the answer.
func (q *Question[T]) Cell() reactive.SignalID { return q.Value.ID() }

func (q *Question[T]) questionID() int { return q.ID }

// Entry is a question of any answer type.
type Entry interface {
	Describe() Description
	Cell() reactive.SignalID

	questionID() int
}

// Section groups questions.
type Section struct {
	ID        int
	Name      string
	Label     string
	Visible   reactive.Signal[bool]
	Questions []int
}

// NewSection creates a visible section.
func NewSection(rt *reactive.Runtime, id int, name, label string, questions ...int) *Section {
	return &Section{
		ID:        id,
		Name:      name,
		Label:     label,
		Visible:   reactive.NewSignal(rt, true),
		Questions: questions,
	}
}

// Page groups sections.
type Page struct {
	ID       int
	Name     string
	Label    string
	Visible  reactive.Signal[bool]
	Sections []int
}

// NewPage creates a visible page.
func NewPage(rt *reactive.Runtime, id int, name, label string, sections ...int) *Page {
	return &Page{
		ID:       id,
		Name:     name,
		Label:    label,
		Visible:  reactive.NewSignal(rt, true),
		Sections: sections,
	}
}

// Form is the registry of a form's questions, sections and pages.
type Form struct {
	rt        *reactive.Runtime
	questions map[int]Entry
	sections  map[int]*Section
	pages     map[int]*Page
}

// New creates an empty form whose cells live in rt.
func New(rt *reactive.Runtime) *Form {
	return &Form{
		rt:        rt,
		questions: map[int]Entry{},
		sections:  map[int]*Section{},
		pages:     map[int]*Page{},
	}
}

// Runtime returns the runtime the form's cells live in.
func (f *Form) Runtime() *reactive.Runtime { return f.rt }

// Add registers questions with the form.
func Add[T formlogic.Answer](f *Form, qs ...*Question[T]) error {
	for _, q := range qs {
		if err := f.Register(q); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a question of any answer type to the form.
func (f *Form) Register(e Entry) error {
	if e == nil {
		return fmt.Errorf("attempt to register nil question")
	}
	id := e.questionID()
	if _, ok := f.questions[id]; ok {
		return fmt.Errorf("question %d: %w", id, formlogic.ErrDuplicateID)
	}
	f.questions[id] = e
	return nil
}

// AddSection adds sections to the form. The questions they list must already
// be registered.
func (f *Form) AddSection(ss ...*Section) error {
	for _, s := range ss {
		if s == nil {
			return fmt.Errorf("attempt to add nil section")
		}
		if _, ok := f.sections[s.ID]; ok {
			return fmt.Errorf("section %d: %w", s.ID, formlogic.ErrDuplicateID)
		}
		for _, q := range s.Questions {
			if _, ok := f.questions[q]; !ok {
				return fmt.Errorf("section %d lists question %d: %w", s.ID, q, ErrUnknownQuestion)
			}
		}
		f.sections[s.ID] = s
	}
	return nil
}

// AddPage adds pages to the form. The sections they list must already be
// added.
func (f *Form) AddPage(ps ...*Page) error {
	for _, p := range ps {
		if p == nil {
			return fmt.Errorf("attempt to add nil page")
		}
		if _, ok := f.pages[p.ID]; ok {
			return fmt.Errorf("page %d: %w", p.ID, formlogic.ErrDuplicateID)
		}
		for _, s := range p.Sections {
			if _, ok := f.sections[s]; !ok {
				return fmt.Errorf("page %d lists section %d: %w", p.ID, s, ErrUnknownSection)
			}
		}
		f.pages[p.ID] = p
	}
	return nil
}

// Question returns the question with the id.
func (f *Form) Question(id int) (Entry, bool) {
	e, ok := f.questions[id]
	return e, ok
}

// Section returns the section with the id.
func (f *Form) Section(id int) (*Section, bool) {
	s, ok := f.sections[id]
	return s, ok
}

// Page returns the page with the id.
func (f *Form) Page(id int) (*Page, bool) {
	p, ok := f.pages[id]
	return p, ok
}

// Cell returns the cell holding the answer to the question with the id.
func (f *Form) Cell(id int) (reactive.SignalID, bool) {
	e, ok := f.questions[id]
	if !ok {
		return 0, false
	}
	return e.Cell(), true
}

// Lookup returns the question with the id as a typed question.
func Lookup[T formlogic.Answer](f *Form, id int) (*Question[T], error) {
	e, ok := f.questions[id]
	if !ok {
		return nil, fmt.Errorf("question %d: %w", id, ErrUnknownQuestion)
	}
	q, ok := e.(*Question[T])
	if !ok {
		return nil, fmt.Errorf("question %d is not %s: %w", id, formlogic.TypeOf[T](), ErrWrongType)
	}
	return q, nil
}

// QuestionIDs returns the ids of all questions in ascending order.
func (f *Form) QuestionIDs() []int {
	return slices.Sorted(maps.Keys(f.questions))
}

// String returns a table of the form's questions. Reading the cells does not
// subscribe the running effect, if any.
func (f *Form) String() string {
	return reactive.Untrack(f.rt, func() string {
		tw := table.NewWriter()
		tw.SetTitle("\nFORM\n")
		tw.AppendHeader(table.Row{"\nID", "\nLabel", "Answer\nType", "\nAnswer", "\nAnswered", "\nVisible", "\nRequired", "Read\nOnly"})

		for _, id := range f.QuestionIDs() {
			d := f.questions[id].Describe()
			tw.AppendRow(table.Row{
				d.ID,
				d.Label,
				d.Type.String(),
				fmt.Sprintf("%v", d.Answer),
				yesNo(d.Answered),
				yesNo(d.Visible),
				yesNo(d.Required),
				yesNo(d.ReadOnly),
			})
		}

		style := table.StyleLight
		style.Format.Header = text.FormatDefault
		tw.SetStyle(style)
		return tw.Render()
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
