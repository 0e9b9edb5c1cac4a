package cel

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ezachrisen/formlogic"
	"github.com/ezachrisen/formlogic/reactive"
	celgo "github.com/google/cel-go/cel"
)

// Program is a join graph compiled to a CEL program.
type Program struct {
	expr  string
	prg   celgo.Program
	vars  map[string]variable
	names []string
}

// variable is a cell referenced by the expression.
type variable struct {
	typ *celgo.Type
	get func() any
}

// Compile converts the join graph below root into a CEL expression and
// compiles it. A nil root compiles to false.
func Compile(rs *formlogic.RuleSet, root *formlogic.Join) (*Program, error) {
	c := &compiler{
		rs:       rs,
		vars:     map[string]variable{},
		runtimes: map[*reactive.Runtime]int{},
		onPath:   map[*formlogic.Join]bool{},
	}

	expr := "false"
	if root != nil {
		var err error
		expr, err = c.join(root)
		if err != nil {
			return nil, err
		}
	}

	names := slices.Sorted(maps.Keys(c.vars))
	opts := make([]celgo.EnvOption, 0, len(names))
	for _, name := range names {
		opts = append(opts, celgo.Variable(name, c.vars[name].typ))
	}

	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	// Parse and type-check the expression against the cell declarations
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compiling %s: %w", expr, iss.Err())
	}

	// Generate an evaluable program
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("generating program for %s: %w", expr, err)
	}

	return &Program{
		expr:  expr,
		prg:   prg,
		vars:  c.vars,
		names: names,
	}, nil
}

// Expr returns the CEL expression the program was compiled from.
func (p *Program) Expr() string { return p.expr }

// Cells returns the names of the CEL variables, one per referenced cell,
// in sorted order.
func (p *Program) Cells() []string { return slices.Clone(p.names) }

// Eval reads every referenced cell and evaluates the expression.
func (p *Program) Eval() (bool, error) {
	data := make(map[string]any, len(p.names))
	for _, name := range p.names {
		data[name] = p.vars[name].get()
	}

	rawValue, _, err := p.prg.Eval(data)
	if err != nil {
		return false, fmt.Errorf("evaluating %s: %w", p.expr, err)
	}

	pass, ok := rawValue.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expected boolean value, got %T, evaluating %s", rawValue.Value(), p.expr)
	}
	return pass, nil
}

// compiler walks a join graph and builds the CEL expression text.
type compiler struct {
	rs   *formlogic.RuleSet
	vars map[string]variable

	// runtimes numbers the runtimes of the referenced cells in the order
	// they are first seen. Cell ids are only unique within one runtime.
	runtimes map[*reactive.Runtime]int

	path   []int
	onPath map[*formlogic.Join]bool
}

func (c *compiler) join(j *formlogic.Join) (string, error) {
	if c.onPath[j] {
		return "", &formlogic.CycleError{Path: append(slices.Clone(c.path), j.ID)}
	}
	c.onPath[j] = true
	c.path = append(c.path, j.ID)
	defer func() {
		delete(c.onPath, j)
		c.path = c.path[:len(c.path)-1]
	}()

	lhs, err := c.link(j.LHS)
	if err != nil {
		return "", err
	}
	rhs, err := c.link(j.RHS)
	if err != nil {
		return "", err
	}

	switch j.Op {
	case formlogic.And:
		return fmt.Sprintf("(%s && %s)", lhs, rhs), nil
	case formlogic.Or:
		return fmt.Sprintf("(%s || %s)", lhs, rhs), nil
	default:
		return "false", nil
	}
}

func (c *compiler) link(l formlogic.RuleLink) (string, error) {
	switch l.Kind {
	case formlogic.LinkCondition:
		cond, ok := c.rs.Condition(l.TargetID)
		if !ok {
			return "false", nil
		}
		return c.condition(cond), nil
	case formlogic.LinkJoin:
		j, ok := c.rs.Join(l.TargetID)
		if !ok {
			return "false", nil
		}
		return c.join(j)
	default:
		return "false", nil
	}
}

// condition emits the comparison for one of the condition types.
func (c *compiler) condition(cond formlogic.AnyCondition) string {
	switch v := cond.(type) {
	case *formlogic.Condition[float64]:
		return comparison(c, v, celgo.DoubleType, doubleLiteral)
	case *formlogic.Condition[int]:
		return comparison(c, v, celgo.IntType, strconv.Itoa)
	case *formlogic.Condition[bool]:
		return comparison(c, v, celgo.BoolType, strconv.FormatBool)
	case *formlogic.Condition[string]:
		return comparison(c, v, celgo.StringType, strconv.Quote)
	case *formlogic.AnsweredCondition:
		switch v.Op {
		case formlogic.IsAnswered:
			return cellVariable(c, v.Answered, celgo.BoolType)
		case formlogic.IsNotAnswered:
			return "!" + cellVariable(c, v.Answered, celgo.BoolType)
		default:
			return "false"
		}
	default:
		return "false"
	}
}

func comparison[T formlogic.Answer](c *compiler, cond *formlogic.Condition[T], typ *celgo.Type, literal func(T) string) string {
	var op string
	switch cond.Op {
	case formlogic.Equals:
		op = "=="
	case formlogic.NotEquals:
		op = "!="
	default:
		return "false"
	}

	var rhs string
	switch r := cond.RHS.(type) {
	case formlogic.Constant[T]:
		rhs = literal(r.Value)
	case formlogic.CellRef[T]:
		rhs = cellVariable(c, r.Cell, typ)
	default:
		return "false"
	}

	return fmt.Sprintf("%s %s %s", cellVariable(c, cond.LHS, typ), op, rhs)
}

// cellVariable declares the CEL variable for the cell behind s and returns
// its name. Cells of the first runtime seen are named cell_<id>; cells of
// any other runtime are named cell_r<n>_<id>.
func cellVariable[T any](c *compiler, s reactive.Signal[T], typ *celgo.Type) string {
	n, ok := c.runtimes[s.Runtime()]
	if !ok {
		n = len(c.runtimes)
		c.runtimes[s.Runtime()] = n
	}

	name := fmt.Sprintf("cell_%d", s.ID())
	if n > 0 {
		name = fmt.Sprintf("cell_r%d_%d", n, s.ID())
	}
	if _, ok := c.vars[name]; !ok {
		c.vars[name] = variable{
			typ: typ,
			get: func() any { return s.Get() },
		}
	}
	return name
}

// doubleLiteral formats v so that CEL parses it as a double, not an int.
func doubleLiteral(v float64) string {
	switch {
	case math.IsNaN(v):
		return `double("NaN")`
	case math.IsInf(v, 1):
		return `double("Inf")`
	case math.IsInf(v, -1):
		return `double("-Inf")`
	}

	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Evaluator implements formlogic.Evaluator by compiling each predicate to
// CEL the first time it is evaluated. Programs are cached per rule set and
// root join; call Reset after modifying a rule set in place.
//
// Only the programs of the most recently used rule sets are kept (see
// CacheRuleSets), so an evaluator fed from a Vault drops the programs of
// replaced rule sets as new ones arrive.
type Evaluator struct {
	mu       sync.Mutex
	limit    int
	ruleSets []*formlogic.RuleSet // least recently used first
	programs map[programKey]*Program
}

type programKey struct {
	rs   *formlogic.RuleSet
	root *formlogic.Join
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(e *Evaluator)

// Keep the programs of at most n rule sets. Values below 1 are ignored.
// Default: 8
func CacheRuleSets(n int) EvaluatorOption {
	return func(e *Evaluator) {
		if n > 0 {
			e.limit = n
		}
	}
}

// NewEvaluator creates an evaluator with an empty program cache.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		limit:    8,
		programs: map[programKey]*Program{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval compiles (or reuses) the program for root and evaluates it.
func (e *Evaluator) Eval(rs *formlogic.RuleSet, root *formlogic.Join) (bool, error) {
	p, err := e.Program(rs, root)
	if err != nil {
		return false, err
	}
	return p.Eval()
}

// Program returns the cached program for root, compiling it if needed.
func (e *Evaluator) Program(rs *formlogic.RuleSet, root *formlogic.Join) (*Program, error) {
	key := programKey{rs: rs, root: root}

	e.mu.Lock()
	p, ok := e.programs[key]
	if ok {
		e.touch(rs)
	}
	e.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := Compile(rs, root)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.programs[key] = p
	e.touch(rs)
	e.mu.Unlock()
	return p, nil
}

// touch marks rs as the most recently used rule set and evicts the programs
// of the least recently used one when over the limit. e.mu must be held.
func (e *Evaluator) touch(rs *formlogic.RuleSet) {
	if i := slices.Index(e.ruleSets, rs); i >= 0 {
		e.ruleSets = slices.Delete(e.ruleSets, i, i+1)
	}
	e.ruleSets = append(e.ruleSets, rs)

	for len(e.ruleSets) > e.limit {
		old := e.ruleSets[0]
		e.ruleSets = e.ruleSets[1:]
		maps.DeleteFunc(e.programs, func(k programKey, _ *Program) bool {
			return k.rs == old
		})
	}
}

// Len returns the number of cached programs.
func (e *Evaluator) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.programs)
}

// Reset discards every cached program.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.programs)
	e.ruleSets = nil
}
