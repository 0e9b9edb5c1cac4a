package reactive_test

import (
	"errors"
	"testing"

	"github.com/ezachrisen/formlogic/reactive"
	"github.com/matryer/is"
)

func TestSignal(t *testing.T) {
	t.Run("reads initial value", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()

		f := reactive.NewSignal(rt, 1.2)
		b := reactive.NewSignal(rt, false)
		i := reactive.NewSignal(rt, 42)
		s := reactive.NewSignal(rt, "hello")

		is.Equal(f.Get(), 1.2)
		is.Equal(b.Get(), false)
		is.Equal(i.Get(), 42)
		is.Equal(s.Get(), "hello")
	})

	t.Run("write is visible immediately", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()

		count := reactive.NewSignal(rt, 0)
		count.Set(10)
		is.Equal(count.Get(), 10)

		count.Set(20)
		is.Equal(count.Get(), 20)
	})

	t.Run("ids are allocated in order", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()

		a := reactive.NewSignal(rt, 0)
		b := reactive.NewSignal(rt, "b")

		is.Equal(a.ID(), reactive.SignalID(0))
		is.Equal(b.ID(), reactive.SignalID(1))
		is.Equal(rt.CellCount(), 2)
		is.True(a.Runtime() == rt)
	})

	t.Run("interface typed cell holding nil", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()

		v := reactive.NewSignal[any](rt, nil)
		is.Equal(v.Get(), nil)

		v.Set("set")
		is.Equal(v.Get(), "set")
	})

	t.Run("reads outside an effect do not subscribe", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()

		count := reactive.NewSignal(rt, 0)
		count.Get()

		is.Equal(len(rt.Subscribers(count.ID())), 0)
	})
}

func TestBind(t *testing.T) {
	t.Run("binds to an existing cell", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()

		answer := reactive.NewSignal(rt, "yes")
		bound := reactive.Bind[string](rt, answer.ID())

		bound.Set("no")
		is.Equal(answer.Get(), "no")
	})

	t.Run("unknown id panics", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()
		reactive.NewSignal(rt, 1)

		err := recoverProgrammingError(t, func() {
			reactive.Bind[int](rt, 7)
		})
		is.True(errors.Is(err, reactive.ErrUnknownCell))
	})

	t.Run("wrong type panics", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()
		s := reactive.NewSignal(rt, 1)

		err := recoverProgrammingError(t, func() {
			reactive.Bind[string](rt, s.ID())
		})
		is.True(errors.Is(err, reactive.ErrWrongType))
	})

	t.Run("cell from another runtime panics", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()
		other := reactive.NewRuntime()
		s := reactive.NewSignal(other, 1)

		err := recoverProgrammingError(t, func() {
			reactive.Bind[int](rt, s.ID())
		})
		is.True(errors.Is(err, reactive.ErrUnknownCell))
	})
}

func TestZeroSignal(t *testing.T) {
	is := is.New(t)

	var s reactive.Signal[int]
	is.True(!s.Bound())

	err := recoverProgrammingError(t, func() { s.Get() })
	is.True(errors.Is(err, reactive.ErrUnknownCell))

	err = recoverProgrammingError(t, func() { s.Set(1) })
	is.True(errors.Is(err, reactive.ErrUnknownCell))
}

func TestWrongGoroutine(t *testing.T) {
	t.Run("panics when used from another goroutine", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime()
		count := reactive.NewSignal(rt, 0)

		done := make(chan error)
		go func() {
			defer func() {
				r := recover()
				err, _ := r.(error)
				done <- err
			}()
			count.Set(1)
		}()

		err := <-done
		is.True(errors.Is(err, reactive.ErrWrongGoroutine))
		is.Equal(count.Get(), 0)
	})

	t.Run("allowed when the check is disabled", func(t *testing.T) {
		is := is.New(t)
		rt := reactive.NewRuntime(reactive.AllowAnyGoroutine())
		count := reactive.NewSignal(rt, 0)

		done := make(chan struct{})
		go func() {
			defer close(done)
			count.Set(1)
		}()
		<-done

		is.Equal(count.Get(), 1)
	})
}

// recoverProgrammingError runs fn and returns the ProgrammingError it panics
// with. The test fails if fn does not panic with one.
func recoverProgrammingError(t *testing.T, fn func()) (err error) {
	t.Helper()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}

		pe, ok := r.(*reactive.ProgrammingError)
		if !ok {
			t.Fatalf("expected *reactive.ProgrammingError, got %T", r)
		}
		err = pe
	}()

	fn()
	return nil
}
