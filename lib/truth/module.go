package truth

import (
	"errors"
	"fmt"

	"go.golo.dev/golo"
)

// Name is the name of the module.
const Name = "gololang.Truth"

// Module is the gololang.Truth module. It defines the assertThat
// function.
var Module = golo.NewGoModule(Name, golo.NewBuiltin("assertThat", 1, false, AssertThat))

// SubjectClass is the class of the values returned by assertThat.
var SubjectClass = golo.NewClass("gololang.truth.Subject", golo.ObjectClass)

func init() {
	golo.RegisterModule(Module)
	golo.RegisterClass(SubjectClass)
	for _, m := range methods {
		SubjectClass.AddMethod(m.builtin())
	}
}

// AssertThat implements the assertThat(actual) function.
func AssertThat(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
	return newSubject(args[0]), nil
}

// A Subject wraps the actual value of an assertion.
type Subject struct {
	// Target in assertThat(target)
	actual golo.Value

	// Readable optional prefix with named(name)
	name string

	// forOrdering is relevant to inOrder() assertions
	forOrdering *forOrdering

	// withinTolerance is used to delta-compare numbers
	withinTolerance *withinTolerance
}

type forOrdering struct {
	inOrderError error
}

type withinTolerance struct {
	within    bool
	tolerance float64
}

var _ golo.Value = (*Subject)(nil)

func newSubject(actual golo.Value) *Subject { return &Subject{actual: actual} }

func (s *Subject) String() string     { return fmt.Sprintf("assertThat(%s)", repr(s.actual)) }
func (s *Subject) Class() *golo.Class { return SubjectClass }

// Actual returns the value under assertion.
func (s *Subject) Actual() golo.Value { return s.actual }

// A methodFunc implements one method of a subject.
type methodFunc func(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error)

type method struct {
	name    string
	arity   int  // fixed parameters, not counting the receiver
	varargs bool // a final parameter collects the remaining arguments
	fn      methodFunc
}

var errUnhandled = errors.New("unhandled")

func (m method) builtin() *golo.Builtin {
	params := 1 + m.arity
	if m.varargs {
		params++
	}
	return golo.NewBuiltin(m.name, params, m.varargs, func(thread *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
		s := args[0].(*Subject)
		args = args[1:]
		if m.varargs {
			rest := args[len(args)-1].(*golo.Array).Elems()
			args = append(args[:len(args)-1:len(args)-1], rest...)
		}
		res, err := m.fn(thread, s, args...)
		if err == errUnhandled {
			return nil, s.unhandled(b.Name(), args...)
		}
		return res, err
	})
}

var methods = []method{
	{"containsNoDuplicates", 0, false, containsNoDuplicates},
	{"inOrder", 0, false, inOrder},
	{"isCallable", 0, false, isCallable},
	{"isEmpty", 0, false, isEmpty},
	{"isFalse", 0, false, isFalse},
	{"isFinite", 0, false, isFinite},
	{"isNaN", 0, false, isNaN},
	{"isNonZero", 0, false, isNonZero},
	{"isNotCallable", 0, false, isNotCallable},
	{"isNotEmpty", 0, false, isNotEmpty},
	{"isNotNaN", 0, false, isNotNaN},
	{"isNotNull", 0, false, isNotNull},
	{"isNull", 0, false, isNull},
	{"isOrdered", 0, false, isOrdered},
	{"isStrictlyOrdered", 0, false, isStrictlyOrdered},
	{"isTrue", 0, false, isTrue},
	{"isZero", 0, false, isZero},

	{"contains", 1, false, contains},
	{"containsExactlyElementsIn", 1, false, containsExactlyElementsIn},
	{"containsMatch", 1, false, containsMatch},
	{"doesNotContain", 1, false, doesNotContain},
	{"doesNotContainMatch", 1, false, doesNotContainMatch},
	{"doesNotMatch", 1, false, doesNotMatch},
	{"endsWith", 1, false, endsWith},
	{"hasSize", 1, false, hasSize},
	{"isAtLeast", 1, false, isAtLeast},
	{"isAtMost", 1, false, isAtMost},
	{"isEqualTo", 1, false, isEqualTo},
	{"isGreaterThan", 1, false, isGreaterThan},
	{"isIn", 1, false, isIn},
	{"isLessThan", 1, false, isLessThan},
	{"isNotEqualTo", 1, false, isNotEqualTo},
	{"isNotIn", 1, false, isNotIn},
	{"isNotOfType", 1, false, isNotOfType},
	{"isNotSameInstanceAs", 1, false, isNotSameInstanceAs},
	{"isNotWithin", 1, false, isNotWithin},
	{"isOfType", 1, false, isOfType},
	{"isOrderedAccordingTo", 1, false, isOrderedAccordingTo},
	{"isSameInstanceAs", 1, false, isSameInstanceAs},
	{"isStrictlyOrderedAccordingTo", 1, false, isStrictlyOrderedAccordingTo},
	{"isWithin", 1, false, isWithin},
	{"matches", 1, false, matches},
	{"named", 1, false, named},
	{"of", 1, false, of},
	{"startsWith", 1, false, startsWith},

	{"containsAllOf", 0, true, containsAllOf},
	{"containsAnyOf", 0, true, containsAnyOf},
	{"containsExactly", 0, true, containsExactly},
	{"containsNoneOf", 0, true, containsNoneOf},
	{"isAnyOf", 0, true, isAnyOf},
	{"isNoneOf", 0, true, isNoneOf},
}
