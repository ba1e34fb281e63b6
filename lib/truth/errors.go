package truth

import (
	"fmt"
	"strings"

	"go.golo.dev/golo"
)

// InvalidAssertion signifies an invalid assertion was attempted
// such as comparing with null.
type InvalidAssertion string

var _ error = InvalidAssertion("")

func newInvalidAssertion(prop string) InvalidAssertion { return InvalidAssertion(prop) }
func (e InvalidAssertion) Error() string               { return string(e) }

// TruthAssertion signifies an assertion predicate was invalidated.
type TruthAssertion string

var _ error = TruthAssertion("")

func newTruthAssertion(msg string) TruthAssertion { return TruthAssertion(msg) }
func (e TruthAssertion) Error() string            { return string(e) }

// UnhandledError appears when an operation on an incompatible type is attempted.
type UnhandledError struct {
	name   string
	actual golo.Value
	args   []golo.Value
}

var _ error = (*UnhandledError)(nil)

func (s *Subject) unhandled(name string, args ...golo.Value) *UnhandledError {
	return &UnhandledError{
		name:   name,
		actual: s.actual,
		args:   args,
	}
}

func (e *UnhandledError) Error() string {
	var b strings.Builder
	b.WriteString("Invalid assertion ")
	b.WriteString(e.name)
	b.WriteByte('(')
	for i, arg := range e.args {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteString(") on value of class ")
	b.WriteString(e.actual.Class().Name)
	return b.String()
}

const warnContainsExactlySingleArray = "" +
	" Passing a single array to containsExactly(expected...) is often" +
	" not the correct thing to do. Did you mean to call" +
	" containsExactlyElementsIn(someArray) instead?"

func (s *Subject) failNull(check string, other golo.Value) error {
	if other == golo.None {
		return newInvalidAssertion(fmt.Sprintf("It is illegal to compare using %s(null)", check))
	}
	return nil
}

func (s *Subject) failComparingValues(verb string, other golo.Value, suffix string) error {
	proposition := fmt.Sprintf("%s <%s>", verb, repr(other))
	return s.failWithProposition(proposition, suffix)
}

func (s *Subject) failWithProposition(proposition, suffix string) error {
	msg := fmt.Sprintf("Not true that %s %s.%s", s.subject(), proposition, suffix)
	return newTruthAssertion(msg)
}

func (s *Subject) failWithBadResults(verb string, other golo.Value, failVerb string, actual fmt.Stringer, suffix string) error {
	msg := fmt.Sprintf("%s <%s>. It %s <%s>", verb, repr(other), failVerb, actual)
	return s.failWithProposition(msg, suffix)
}

func (s *Subject) subject() string {
	if actual, ok := s.actual.(golo.String); ok && strings.Contains(string(actual), "\n") {
		if s.name == "" {
			return "actual"
		}
		return fmt.Sprintf("actual %s", s.name)
	}
	str := "<" + repr(s.actual) + ">"
	if s.name == "" {
		return str
	}
	return fmt.Sprintf("%s(%s)", s.name, str)
}

// repr returns the string representation of v, quoting strings.
func repr(v golo.Value) string {
	if s, ok := v.(golo.String); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return v.String()
}
