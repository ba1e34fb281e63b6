// Package truth defines the gololang.Truth module, which expresses
// test assertions within Golo programs in the fashion of
// https://truth.dev.
//
// The Golo:
//
//	assertThat(a): isEqualTo(b)
//	assertThat(c): named("my value"): isTrue()
//	assertThat(d): contains(a)
//	assertThat(d): containsExactly(a, b): inOrder()
//	assertThat(d): containsAnyOf(a, b, c)
//	assertThat(x): isWithin(0.01): of(y)
//
// is equivalent to the following Python:
//
//	from truth.truth import AssertThat
//	AssertThat(a).IsEqualTo(b)
//	AssertThat(c).Named("my value").IsTrue()
//	AssertThat(d).Contains(a)
//	AssertThat(d).ContainsExactly(a, b).InOrder()
//	AssertThat(d).ContainsAnyOf(a, b, c)
//
// Often, tests assert a relationship between a value produced by the test
// (the "actual" value) and some reference value (the "expected" value). It is
// strongly recommended that the actual value is made the subject of the assertion.
//
// Subjects are values of the class gololang.truth.Subject, so every
// assertion is an ordinary method call site, resolved and cached like
// any other.
//
// A failed assertion is an evaluation error wrapping a
// TruthAssertion; an assertion that makes no sense for its subject,
// such as hasSize on a number, wraps an InvalidAssertion or an
// *UnhandledError.
//
// Predicates isTrue and isFalse match only true and false.
package truth // import "go.golo.dev/lib/truth"
