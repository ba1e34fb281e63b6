package truth

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.golo.dev/golo"
)

// elements returns the elements of a sequence subject: an array, a
// string, whose elements are its characters, or a value whose class
// has a toArray method.
func elements(thread *golo.Thread, v golo.Value) ([]golo.Value, error) {
	switch v := v.(type) {
	case golo.Indexable:
		elems := make([]golo.Value, v.Len())
		for i := range elems {
			elems[i] = v.Index(i)
		}
		return elems, nil
	case golo.String:
		var elems []golo.Value
		for _, r := range string(v) {
			elems = append(elems, golo.String(r))
		}
		return elems, nil
	}
	if m := v.Class().LookupMethod("toArray", 1); m != nil {
		res, err := golo.Call(thread, m, []golo.Value{v})
		if err != nil {
			return nil, err
		}
		if a, ok := res.(*golo.Array); ok {
			return a.Elems(), nil
		}
	}
	return nil, errUnhandled
}

// sizeOf returns the size of a sequence subject, or of a value whose
// class has a size method.
func sizeOf(thread *golo.Thread, v golo.Value) (int, error) {
	switch v := v.(type) {
	case golo.Indexable:
		return v.Len(), nil
	case golo.String:
		return len([]rune(string(v))), nil
	}
	if m := v.Class().LookupMethod("size", 1); m != nil {
		res, err := golo.Call(thread, m, []golo.Value{v})
		if err != nil {
			return 0, err
		}
		if n, ok := res.(golo.Int); ok {
			return int(n), nil
		}
	}
	return 0, errUnhandled
}

func containsValue(elems []golo.Value, x golo.Value) bool {
	for _, e := range elems {
		if golo.Equal(e, x) {
			return true
		}
	}
	return false
}

type intStringer int

func (i intStringer) String() string { return fmt.Sprint(int(i)) }

func named(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	str, ok := args[0].(golo.String)
	if !ok || str == "" {
		return nil, errors.New("named() expects a (non empty) string")
	}
	s.name = string(str)
	return s, nil
}

func isNull(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	if s.actual != golo.None {
		return nil, s.failWithProposition("is null", "")
	}
	return golo.None, nil
}

func isNotNull(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	if s.actual == golo.None {
		return nil, s.failWithProposition("is not null", "")
	}
	return golo.None, nil
}

func isTrue(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	if s.actual != golo.True {
		return nil, s.failWithProposition("is true", "")
	}
	return golo.None, nil
}

func isFalse(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	if s.actual != golo.False {
		return nil, s.failWithProposition("is false", "")
	}
	return golo.None, nil
}

func isCallable(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	if _, ok := s.actual.(golo.Callable); !ok {
		return nil, s.failWithProposition("is callable", "")
	}
	return golo.None, nil
}

func isNotCallable(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	if _, ok := s.actual.(golo.Callable); ok {
		return nil, s.failWithProposition("is not callable", "")
	}
	return golo.None, nil
}

func isEmpty(thread *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	n, err := sizeOf(thread, s.actual)
	if err != nil {
		return nil, err
	}
	if n != 0 {
		return nil, s.failWithProposition("is empty", "")
	}
	return golo.None, nil
}

func isNotEmpty(thread *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	n, err := sizeOf(thread, s.actual)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, s.failWithProposition("is not empty", "")
	}
	return golo.None, nil
}

func hasSize(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	want, ok := args[0].(golo.Int)
	if !ok {
		return nil, errUnhandled
	}
	n, err := sizeOf(thread, s.actual)
	if err != nil {
		return nil, err
	}
	if n != int(want) {
		return nil, s.failWithBadResults("has a size of", want, "is", intStringer(n), "")
	}
	return golo.None, nil
}

func isEqualTo(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	other := args[0]
	switch actual := s.actual.(type) {
	case golo.String:
		// Use unified diff strategy when comparing multiline strings.
		if other, ok := other.(golo.String); ok && strings.Contains(string(actual), "\n") && strings.Contains(string(other), "\n") {
			diff := difflib.ContextDiff{
				A:        difflib.SplitLines(string(other)),
				B:        difflib.SplitLines(string(actual)),
				FromFile: "Expected",
				ToFile:   "Actual",
				Context:  3,
				Eol:      "\n",
			}
			pretty, err := difflib.GetContextDiffString(diff)
			if err != nil {
				return nil, err
			}
			if pretty == "" {
				return golo.None, nil
			}
			return nil, s.failWithProposition("is equal to expected, found diff:\n"+pretty, "")
		}
	case golo.Indexable:
		if other.Class() == actual.Class() {
			if _, err := containsExactlyElementsIn(thread, s, other); err != nil {
				return nil, err
			}
			return inOrder(thread, s)
		}
	}
	if !golo.Equal(s.actual, other) {
		suffix := ""
		if s.actual.String() == other.String() {
			suffix = " However, their string representations are equal."
		}
		return nil, s.failComparingValues("is equal to", other, suffix)
	}
	return golo.None, nil
}

func isNotEqualTo(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	if golo.Equal(s.actual, args[0]) {
		return nil, s.failComparingValues("is not equal to", args[0], "")
	}
	return golo.None, nil
}

func isSameInstanceAs(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	if !golo.Same(s.actual, args[0]) {
		return nil, s.failComparingValues("is the same instance as", args[0], "")
	}
	return golo.None, nil
}

func isNotSameInstanceAs(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	if golo.Same(s.actual, args[0]) {
		return nil, s.failComparingValues("is not the same instance as", args[0], "")
	}
	return golo.None, nil
}

// in reports whether the subject is an element of the collection,
// or a substring of the string.
func (s *Subject) in(thread *golo.Thread, collection golo.Value) (bool, error) {
	if str, ok := collection.(golo.String); ok {
		if actual, ok := s.actual.(golo.String); ok {
			return strings.Contains(string(str), string(actual)), nil
		}
		return false, errUnhandled
	}
	elems, err := elements(thread, collection)
	if err != nil {
		return false, err
	}
	return containsValue(elems, s.actual), nil
}

func isIn(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	ok, err := s.in(thread, args[0])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.failComparingValues("is equal to any of", args[0], "")
	}
	return golo.None, nil
}

func isNotIn(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	ok, err := s.in(thread, args[0])
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, s.failComparingValues("is not in", args[0], "")
	}
	return golo.None, nil
}

func isAnyOf(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return isIn(thread, s, golo.NewArray(args))
}

func isNoneOf(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return isNotIn(thread, s, golo.NewArray(args))
}

func isOfType(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	name, ok := args[0].(golo.String)
	if !ok {
		return nil, errUnhandled
	}
	if !s.actual.Class().Is(string(name)) {
		msg := fmt.Sprintf("is of type <%s>", name)
		suffix := fmt.Sprintf(" However, it is of type <%s>", s.actual.Class())
		return nil, s.failWithProposition(msg, suffix)
	}
	return golo.None, nil
}

func isNotOfType(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	name, ok := args[0].(golo.String)
	if !ok {
		return nil, errUnhandled
	}
	if s.actual.Class().Is(string(name)) {
		msg := fmt.Sprintf("is not of type <%s>", name)
		suffix := fmt.Sprintf(" However, it is of type <%s>", s.actual.Class())
		return nil, s.failWithProposition(msg, suffix)
	}
	return golo.None, nil
}

// compareWith checks the three-way comparison of the subject with
// other against ok.
func (s *Subject) compareWith(check, verb string, other golo.Value, ok func(c int) bool) (golo.Value, error) {
	if err := s.failNull(check, other); err != nil {
		return nil, err
	}
	c, err := golo.Compare(s.actual, other)
	if err != nil {
		return nil, errUnhandled
	}
	if !ok(c) {
		return nil, s.failComparingValues(verb, other, "")
	}
	return golo.None, nil
}

func isLessThan(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return s.compareWith("isLessThan", "is less than", args[0], func(c int) bool { return c < 0 })
}

func isGreaterThan(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return s.compareWith("isGreaterThan", "is greater than", args[0], func(c int) bool { return c > 0 })
}

func isAtMost(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return s.compareWith("isAtMost", "is at most", args[0], func(c int) bool { return c <= 0 })
}

func isAtLeast(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return s.compareWith("isAtLeast", "is at least", args[0], func(c int) bool { return c >= 0 })
}

func contains(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	if actual, ok := s.actual.(golo.String); ok {
		sub, ok := args[0].(golo.String)
		if !ok {
			return nil, errUnhandled
		}
		if !strings.Contains(string(actual), string(sub)) {
			return nil, s.failComparingValues("contains", sub, "")
		}
		return golo.None, nil
	}
	elems, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	if !containsValue(elems, args[0]) {
		return nil, s.failComparingValues("contains", args[0], "")
	}
	return golo.None, nil
}

func doesNotContain(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	if actual, ok := s.actual.(golo.String); ok {
		sub, ok := args[0].(golo.String)
		if !ok {
			return nil, errUnhandled
		}
		if strings.Contains(string(actual), string(sub)) {
			return nil, s.failComparingValues("does not contain", sub, "")
		}
		return golo.None, nil
	}
	elems, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	if containsValue(elems, args[0]) {
		return nil, s.failComparingValues("does not contain", args[0], "")
	}
	return golo.None, nil
}

func containsNoDuplicates(thread *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	elems, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	counter := newDuplicateCounter()
	for _, e := range elems {
		counter.Increment(e)
	}
	if counter.HasDupes() {
		return nil, s.failWithBadResults("has no duplicates", golo.NewArray(elems), "contains", stringer(counter.Dupes()), "")
	}
	return golo.None, nil
}

type stringer string

func (s stringer) String() string { return string(s) }

func containsAllOf(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	elems, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	expected := golo.NewArray(args)
	missing := newDuplicateCounter()
	for _, x := range args {
		if !containsValue(elems, x) {
			missing.Increment(x)
		}
	}
	if !missing.Empty() {
		return nil, s.failWithBadResults("contains all of", expected, "is missing", missing, "")
	}

	// The expected values are in order if they form a subsequence
	// of the actual elements.
	j := 0
	for _, e := range elems {
		if j < len(args) && golo.Equal(e, args[j]) {
			j++
		}
	}
	s.forOrdering = &forOrdering{}
	if j < len(args) {
		s.forOrdering.inOrderError = s.failComparingValues("contains all elements in order", expected, "")
	}
	return s, nil
}

func containsAnyOf(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	elems, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	for _, x := range args {
		if containsValue(elems, x) {
			return golo.None, nil
		}
	}
	return nil, s.failComparingValues("contains any of", golo.NewArray(args), "")
}

func containsNoneOf(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	elems, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	present := newDuplicateCounter()
	for _, x := range args {
		if containsValue(elems, x) {
			present.Increment(x)
		}
	}
	if !present.Empty() {
		return nil, s.failWithBadResults("contains none of", golo.NewArray(args), "contains", present, "")
	}
	return golo.None, nil
}

func containsExactly(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	warn := false
	if len(args) == 1 {
		_, warn = args[0].(*golo.Array)
	}
	return s.containsExactlyElementsIn(thread, golo.NewArray(args), warn)
}

func containsExactlyElementsIn(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return s.containsExactlyElementsIn(thread, args[0], false)
}

// containsExactlyElementsIn determines if the subject contains exactly
// the expected elements. The subject may then be asked whether they
// appear in order.
func (s *Subject) containsExactlyElementsIn(thread *golo.Thread, expected golo.Value, warnElementsIn bool) (golo.Value, error) {
	actual, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	want, err := elements(thread, expected)
	if err != nil {
		return nil, err
	}
	warning := ""
	if warnElementsIn {
		warning = warnContainsExactlySingleArray
	}

	if len(want) == 0 {
		if len(actual) != 0 {
			return nil, s.failWithProposition("is empty", warning)
		}
		s.forOrdering = &forOrdering{}
		return s, nil
	}

	// Step through both sequences comparing elements pairwise. As soon
	// as a pair differs, inOrder cannot succeed, and the rest of the
	// elements are compared as multisets.
	i := 0
	for i < len(actual) && i < len(want) && golo.Equal(actual[i], want[i]) {
		i++
	}
	if i == len(actual) && i == len(want) {
		s.forOrdering = &forOrdering{}
		return s, nil
	}

	missing := newDuplicateCounter()
	extra := newDuplicateCounter()
	for _, e := range want[i:] {
		missing.Increment(e)
	}
	for _, e := range actual[i:] {
		if missing.Contains(e) {
			missing.Decrement(e)
		} else {
			extra.Increment(e)
		}
	}

	switch {
	case missing.Empty() && extra.Empty():
		s.forOrdering = &forOrdering{
			inOrderError: s.failComparingValues("contains exactly these elements in order", expected, ""),
		}
		return s, nil
	case extra.Empty():
		return nil, s.failWithBadResults("contains exactly", expected, "is missing", missing, warning)
	case missing.Empty():
		return nil, s.failWithBadResults("contains exactly", expected, "has unexpected items", extra, warning)
	}
	msg := fmt.Sprintf("%s> and has unexpected items <%s", missing, extra)
	return nil, s.failWithBadResults("contains exactly", expected, "is missing", stringer(msg), warning)
}

func inOrder(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	if s.forOrdering == nil {
		return nil, errUnhandled
	}
	if err := s.forOrdering.inOrderError; err != nil {
		return nil, err
	}
	return golo.None, nil
}

func isOrdered(thread *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	return s.pairwiseCheck(thread, nil, false)
}

func isStrictlyOrdered(thread *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	return s.pairwiseCheck(thread, nil, true)
}

func isOrderedAccordingTo(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	cmp, ok := args[0].(golo.Callable)
	if !ok {
		return nil, errUnhandled
	}
	return s.pairwiseCheck(thread, cmp, false)
}

func isStrictlyOrderedAccordingTo(thread *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	cmp, ok := args[0].(golo.Callable)
	if !ok {
		return nil, errUnhandled
	}
	return s.pairwiseCheck(thread, cmp, true)
}

// pairwiseCheck compares adjacent elements of the subject, using cmp
// if not nil.
func (s *Subject) pairwiseCheck(thread *golo.Thread, cmp golo.Callable, strict bool) (golo.Value, error) {
	elems, err := elements(thread, s.actual)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(elems); i++ {
		prev, next := elems[i-1], elems[i]
		var c int
		if cmp == nil {
			if c, err = golo.Compare(prev, next); err != nil {
				return nil, err
			}
		} else {
			res, err := golo.Call(thread, cmp, []golo.Value{prev, next})
			if err != nil {
				return nil, err
			}
			n, ok := res.(golo.Int)
			if !ok {
				return nil, fmt.Errorf("comparator returned %s, want Integer", res.Class())
			}
			c = int(n)
		}
		if c > 0 || (strict && c == 0) {
			verb := "is ordered"
			if strict {
				verb = "is strictly ordered"
			}
			msg := fmt.Sprintf("%s <%s %s>", verb, repr(prev), repr(next))
			return nil, s.failWithProposition(msg, "")
		}
	}
	return golo.None, nil
}

func stringPair(s *Subject, arg golo.Value) (string, string, error) {
	actual, ok := s.actual.(golo.String)
	if !ok {
		return "", "", errUnhandled
	}
	other, ok := arg.(golo.String)
	if !ok {
		return "", "", errUnhandled
	}
	return string(actual), string(other), nil
}

func startsWith(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	actual, prefix, err := stringPair(s, args[0])
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(actual, prefix) {
		return nil, s.failComparingValues("starts with", args[0], "")
	}
	return golo.None, nil
}

func endsWith(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	actual, suffix, err := stringPair(s, args[0])
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(actual, suffix) {
		return nil, s.failComparingValues("ends with", args[0], "")
	}
	return golo.None, nil
}

func (s *Subject) match(arg golo.Value, anchored bool) (bool, error) {
	actual, pattern, err := stringPair(s, arg)
	if err != nil {
		return false, err
	}
	if anchored {
		pattern = "^" + pattern
	}
	r, err := regexp.Compile(pattern)
	if err != nil {
		return false, newInvalidAssertion(err.Error())
	}
	return r.MatchString(actual), nil
}

func matches(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	ok, err := s.match(args[0], true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.failWithProposition(fmt.Sprintf("matches <%s>", args[0]), "")
	}
	return golo.None, nil
}

func doesNotMatch(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	ok, err := s.match(args[0], true)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, s.failWithProposition(fmt.Sprintf("fails to match <%s>", args[0]), "")
	}
	return golo.None, nil
}

func containsMatch(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	ok, err := s.match(args[0], false)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.failWithProposition(fmt.Sprintf("should have contained a match for <%s>", args[0]), "")
	}
	return golo.None, nil
}

func doesNotContainMatch(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	ok, err := s.match(args[0], false)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, s.failWithProposition(fmt.Sprintf("should not have contained a match for <%s>", args[0]), "")
	}
	return golo.None, nil
}

func (s *Subject) number() (float64, error) {
	f, ok := golo.AsFloat(s.actual)
	if !ok {
		return 0, errUnhandled
	}
	return f, nil
}

func isZero(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	f, err := s.number()
	if err != nil {
		return nil, err
	}
	if f != 0 {
		return nil, s.failWithProposition("is zero", "")
	}
	return golo.None, nil
}

func isNonZero(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	f, err := s.number()
	if err != nil {
		return nil, err
	}
	if f == 0 {
		return nil, s.failWithProposition("is non-zero", "")
	}
	return golo.None, nil
}

func isNaN(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	f, err := s.number()
	if err != nil {
		return nil, err
	}
	if !math.IsNaN(f) {
		return nil, s.failWithProposition("is NaN", "")
	}
	return golo.None, nil
}

func isNotNaN(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	f, err := s.number()
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) {
		return nil, s.failWithProposition("is not NaN", "")
	}
	return golo.None, nil
}

func isFinite(_ *golo.Thread, s *Subject, _ ...golo.Value) (golo.Value, error) {
	f, err := s.number()
	if err != nil {
		return nil, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, s.failWithProposition("is finite", "")
	}
	return golo.None, nil
}

func isWithin(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return s.setWithinTolerance(args[0], true)
}

func isNotWithin(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	return s.setWithinTolerance(args[0], false)
}

func (s *Subject) setWithinTolerance(tolerance golo.Value, within bool) (golo.Value, error) {
	if _, err := s.number(); err != nil {
		return nil, err
	}
	t, ok := golo.AsFloat(tolerance)
	if !ok || t < 0 || math.IsNaN(t) {
		return nil, newInvalidAssertion(fmt.Sprintf("tolerance must be a non-negative number, got %s", tolerance))
	}
	s.withinTolerance = &withinTolerance{within: within, tolerance: t}
	return s, nil
}

func of(_ *golo.Thread, s *Subject, args ...golo.Value) (golo.Value, error) {
	if s.withinTolerance == nil {
		// of() called, isWithin()/isNotWithin() not called
		return nil, errUnhandled
	}
	expected, ok := golo.AsFloat(args[0])
	if !ok {
		return nil, errUnhandled
	}
	actual, _ := golo.AsFloat(s.actual)
	tolerablyEqual := math.Abs(actual-expected) <= s.withinTolerance.tolerance

	if tolerablyEqual != s.withinTolerance.within {
		notWithin := ""
		if !s.withinTolerance.within {
			notWithin = "not "
		}
		msg := fmt.Sprintf("is %swithin %s of <%s>", notWithin, golo.Float(s.withinTolerance.tolerance), args[0])
		return nil, s.failWithProposition(msg, "")
	}
	return golo.None, nil
}
