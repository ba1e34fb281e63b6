package time

import (
	"errors"
	"fmt"
	"time"

	"go.golo.dev/golo"
)

// ModuleName defines the name under which this module is imported by
// Golo programs.
const ModuleName = "gololang.Time"

// Module is a Go module of time-related functions.
var Module = golo.NewGoModule(ModuleName,
	golo.NewBuiltin("now", 0, false, now),
	golo.NewBuiltin("nanoTime", 0, false, nanoTime),
	golo.NewBuiltin("currentTimeMillis", 0, false, currentTimeMillis),
	golo.NewBuiltin("fromTimestamp", 1, false, fromTimestamp),
	golo.NewBuiltin("parseTime", 2, false, parseTime),
	golo.NewBuiltin("parseTime", 3, false, parseTime),
	golo.NewBuiltin("parseDuration", 1, false, parseDuration),
	golo.NewBuiltin("sleep", 1, false, sleep),
)

// The classes of the values of this module.
var (
	TimeClass     = golo.NewClass("gololang.time.Time", golo.ObjectClass)
	DurationClass = golo.NewClass("gololang.time.Duration", golo.ObjectClass)
)

func init() {
	golo.RegisterModule(Module)

	TimeClass.AddConstructor(golo.NewBuiltin("Time", 8, false, newTime))
	for _, m := range []*golo.Builtin{
		timeField("year", func(t time.Time) int64 { return int64(t.Year()) }),
		timeField("month", func(t time.Time) int64 { return int64(t.Month()) }),
		timeField("day", func(t time.Time) int64 { return int64(t.Day()) }),
		timeField("hour", func(t time.Time) int64 { return int64(t.Hour()) }),
		timeField("minute", func(t time.Time) int64 { return int64(t.Minute()) }),
		timeField("second", func(t time.Time) int64 { return int64(t.Second()) }),
		timeField("nanosecond", func(t time.Time) int64 { return int64(t.Nanosecond()) }),
		timeField("unix", time.Time.Unix),
		timeField("unixNano", time.Time.UnixNano),
		golo.NewBuiltin("format", 2, false, timeFormat),
		golo.NewBuiltin("inLocation", 2, false, timeIn),
		golo.NewBuiltin("plus", 2, false, timePlus),
		golo.NewBuiltin("minus", 2, false, timeMinus),
		golo.NewBuiltin("compareTo", 2, false, timeCompareTo),
		golo.NewBuiltin("equals", 2, false, timeEquals),
	} {
		TimeClass.AddMethod(m)
	}
	golo.RegisterClass(TimeClass)

	DurationClass.AddConstructor(golo.NewBuiltin("Duration", 1, false, newDuration))
	for _, m := range []*golo.Builtin{
		golo.NewBuiltin("hours", 1, false, durationFloat(time.Duration.Hours)),
		golo.NewBuiltin("minutes", 1, false, durationFloat(time.Duration.Minutes)),
		golo.NewBuiltin("seconds", 1, false, durationFloat(time.Duration.Seconds)),
		golo.NewBuiltin("nanoseconds", 1, false, durationNanoseconds),
		golo.NewBuiltin("plus", 2, false, durationPlus),
		golo.NewBuiltin("minus", 2, false, durationMinus),
		golo.NewBuiltin("times", 2, false, durationTimes),
		golo.NewBuiltin("divide", 2, false, durationDivide),
		golo.NewBuiltin("compareTo", 2, false, durationCompareTo),
		golo.NewBuiltin("equals", 2, false, durationEquals),
	} {
		DurationClass.AddMethod(m)
	}
	golo.RegisterClass(DurationClass)
}

// NowFunc is a function that generates the current time. Intentionally exported
// so that it can be overridden, for example by applications that require their
// Golo programs to be fully deterministic.
var NowFunc = time.Now

// SleepFunc is a function that pauses the current goroutine for at least d.
// Intentionally exported so that it can be overridden, for example by
// applications that require their Golo programs to be fully deterministic.
var SleepFunc = time.Sleep

const nowKey = "gololang.Time.now"

// SetNow sets the function that the now, nanoTime and
// currentTimeMillis functions call in the specified thread,
// overriding NowFunc.
func SetNow(thread *golo.Thread, nowFunc func() (time.Time, error)) {
	thread.SetLocal(nowKey, nowFunc)
}

var errNoNow = errors.New("time.now() is not available")

func currentTime(thread *golo.Thread) (time.Time, error) {
	if nowFunc, ok := thread.Local(nowKey).(func() (time.Time, error)); ok {
		return nowFunc()
	}
	if NowFunc == nil {
		return time.Time{}, errNoNow
	}
	return NowFunc(), nil
}

func now(thread *golo.Thread, _ *golo.Builtin, _ []golo.Value) (golo.Value, error) {
	t, err := currentTime(thread)
	if err != nil {
		return nil, err
	}
	return Time(t), nil
}

// nanoTime returns the current time in nanoseconds, as a Long.
func nanoTime(thread *golo.Thread, _ *golo.Builtin, _ []golo.Value) (golo.Value, error) {
	t, err := currentTime(thread)
	if err != nil {
		return nil, err
	}
	return golo.Long(t.UnixNano()), nil
}

// currentTimeMillis returns the number of milliseconds since the Unix epoch, as a Long.
func currentTimeMillis(thread *golo.Thread, _ *golo.Builtin, _ []golo.Value) (golo.Value, error) {
	t, err := currentTime(thread)
	if err != nil {
		return nil, err
	}
	return golo.Long(t.UnixMilli()), nil
}

func fromTimestamp(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var x int64
	if err := golo.UnpackArgs(b.Name(), args, &x); err != nil {
		return nil, err
	}
	return Time(time.Unix(x, 0)), nil
}

// parseTime(x, format[, location]) parses a time.
func parseTime(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var x, format, location string
	vars := []interface{}{&x, &format}
	if len(args) == 3 {
		vars = append(vars, &location)
	}
	if err := golo.UnpackArgs(b.Name(), args, vars...); err != nil {
		return nil, err
	}

	if location == "" {
		t, err := time.Parse(format, x)
		if err != nil {
			return nil, err
		}
		return Time(t), nil
	}

	loc, err := time.LoadLocation(location)
	if err != nil {
		return nil, err
	}
	t, err := time.ParseInLocation(format, x, loc)
	if err != nil {
		return nil, err
	}
	return Time(t), nil
}

func parseDuration(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var s string
	if err := golo.UnpackArgs(b.Name(), args, &s); err != nil {
		return nil, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, err
	}
	return Duration(d), nil
}

func sleep(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	d, err := asDuration(b.Name(), args[0])
	if err != nil {
		return nil, err
	}
	SleepFunc(time.Duration(d))
	return golo.None, nil
}

// Duration is a Golo representation of a duration.
type Duration time.Duration

// asDuration converts a Duration, a number of nanoseconds, or a
// duration string such as "1h30m" to a Duration.
func asDuration(fnname string, v golo.Value) (Duration, error) {
	switch x := v.(type) {
	case Duration:
		return x, nil
	case golo.Int:
		return Duration(x), nil
	case golo.Long:
		return Duration(x), nil
	case golo.String:
		d, err := time.ParseDuration(string(x))
		if err != nil {
			return 0, err
		}
		return Duration(d), nil
	}
	return 0, fmt.Errorf("%s: cannot convert %s to %s", fnname, v.Class(), DurationClass)
}

func newDuration(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	d, err := asDuration(b.Name(), args[0])
	if err != nil {
		return nil, err
	}
	return d, nil
}

// String implements the Stringer interface.
func (d Duration) String() string { return time.Duration(d).String() }

// Class returns gololang.time.Duration.
func (d Duration) Class() *golo.Class { return DurationClass }

func durationFloat(f func(time.Duration) float64) func(*golo.Thread, *golo.Builtin, []golo.Value) (golo.Value, error) {
	return func(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
		return golo.Float(f(time.Duration(args[0].(Duration)))), nil
	}
}

func durationNanoseconds(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
	return golo.Long(args[0].(Duration)), nil
}

// The arithmetic methods implement these operators:
//
//	duration + duration = duration
//	duration + int = duration
//	duration + time = time
//	duration - duration = duration
//	duration - int = duration
//	duration * int = duration
//	duration / duration = Long
//	duration / int = duration
func durationPlus(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := args[0].(Duration)
	switch y := args[1].(type) {
	case Time:
		return Time(time.Time(y).Add(time.Duration(x))), nil
	case Duration, golo.Int, golo.Long:
		d, _ := asDuration(b.Name(), y)
		return x + d, nil
	}
	return nil, unsupported(b, args)
}

func durationMinus(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := args[0].(Duration)
	switch y := args[1].(type) {
	case Duration, golo.Int, golo.Long:
		d, _ := asDuration(b.Name(), y)
		return x - d, nil
	}
	return nil, unsupported(b, args)
}

func durationTimes(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := args[0].(Duration)
	switch y := args[1].(type) {
	case golo.Int:
		return x * Duration(y), nil
	case golo.Long:
		return x * Duration(y), nil
	}
	return nil, unsupported(b, args)
}

func durationDivide(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := args[0].(Duration)
	switch y := args[1].(type) {
	case Duration:
		if y == 0 {
			return nil, fmt.Errorf("%s division by zero", DurationClass)
		}
		return golo.Long(x / y), nil
	case golo.Int, golo.Long:
		d, _ := asDuration(b.Name(), y)
		if d == 0 {
			return nil, fmt.Errorf("%s division by zero", DurationClass)
		}
		return x / d, nil
	}
	return nil, unsupported(b, args)
}

func durationCompareTo(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := args[0].(Duration)
	y, ok := args[1].(Duration)
	if !ok {
		return nil, unsupported(b, args)
	}
	switch {
	case x < y:
		return golo.Int(-1), nil
	case x > y:
		return golo.Int(+1), nil
	}
	return golo.Int(0), nil
}

func durationEquals(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
	y, ok := args[1].(Duration)
	return golo.Bool(ok && args[0].(Duration) == y), nil
}

// Time is a Golo representation of a point in time.
type Time time.Time

// Time(year, month, day, hour, minute, second, nanosecond, location)
func newTime(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var (
		year, month, day, hour, min, sec, nsec int
		loc                                    string
	)
	if err := golo.UnpackArgs(b.Name(), args, &year, &month, &day, &hour, &min, &sec, &nsec, &loc); err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(loc)
	if err != nil {
		return nil, err
	}
	return Time(time.Date(year, time.Month(month), day, hour, min, sec, nsec, location)), nil
}

// String implements the Stringer interface.
func (t Time) String() string { return time.Time(t).String() }

// Class returns gololang.time.Time.
func (t Time) Class() *golo.Class { return TimeClass }

// timeField returns a method returning an integer field of a time.
func timeField(name string, field func(time.Time) int64) *golo.Builtin {
	return golo.NewBuiltin(name, 1, false, func(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
		x := field(time.Time(args[0].(Time)))
		if int64(int32(x)) == x {
			return golo.Int(x), nil
		}
		return golo.Long(x), nil
	})
}

func timeFormat(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var layout string
	if err := golo.UnpackArgs(b.Name(), args[1:], &layout); err != nil {
		return nil, err
	}
	return golo.String(time.Time(args[0].(Time)).Format(layout)), nil
}

func timeIn(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	var name string
	if err := golo.UnpackArgs(b.Name(), args[1:], &name); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return Time(time.Time(args[0].(Time)).In(loc)), nil
}

// The arithmetic methods implement these operators:
//
//	time + duration = time
//	time - duration = time
//	time - time = duration
func timePlus(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := time.Time(args[0].(Time))
	if y, ok := args[1].(Duration); ok {
		return Time(x.Add(time.Duration(y))), nil
	}
	return nil, unsupported(b, args)
}

func timeMinus(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := time.Time(args[0].(Time))
	switch y := args[1].(type) {
	case Duration:
		return Time(x.Add(-time.Duration(y))), nil
	case Time:
		return Duration(x.Sub(time.Time(y))), nil
	}
	return nil, unsupported(b, args)
}

func timeCompareTo(_ *golo.Thread, b *golo.Builtin, args []golo.Value) (golo.Value, error) {
	x := time.Time(args[0].(Time))
	y, ok := args[1].(Time)
	if !ok {
		return nil, unsupported(b, args)
	}
	return golo.Int(x.Compare(time.Time(y))), nil
}

func timeEquals(_ *golo.Thread, _ *golo.Builtin, args []golo.Value) (golo.Value, error) {
	y, ok := args[1].(Time)
	return golo.Bool(ok && time.Time(args[0].(Time)).Equal(time.Time(y))), nil
}

func unsupported(b *golo.Builtin, args []golo.Value) error {
	return fmt.Errorf("unsupported operation: %s %s %s", args[0].Class(), b.Name(), args[1].Class())
}
