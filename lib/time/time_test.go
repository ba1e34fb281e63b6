package time

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.golo.dev/golo"
)

func call(th *golo.Thread, name string, args ...golo.Value) (golo.Value, error) {
	return Module.Call(th, name, args...)
}

func TestPerThreadNowReturnsCorrectTime(t *testing.T) {
	th := &golo.Thread{}
	date := time.Date(1, 2, 3, 4, 5, 6, 7, time.UTC)
	SetNow(th, func() (time.Time, error) {
		return date, nil
	})

	res, err := call(th, "now")
	if err != nil {
		t.Fatal(err)
	}

	retTime := time.Time(res.(Time))

	if !retTime.Equal(date) {
		t.Fatal("Expected time to be equal", retTime, date)
	}
}

func TestPerThreadNowReturnsError(t *testing.T) {
	th := &golo.Thread{}
	e := errors.New("no time")
	SetNow(th, func() (time.Time, error) {
		return time.Time{}, e
	})

	_, err := call(th, "now")
	if !errors.Is(err, e) {
		t.Fatal("Expected equal error", e, err)
	}
}

func TestGlobalNowReturnsCorrectTime(t *testing.T) {
	th := &golo.Thread{}

	oldNow := NowFunc
	defer func() {
		NowFunc = oldNow
	}()

	date := time.Date(1, 2, 3, 4, 5, 6, 7, time.UTC)
	NowFunc = func() time.Time {
		return date
	}

	res, err := call(th, "now")
	if err != nil {
		t.Fatal(err)
	}

	retTime := time.Time(res.(Time))

	if !retTime.Equal(date) {
		t.Fatal("Expected time to be equal", retTime, date)
	}
}

func TestGlobalNowReturnsErrorWhenNil(t *testing.T) {
	th := &golo.Thread{}

	oldNow := NowFunc
	defer func() {
		NowFunc = oldNow
	}()

	NowFunc = nil

	_, err := call(th, "now")
	if err == nil {
		t.Fatal("Expected to get an error")
	}
}

func TestClocks(t *testing.T) {
	th := &golo.Thread{}
	date := time.Date(2021, 6, 1, 0, 0, 1, 500, time.UTC)
	SetNow(th, func() (time.Time, error) { return date, nil })

	res, err := call(th, "nanoTime")
	require.NoError(t, err)
	require.Equal(t, golo.Long(date.UnixNano()), res)

	res, err = call(th, "currentTimeMillis")
	require.NoError(t, err)
	require.Equal(t, golo.Long(date.UnixMilli()), res)
}

func TestSleep(t *testing.T) {
	oldSleep := SleepFunc
	defer func() { SleepFunc = oldSleep }()
	var slept []time.Duration
	SleepFunc = func(d time.Duration) { slept = append(slept, d) }

	th := &golo.Thread{}
	for _, arg := range []golo.Value{golo.Int(5), golo.String("1s"), Duration(time.Minute)} {
		_, err := call(th, "sleep", arg)
		require.NoError(t, err)
	}
	require.Equal(t, []time.Duration{5, time.Second, time.Minute}, slept)

	_, err := call(th, "sleep", golo.True)
	require.EqualError(t, err, "sleep: cannot convert Boolean to gololang.time.Duration")
}

const src = `
module golotest.Time

import gololang.Time
import gololang.time

function test = {
  let start = Time(2009, 11, 10, 23, 0, 0, 0, "UTC")
  let d = parseDuration("1h30m")
  let later = start + d
  return array[
    later: format("2006-01-02 15:04"),
    later - start == d,
    (later - start): minutes(),
    start < later,
    later: year(),
    d * 2,
    d / Duration("30m"),
    fromTimestamp(0): unix(),
    parseTime("2020-02-29", "2006-01-02"): day()
  ]
}

function deterministic = {
  return array[now(): year(), currentTimeMillis()]
}
`

func TestGoloProgram(t *testing.T) {
	th := &golo.Thread{}
	date := time.Date(1999, 12, 31, 23, 59, 59, 0, time.UTC)
	SetNow(th, func() (time.Time, error) { return date, nil })

	m, err := golo.ExecFile(th, "time.golo", src)
	require.NoError(t, err)

	res, err := m.Call(th, "test")
	require.NoError(t, err)
	require.Equal(t, "array[2009-11-11 00:30, true, 90.0, true, 2009, 3h0m0s, 3, 0, 29]", res.String())

	res, err = m.Call(th, "deterministic")
	require.NoError(t, err)
	require.Equal(t, "array[1999, 946684799000]", res.String())
}
