/*
Package time defines time primitives for Golo, based heavily on the time
package from the go standard library.

	module: gololang.Time
	  functions:
	    now() Time
	      the current time, from NowFunc or the thread's SetNow override
	    nanoTime() Long
	      the current time in nanoseconds
	    currentTimeMillis() Long
	      milliseconds since the Unix epoch
	    fromTimestamp(seconds) Time
	      convert a Unix timestamp
	    parseTime(x, layout[, location]) Time
	      parse a time
	    parseDuration(string) Duration
	      parse a duration such as "1h30m"
	    sleep(duration)
	      pause the current goroutine

	  classes:
	    gololang.time.Duration
	      constructor:
	        Duration(nanoseconds | string | Duration)
	      methods:
	        hours() minutes() seconds() Double
	        nanoseconds() Long
	      operators:
	        duration + duration = duration
	        duration + time = time
	        duration - duration = duration
	        duration * int = duration
	        duration / duration = Long
	        duration / int = duration
	        duration == duration, duration < duration = Boolean
	    gololang.time.Time
	      constructor:
	        Time(year, month, day, hour, minute, second, nanosecond, location)
	      methods:
	        year() month() day() hour() minute() second() nanosecond()
	        unix() unixNano()
	        inLocation(string) Time
	          the same instant in a different location
	        format(string) String
	          textual representation according to a layout string
	      operators:
	        time == time, time < time = Boolean
	        time + duration = time
	        time - duration = time
	        time - time = duration
*/
package time // import "go.golo.dev/lib/time"
