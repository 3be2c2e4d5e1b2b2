package lox

import (
	"time"
)

var builtins = []*Native{
	NewNative("clock", 0, execClock),
}

// execClock returns the number of seconds elapsed since the Unix epoch.
func execClock(_ []Value) (Value, error) {
	now := time.Now()
	return Number(float64(now.UnixNano()) / float64(time.Second)), nil
}
