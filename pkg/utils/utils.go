package utils

import (
	"log"
	"time"
)

// GoSafe runs fn in a goroutine and recovers panics, so a misbehaving
// timer path cannot take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Panic Recovered] %v", r)
			}
		}()
		fn()
	}()
}

func ToPointer[T any](value T) *T {
	return &value
}

// LoadLocation resolves a config time-zone name, falling back to the
// process-local zone on empty or "Local".
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
