package timing

import (
	"log"
	"math"
	"time"
)

// Freq defines the type of frequency.
type Freq float64

// Defines the unit of frequency.
const (
	Hz  Freq = 1
	KHz Freq = 1e3
)

// Valid reports whether f is a positive, finite frequency. NaN is not valid.
func (f Freq) Valid() bool {
	return f > 0 && !math.IsInf(float64(f), 1)
}

// Period returns the time between two consecutive ticks.
func (f Freq) Period() time.Duration {
	if !f.Valid() {
		log.Panicf("frequency %v must be positive and finite", float64(f))
	}

	return time.Duration(float64(time.Second) / float64(f))
}

// FreqOf returns the frequency whose period is d.
func FreqOf(d time.Duration) Freq {
	if d <= 0 {
		log.Panic("period must be positive")
	}

	return Freq(float64(time.Second) / float64(d))
}
