// Package timeline converts external time representations (game day, clock
// time, explicit tick) into the indices consumed by the weather and wind
// resolvers.
package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"jotunheim-weather/internal/domain"
)

const minutesPerDay = 24 * 60

// MaxTick is the largest accepted tick. Shifting by an epoch offset and
// scaling to wind sub-ticks stays within int64 below it.
const MaxTick Tick = math.MaxInt64 / (2 * domain.WindOctaves)

// Tick is elapsed in-game time in seconds. Valid ticks are non-negative.
type Tick int64

// Clock is a wall-clock time inside one game day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM". An empty string is midnight.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Clock{}, nil
	}

	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return Clock{}, fmt.Errorf("%w: clock %q is not HH:MM", domain.ErrInvalidInput, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("%w: bad hour in %q", domain.ErrInvalidInput, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("%w: bad minute in %q", domain.ErrInvalidInput, s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Seconds is the offset of the clock time into the day, in game seconds.
// Fractional seconds are truncated.
func (c Clock) Seconds() int64 {
	return int64(c.Hour*60+c.Minute) * domain.GameDay / minutesPerDay
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DayTick converts a game day number and a clock time into a tick.
func DayTick(day int64, clock Clock) (Tick, error) {
	if day < 0 {
		return 0, fmt.Errorf("%w: negative day %d", domain.ErrInvalidInput, day)
	}
	if day > int64(MaxTick)/domain.GameDay {
		return 0, fmt.Errorf("%w: day %d is too large", domain.ErrInvalidInput, day)
	}
	t := Tick(day*domain.GameDay + clock.Seconds())
	return t, t.Validate()
}

// Day is the game day the tick falls into.
func (t Tick) Day() int64 {
	return int64(t) / domain.GameDay
}

// Clock is the clock time of the tick within its day. It inverts
// Clock.Seconds for every tick produced by DayTick.
func (t Tick) Clock() Clock {
	sec := int64(t) % domain.GameDay
	if sec < 0 {
		sec += domain.GameDay
	}
	minutes := int((sec*minutesPerDay + domain.GameDay - 1) / domain.GameDay)
	if minutes >= minutesPerDay {
		minutes = minutesPerDay - 1
	}
	return Clock{Hour: minutes / 60, Minute: minutes % 60}
}

// Validate rejects ticks outside the supported domain.
func (t Tick) Validate() error {
	if t < 0 {
		return fmt.Errorf("%w: negative tick %d", domain.ErrInvalidInput, t)
	}
	if t > MaxTick {
		return fmt.Errorf("%w: tick %d exceeds %d", domain.ErrInvalidInput, t, MaxTick)
	}
	return nil
}
