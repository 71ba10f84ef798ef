package clock

import "time"

// Clock supplies the current time. Services take one so tests can pin it.
type Clock interface {
	Now() time.Time
}

type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// System returns the wall clock in UTC.
func System() Clock {
	return Func(func() time.Time { return time.Now().UTC() })
}

// Fixed always returns t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
