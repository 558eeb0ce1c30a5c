package attendance

import "time"

// Window is the daily interval during which marking is permitted, in minutes
// since local midnight, inclusive of both bounds. The server's wall clock is
// authoritative; a single-city deployment makes that acceptable.
type Window struct {
	StartMinute int
	EndMinute   int
}

// DefaultWindow is 06:00–11:00.
func DefaultWindow() Window {
	return Window{StartMinute: 6 * 60, EndMinute: 11 * 60}
}

func (w Window) Within(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.StartMinute && m <= w.EndMinute
}
