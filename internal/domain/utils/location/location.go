package location

import "time"

var loc = time.UTC

// Set loads the process-wide time location. Called once from config
// bootstrap before anything reads the clock.
func Set(name string) error {
	l, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	loc = l
	return nil
}

func Location() *time.Location {
	return loc
}

// Now returns the current wall-clock time in the configured location.
func Now() time.Time {
	return time.Now().In(loc)
}
