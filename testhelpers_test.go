package taskrt

import "time"

const (
	secondTimeout = 2 * time.Second
	pollInterval  = time.Millisecond
)
