package services

import "time"

// timeNow is swapped out in tests that need deterministic timestamps.
var timeNow = time.Now
