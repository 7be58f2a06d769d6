package loadtest

import "time"

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
)

// Verification constants.
const (
	percentageMultiplier = 100
	scoreTolerance       = 1e-9
	codeInvalidInput     = "invalid_input"
	maxMismatchLogs      = 10
)
