package util

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// NewID generates a new unique identifier for records and events.
func NewID() string { return uuid.NewString() }

// instanceID distinguishes execution IDs minted by different processes.
var instanceID = uuid.NewString()[:8]

var executionCounter atomic.Uint64

// NewExecutionID returns a process-unique execution identifier composed of a
// short instance tag and a monotonic counter. Unlike timestamp-plus-random
// schemes this cannot collide within a process, and the instance tag makes
// cross-process collisions negligible.
func NewExecutionID() string {
	return fmt.Sprintf("exec-%s-%d", instanceID, executionCounter.Add(1))
}
