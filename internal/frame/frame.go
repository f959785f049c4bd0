package frame

import (
	"strconv"
	"time"

	"github.com/getsentry/timekeeper/internal/nodetree"
)

type (
	// ThreadID identifies a recording context. IDs are handed out by the
	// profiler and never reused within a process.
	ThreadID uint64

	// Snapshot is a completed frame handed from a recorder to the consumer.
	// The consumer owns Root exclusively once the snapshot has been pushed.
	Snapshot struct {
		ThreadID   ThreadID
		ThreadName string
		Root       *nodetree.Node
		Elapsed    time.Duration
	}
)

func (id ThreadID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// DefaultThreadName is the name given to a frame root when the caller did
// not provide one.
func DefaultThreadName(id ThreadID) string {
	return "Thread: " + id.String()
}

// ParseThreadID parses the decimal form returned by ThreadID.String.
func ParseThreadID(s string) (ThreadID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ThreadID(v), nil
}
