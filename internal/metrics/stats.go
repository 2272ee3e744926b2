package metrics

import "time"

// Stats accumulates counters for one verification run. Counter fields are
// updated with sync/atomic from hashing workers.
type Stats struct {
	Total      int64
	TotalBytes int64

	Processed  int64
	Verified   int64
	Mismatches int64
	Missing    int64
	Skipped    int64
	HashErrors int64

	BytesHashed int64
	Started     time.Time
	Finished    time.Time
}

func (s *Stats) Start() { s.Started = time.Now() }
func (s *Stats) Stop()  { s.Finished = time.Now() }
func (s *Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}
