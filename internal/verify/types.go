package verify

// Outcome classifies one source file after comparison.
type Outcome int

const (
	Verified Outcome = iota
	Mismatch
	MissingInDestination
)

func (o Outcome) String() string {
	switch o {
	case Verified:
		return "Verified"
	case Mismatch:
		return "Hash mismatch"
	case MissingInDestination:
		return "Missing in destination"
	default:
		return "Unknown"
	}
}

// Report summarizes one verification pass.
type Report struct {
	Verified   int64
	Mismatched int64
	Missing    int64
	// Skipped counts source files excluded up front because the checkpoint
	// already confirmed them.
	Skipped int64

	// Errors holds one human-readable line per finding, in log order:
	// mismatches, missing files, and per-file hashing failures.
	Errors []string
}

// Failed reports whether the pass found anything wrong, so callers can exit
// with a status distinct from the mirror step's.
func (r *Report) Failed() bool { return len(r.Errors) > 0 }

// MultiSplitResult describes a ranged comparison of two or more files, used
// to localize where copies of the same file diverge.
type MultiSplitResult struct {
	Algorithm       string
	Splits          int
	Paths           []string
	Sizes           []int64
	SplitHashes     [][]string
	DifferingSplits []int
	TailBytes       []int64
	MinSize         int64
	MaxSize         int64
}
