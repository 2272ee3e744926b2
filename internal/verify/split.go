package verify

import (
	"fmt"
	"os"
	"strings"

	"mirrorverify/internal/index"
)

// CompareFileSplitsMany hashes each file in splits equal-sized ranges over
// the common-size overlap and reports which ranges differ. After the engine
// reports a mismatch, this localizes roughly where in the file the copies
// diverge without a byte-by-byte diff.
func CompareFileSplitsMany(paths []string, splits int, algorithm string) (*MultiSplitResult, error) {
	if len(paths) < 2 {
		return nil, fmt.Errorf("need at least 2 files")
	}
	if splits <= 0 {
		return nil, fmt.Errorf("splits must be > 0")
	}
	if strings.TrimSpace(algorithm) == "" {
		return nil, fmt.Errorf("algorithm must be specified")
	}

	sizes := make([]int64, len(paths))
	var minSize, maxSize int64

	for i, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		sz := st.Size()
		sizes[i] = sz

		if i == 0 {
			minSize, maxSize = sz, sz
		} else {
			if sz < minSize {
				minSize = sz
			}
			if sz > maxSize {
				maxSize = sz
			}
		}
	}

	base := minSize / int64(splits)
	rem := minSize % int64(splits)

	splitHashes := make([][]string, splits)
	for i := range splitHashes {
		splitHashes[i] = make([]string, len(paths))
	}

	var offset int64
	for s := 0; s < splits; s++ {
		chunkLen := base
		if int64(s) < rem {
			chunkLen++
		}
		start := offset
		offset += chunkLen

		for fi, p := range paths {
			hx, err := index.FileHashHexRange(p, algorithm, start, chunkLen)
			if err != nil {
				return nil, err
			}
			splitHashes[s][fi] = hx
		}
	}

	differing := make([]int, 0)
	for s := 0; s < splits; s++ {
		ref := splitHashes[s][0]
		for fi := 1; fi < len(paths); fi++ {
			if splitHashes[s][fi] != ref {
				differing = append(differing, s)
				break
			}
		}
	}

	tails := make([]int64, len(paths))
	if minSize != maxSize {
		for i := range sizes {
			if sizes[i] > minSize {
				tails[i] = sizes[i] - minSize
			}
		}
	}

	return &MultiSplitResult{
		Algorithm:       algorithm,
		Splits:          splits,
		Paths:           paths,
		Sizes:           sizes,
		MinSize:         minSize,
		MaxSize:         maxSize,
		SplitHashes:     splitHashes,
		DifferingSplits: differing,
		TailBytes:       tails,
	}, nil
}
