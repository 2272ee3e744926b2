package index

import (
	"crypto/md5"  // #nosec G501 -- used for file integrity verification only
	"crypto/sha1" // #nosec G505 -- used for file integrity verification only
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/zeebo/xxh3"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = "SHA256"

func newHasher(algorithm string) (hash.Hash, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case "SHA256":
		return sha256.New(), nil
	case "SHA1":
		return sha1.New(), nil // #nosec G401 -- used for file integrity verification only
	case "SHA512":
		return sha512.New(), nil
	case "SHA384":
		return sha512.New384(), nil
	case "MD5":
		return md5.New(), nil // #nosec G401 -- used for file integrity verification only
	case "XXH3":
		return xxh3.New(), nil
	default:
		return nil, fmt.Errorf("unsupported algorithm: %q", algorithm)
	}
}

// FileHashHex streams the file through the configured hasher and returns the
// upper-hex digest. onProgress, when non-nil, receives byte counts as the
// file is consumed.
func FileHashHex(path string, algorithm string, onProgress func(n int64)) (string, error) {
	h, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 1<<20) // 1 MiB
	var pending int64
	flush := func() {
		if pending > 0 && onProgress != nil {
			onProgress(pending)
			pending = 0
		}
	}

	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			pending += int64(n)
			if pending >= int64(1<<20) {
				flush()
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}
	flush()

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

// FileHashHexRange hashes length bytes of the file starting at start. Used by
// split comparison to localize where two copies of a file diverge.
func FileHashHexRange(path string, algorithm string, start, length int64) (string, error) {
	if start < 0 || length < 0 {
		return "", fmt.Errorf("invalid range: start=%d length=%d", start, length)
	}

	h, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 1<<20)

	var read int64
	for read < length {
		toRead := int64(len(buf))
		if remain := length - read; remain < toRead {
			toRead = remain
		}

		n, rerr := f.ReadAt(buf[:toRead], start+read)
		if n > 0 {
			if _, werr := h.Write(buf[:n]); werr != nil {
				return "", werr
			}
			read += int64(n)
		}

		if rerr != nil {
			if rerr == io.EOF && read == length {
				break
			}
			if rerr == io.EOF {
				return "", fmt.Errorf("unexpected EOF at offset %d (wanted %d bytes total)", start+read, length)
			}
			return "", rerr
		}
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
