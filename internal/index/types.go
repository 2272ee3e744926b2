package index

// PathHashMap maps a file's path relative to the tree root (native
// separators, no leading separator) to the upper-hex digest of its content.
type PathHashMap map[string]string

// FileError records a single file that could not be hashed during a walk.
// The walk itself continues past it.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e FileError) Unwrap() error { return e.Err }

// candidate is a regular file found during enumeration, before hashing.
type candidate struct {
	rel  string
	abs  string
	size int64
}
