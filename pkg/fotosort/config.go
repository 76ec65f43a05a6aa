// Package fotosort reorganizes a tree of photos into a date-based hierarchy.
package fotosort

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Action is what happens to a file once its destination is known.
type Action int

const (
	// Move renames files within the same root.
	Move Action = iota
	// Copy duplicates files into a separate root, never overwriting.
	Copy
)

func (a Action) String() string {
	if a == Copy {
		return "Copying"
	}
	return "Moving"
}

// Options holds the immutable settings for a single run.
type Options struct {
	Action          Action
	DryRun          bool
	DestinationRoot string
}

// NewOptions validates the source directory and derives run options.
//
// An empty target means the source itself, which selects Move; any other
// target selects Copy. DestinationRoot is absolute and ends in a separator.
func NewOptions(source string, target string, dryRun bool) (Options, error) {
	o := Options{DryRun: dryRun}

	fi, err := os.Stat(source)
	if err != nil {
		return o, fmt.Errorf("%w: %s: %w", ErrInvalidSource, source, err)
	}
	if !fi.IsDir() {
		return o, fmt.Errorf("%w: %s is not a directory", ErrInvalidSource, source)
	}

	src, err := filepath.Abs(source)
	if err != nil {
		return o, fmt.Errorf("abs: %w", err)
	}

	dst := src
	if target != "" {
		dst, err = filepath.Abs(target)
		if err != nil {
			return o, fmt.Errorf("abs: %w", err)
		}
	}

	o.Action = Copy
	if src == dst {
		o.Action = Move
	}
	o.DestinationRoot = withTrailingSeparator(dst)
	return o, nil
}

func withTrailingSeparator(p string) string {
	if strings.HasSuffix(p, string(filepath.Separator)) {
		return p
	}
	return p + string(filepath.Separator)
}
