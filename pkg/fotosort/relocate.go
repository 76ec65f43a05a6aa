package fotosort

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/karrick/godirwalk"
	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// renameFunc is swapped out by tests to simulate rename failures.
var renameFunc = os.Rename

// Result tallies what a run did, or would have done in a dry run.
type Result struct {
	Moved     int
	Copied    int
	Skipped   int
	Unchanged int
	Pruned    int
	Bytes     uint64
}

func (r Result) String() string {
	return fmt.Sprintf("%d moved, %d copied (%s), %d skipped, %d already in place, %d empty directories removed",
		r.Moved, r.Copied, humanize.Bytes(r.Bytes), r.Skipped, r.Unchanged, r.Pruned)
}

// Relocator walks a source tree and files every file under its planned path.
type Relocator struct {
	opts Options
	ex   Extractor
	out  io.Writer

	ov  *overlay
	res Result
}

// NewRelocator returns a Relocator that reports progress lines to out.
func NewRelocator(o Options, ex Extractor, out io.Writer) *Relocator {
	if out == nil {
		out = os.Stdout
	}
	return &Relocator{opts: o, ex: ex, out: out}
}

// Run processes source depth-first, removing directories left empty once all
// of their entries are handled. The first error aborts the run.
func (r *Relocator) Run(source string) (Result, error) {
	r.ov = newOverlay()
	r.res = Result{}

	root, err := filepath.Abs(source)
	if err != nil {
		return r.res, fmt.Errorf("abs: %w", err)
	}
	klog.Infof("%s %s -> %s (dry-run=%v)", r.opts.Action, root, r.opts.DestinationRoot, r.opts.DryRun)

	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return r.enter(path)
			}
			return r.apply(path)
		},
		PostChildrenCallback: func(path string, _ *godirwalk.Dirent) error {
			return r.prune(path)
		},
	})
	if err != nil {
		if IsFilesystem(err) || IsCorruptMetadata(err) {
			return r.res, err
		}
		return r.res, fsErr("walk", root, err)
	}
	return r.res, nil
}

// enter accounts for dry-run arrivals a real run would find in dir. Each of
// them already sits at its planned path.
func (r *Relocator) enter(dir string) error {
	if !r.opts.DryRun {
		return nil
	}
	n, err := r.ov.unseen(dir)
	if err != nil {
		return err
	}
	r.res.Unchanged += n
	return nil
}

// apply plans a single file and moves or copies it into place.
func (r *Relocator) apply(src string) error {
	m, err := r.ex.Extract(r.ov.source(src))
	if err != nil {
		return err
	}

	planned := Plan(m, Extension(src))
	dst := r.opts.DestinationRoot + filepath.FromSlash(planned)
	klog.V(1).Infof("%s: planned %s", src, planned)

	if filepath.Clean(dst) == filepath.Clean(src) {
		r.res.Unchanged++
		return nil
	}

	if r.opts.Action == Copy {
		exists, err := r.ov.exists(dst)
		if err != nil {
			return err
		}
		if exists {
			klog.V(1).Infof("%s exists, skipping %s", dst, src)
			r.res.Skipped++
			return nil
		}
	}

	fmt.Fprintf(r.out, "%s file %q to %q\n", r.opts.Action, src, dst)

	switch r.opts.Action {
	case Move:
		r.res.Moved++
	case Copy:
		r.res.Copied++
		fi, err := os.Stat(src)
		if err != nil {
			return fsErr("stat", src, err)
		}
		r.res.Bytes += uint64(fi.Size())
	}

	if r.opts.DryRun {
		from := r.ov.source(src)
		if r.opts.Action == Move {
			r.ov.remove(src)
		}
		r.ov.add(dst, from, r.opts.DestinationRoot)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fsErr("mkdir", filepath.Dir(dst), err)
	}

	if r.opts.Action == Move {
		if err := renameFunc(src, dst); err != nil {
			return fsErr("rename", src, err)
		}
		return nil
	}
	return copyFile(src, dst)
}

// copyFile copies the content of src to dst and carries over its timestamps.
func copyFile(src string, dst string) error {
	err := copy.Copy(src, dst, copy.Options{
		PreserveTimes: true,
		OnSymlink: func(string) copy.SymlinkAction {
			return copy.Deep
		},
	})
	if err != nil {
		return fsErr("copy", src, err)
	}
	return nil
}

// prune removes dir if nothing is left in it.
func (r *Relocator) prune(dir string) error {
	empty, err := r.ov.empty(dir)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	fmt.Fprintf(r.out, "Deleting empty directory %q\n", dir)
	r.res.Pruned++

	if r.opts.DryRun {
		r.ov.remove(dir)
		return nil
	}
	if err := os.Remove(dir); err != nil {
		return fsErr("remove", dir, err)
	}
	return nil
}
