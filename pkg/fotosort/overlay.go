package fotosort

import (
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
)

// overlay records the mutations a dry run skipped, so that later decisions see
// the tree as a real run would have left it.
type overlay struct {
	gone    map[string]bool
	arrived map[string]bool
	// origin maps an arrival to the on-disk file whose content it would hold.
	origin map[string]string
	// filled counts arrivals beneath each directory.
	filled map[string]int
}

func newOverlay() *overlay {
	return &overlay{
		gone:    map[string]bool{},
		arrived: map[string]bool{},
		origin:  map[string]string{},
		filled:  map[string]int{},
	}
}

func (o *overlay) remove(path string) {
	o.gone[path] = true
	delete(o.arrived, path)
	delete(o.origin, path)
}

// add records that path would now hold the content of from.
func (o *overlay) add(path string, from string, root string) {
	o.arrived[path] = true
	o.origin[path] = o.source(from)
	delete(o.gone, path)
	for d := filepath.Dir(path); ; d = filepath.Dir(d) {
		o.filled[d]++
		delete(o.gone, d)
		if d == filepath.Clean(root) || d == filepath.Dir(d) {
			return
		}
	}
}

// source returns the file whose content path would hold in a real run.
func (o *overlay) source(path string) string {
	if from, ok := o.origin[path]; ok {
		return from
	}
	return path
}

// unseen counts arrivals directly inside dir that are not on disk. A real run
// would find them when listing dir.
func (o *overlay) unseen(dir string) (int, error) {
	n := 0
	for p := range o.arrived {
		if filepath.Dir(p) != dir {
			continue
		}
		ok, err := onDisk(p)
		if err != nil {
			return n, err
		}
		if !ok {
			n++
		}
	}
	return n, nil
}

// exists reports whether path would exist at this point of a real run.
func (o *overlay) exists(path string) (bool, error) {
	if o.arrived[path] {
		return true, nil
	}
	if o.gone[path] {
		return false, nil
	}
	return onDisk(path)
}

// empty reports whether dir would be empty at this point of a real run.
func (o *overlay) empty(dir string) (bool, error) {
	if o.filled[dir] > 0 {
		return false, nil
	}
	names, err := godirwalk.ReadDirnames(dir, nil)
	if err != nil {
		return false, fsErr("readdir", dir, err)
	}
	for _, n := range names {
		if !o.gone[filepath.Join(dir, n)] {
			return false, nil
		}
	}
	return true, nil
}

func onDisk(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fsErr("stat", path, err)
}
