package fotosort

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Watch runs r over source every time the tree changes and then stays quiet
// for settle. Once the watches are in place it runs once more, picking up
// anything that arrived before they were. It returns when ctx is done or a
// run fails.
func Watch(ctx context.Context, r *Relocator, source string, settle time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer w.Close()

	if err := addDirs(w, source); err != nil {
		return err
	}

	timer := time.NewTimer(settle)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			klog.V(1).Infof("event: %s", event)
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			klog.Warningf("watch error: %v", err)
		case <-timer.C:
			res, err := r.Run(source)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			klog.Infof("re-run finished: %s", res)
			if err := addDirs(w, source); err != nil {
				return err
			}
		}
	}
}

// addDirs registers every directory under root with w.
func addDirs(w *fsnotify.Watcher, root string) error {
	dirs := 0
	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if err := w.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			dirs++
			return nil
		},
	})
	if err != nil {
		return err
	}
	klog.V(1).Infof("watching %d dirs under %s", dirs, root)
	return nil
}
