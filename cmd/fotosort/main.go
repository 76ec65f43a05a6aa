// fotosort files photos into a YYYY/YYYYMMDD hierarchy based on when they were taken.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/tstromberg/fotosort/pkg/fotosort"
)

func main() {
	klog.InitFlags(nil)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run organizes the directories named in args and returns the exit status.
func run(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := pflag.NewFlagSet("fotosort", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.AddGoFlagSet(flag.CommandLine)

	dryRun := fs.BoolP("dry-run", "d", false, "Don't actually move, copy or delete anything")
	extractor := fs.String("extractor", "exif", "Metadata reader to use: exif or exiftool")
	watch := fs.BoolP("watch", "w", false, "Keep running and reorganize whenever the source changes")
	settle := fs.Duration("settle", 2*time.Second, "How long the source must be quiet before a re-run in --watch mode")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fotosort [flags] <source> [target]\n\n")
		fmt.Fprintf(stderr, "Without a target, files are moved within <source>. With one, they are copied.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}
	source := fs.Arg(0)
	target := fs.Arg(1)

	fmt.Fprintf(stdout, "Organizing %s...\n", source)

	o, err := fotosort.NewOptions(source, target, *dryRun)
	if errors.Is(err, fotosort.ErrInvalidSource) {
		fmt.Fprintf(stderr, "Folder %s: %v\n", source, err)
		return 1
	}
	if err != nil {
		klog.Errorf("options: %v", err)
		return 1
	}

	ex, err := fotosort.NewExtractor(*extractor)
	if err != nil {
		klog.Errorf("extractor: %v", err)
		return 1
	}
	if c, ok := ex.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				klog.Errorf("close extractor: %v", err)
			}
		}()
	}

	r := fotosort.NewRelocator(o, ex, stdout)
	res, err := r.Run(source)
	if err != nil {
		klog.Errorf("organize failed: %v", err)
		return 1
	}
	fmt.Fprintf(stdout, "Done! %s\n", res)

	if !*watch {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	klog.Infof("watching %s for changes ...", source)
	if err := fotosort.Watch(ctx, r, source, *settle); err != nil {
		klog.Errorf("watch failed: %v", err)
		return 1
	}
	return 0
}
