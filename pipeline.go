package bitblit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const numWorkers = 10

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".bmp", ".gif", ".jpeg", ".jpg", ".png":
		return true
	}
	return false
}

func (l *Library) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, errors.New("not a directory")
	}

	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (l *Library) imageWorker(ctx context.Context, in <-chan string, bpp int) (<-chan *record, <-chan error, error) {
	out := make(chan *record)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for file := range in {
			r, err := l.prepare(file, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)), bpp)
			if err != nil {
				errc <- err
				return
			}
			if r == nil {
				continue
			}
			select {
			case out <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errc, nil
}

// storeWorker is the only writer so workers never contend for the database
// lock.
func (l *Library) storeWorker(in <-chan *record) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for r := range in {
			if err := l.store(r); err != nil {
				errc <- err
				// Keep the workers unblocked until they see the cancel
				for range in {
				}
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(cancel context.CancelFunc, errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			cancel()
			// Drain so every stage can exit
			for range errc {
			}
			return err
		}
	}
	return nil
}

func mergeRecords(cs ...<-chan *record) <-chan *record {
	var wg sync.WaitGroup
	out := make(chan *record)
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan *record) {
			for r := range c {
				out <- r
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Scan imports every image found below path at the given bit depth, naming
// each after its file with the extension removed. Hidden files and
// directories are skipped.
func (l *Library) Scan(path string, bpp int) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := l.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	var records []<-chan *record
	for i := 0; i < numWorkers; i++ {
		out, errc, err := l.imageWorker(ctx, files, bpp)
		if err != nil {
			return err
		}
		records = append(records, out)
		errcList = append(errcList, errc)
	}

	errc, err = l.storeWorker(mergeRecords(records...))
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	return waitForPipeline(cancelFunc, errcList...)
}
