package rlepix

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/rlepix/indexed"
)

var errWalkCancelled = errors.New("rlepix: walk cancelled")

type importedSprite struct {
	name string
	m    *indexed.Image
}

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".gif", ".jpg", ".jpeg":
		return true
	}
	return false
}

func spriteName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

func (l *Library) findImages(ctx context.Context, base string) (<-chan string, <-chan error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errWalkCancelled
			}

			return nil
		})
	}()
	return out, errc
}

func (l *Library) loadImage(file string) (*indexed.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	if b := src.Bounds(); b.Dx() > l.width || b.Dy() > l.height {
		return nil, fmt.Errorf("%w: %s is %dx%d", ErrImageSize, file, b.Dx(), b.Dy())
	}

	m, err := indexed.New(l.width*l.height, l.width, l.height)
	if err != nil {
		return nil, err
	}
	l.palette.Draw(m, src)

	return m, nil
}

func (l *Library) imageWorker(ctx context.Context, in <-chan string, out chan<- importedSprite, wg *sync.WaitGroup) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for file := range in {
			m, err := l.loadImage(file)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- importedSprite{spriteName(file), m}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc
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

// Import walks path for PNG, GIF and JPEG images and stores each one as a
// sprite named after the file. Images are decoded by workers goroutines.
// The first error stops the import and is returned along with the number
// of sprites stored so far.
func (l *Library) Import(ctx context.Context, path string, workers int) (int, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc := l.findImages(ctx, dir)
	errcList = append(errcList, errc)

	sprites := make(chan importedSprite)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		errcList = append(errcList, l.imageWorker(ctx, files, sprites, &wg))
	}
	go func() {
		wg.Wait()
		close(sprites)
	}()

	var first error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for err := range mergeErrors(errcList...) {
			if err != nil && first == nil {
				first = err
				cancelFunc()
			}
		}
	}()

	var n int
	var storeErr error
	for s := range sprites {
		if storeErr != nil {
			continue
		}
		if err := l.Put(s.name, s.m); err != nil {
			storeErr = err
			cancelFunc()
			continue
		}
		n++
	}
	<-done

	if storeErr != nil {
		return n, storeErr
	}
	if first == nil && ctx.Err() != nil {
		// Cancelled by the caller
		return n, ctx.Err()
	}
	return n, first
}
