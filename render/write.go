package render

import (
	"bufio"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vosslab/hilbert-curve-brick/hilbert"
	"github.com/vosslab/hilbert-curve-brick/logger"
)

// SliceFilename names slice index of a side-d cube, e.g. hilbert8-004.png.
// The index is zero padded so lexical order matches build order.
func SliceFilename(prefix string, d, index int) string {
	return fmt.Sprintf("%s%d-%03d.png", prefix, d, index)
}

// WriteSlices renders every slice in rng and writes it as a PNG under
// outDir, which is created if missing. The range is checked before anything
// touches the filesystem. The first failure cancels the remaining slices;
// files already written are left in place. Paths come back sorted.
func WriteSlices(ctx context.Context, c *hilbert.Curve, outDir string, rng Range, opts Options, log *logger.Logger) ([]string, error) {
	rng, err := ResolveRange(c.Dimension, rng.Begin, rng.End)
	if err != nil {
		return nil, err
	}
	if !opts.Axis.Valid() {
		return nil, fmt.Errorf("%w: %v", hilbert.ErrInvalidAxis, opts.Axis)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: outDir, Err: err}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if n := rng.Count(); workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	errCh := make(chan error, workers)
	var (
		mu    sync.Mutex
		paths = make([]string, 0, rng.Count())
		wg    sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				path := filepath.Join(outDir, SliceFilename(opts.Prefix, c.Dimension, i))
				if err := writeSlice(c, i, path, opts); err != nil {
					errCh <- err
					cancel()
					return
				}
				log.Debug("slice %d/%d -> %s", i+1, c.Dimension, path)
				mu.Lock()
				paths = append(paths, path)
				mu.Unlock()
			}
		}()
	}

feed:
	for i := rng.Begin; i <= rng.End; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(errCh)

	if err := <-errCh; err != nil {
		sort.Strings(paths)
		return paths, err
	}
	if err := ctx.Err(); err != nil {
		sort.Strings(paths)
		return paths, err
	}
	sort.Strings(paths)
	log.Info("wrote %d slice(s) to %s", len(paths), outDir)
	return paths, nil
}

func writeSlice(c *hilbert.Curve, index int, path string, opts Options) error {
	img, err := RenderSlice(c, index, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	bw := bufio.NewWriter(f)
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(bw, img); err != nil {
		f.Close()
		return &IOError{Op: "encode", Path: path, Err: err}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}
