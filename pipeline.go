package mifont

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bodgit/mifont/bmp"
)

const verifyWorkers = 10

// Result is the outcome of verifying one sheet.
type Result struct {
	SheetInfo
	Err error
}

func (e *Editor) findSheets(ctx context.Context, base string) (<-chan string, <-chan error, error) {
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
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.EqualFold(filepath.Ext(file), ".bmp") {
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

func (e *Editor) verifySheet(file string) Result {
	r := Result{SheetInfo: SheetInfo{File: file}}

	b, err := ioutil.ReadFile(file)
	if err != nil {
		r.Err = err
		return r
	}
	r.CRC = crcBytes(b)
	r.Size = int64(len(b))

	sheet, err := ReadSheet(bytes.NewReader(b), e.Height)
	if err != nil {
		r.Err = err
		return r
	}
	r.Orientation = sheet.Layout.Orientation.String()
	r.CellHeight = sheet.Layout.CellHeight
	r.RoundTrip = bytes.Equal(b, sheet.File.Bytes()) && reencodes(sheet.File)

	return r
}

// reencodes reports whether writing f as a fresh bitmap and reading it back
// gives the same pixels and palette.
func reencodes(f *bmp.File) bool {
	buf := new(bytes.Buffer)
	if err := bmp.Encode(buf, f.Image); err != nil {
		return false
	}
	g, err := bmp.Read(buf)
	if err != nil || !g.Image.Rect.Eq(f.Image.Rect) || len(g.Image.Palette) != len(f.Image.Palette) {
		return false
	}
	for i, c := range f.Image.Palette {
		if g.Image.Palette[i] != c {
			return false
		}
	}
	return bytes.Equal(g.Image.Pix, f.Image.Pix)
}

func (e *Editor) sheetWorker(ctx context.Context, wg *sync.WaitGroup, in <-chan string, results chan<- Result) (<-chan error, error) {
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for file := range in {
			r := e.verifySheet(file)

			if r.Err != nil {
				e.logger.Printf("Unable to read \"%s\": %s\n", file, r.Err)
			} else if !r.RoundTrip {
				e.logger.Printf("Round trip of \"%s\" is not byte-identical\n", file)
			}

			if e.db != nil {
				if err := e.db.RecordSheet(r.SheetInfo); err != nil {
					errc <- err
					return
				}
			}

			select {
			case results <- r:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
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

// Verify checks every bitmap under path decodes as a sheet and re-encodes
// to identical bytes. Results are recorded in the clip database when there
// is one. Sheets that fail are reported in the results rather than as an
// error; the error is reserved for problems walking path or writing to the
// database.
func (e *Editor) Verify(ctx context.Context, path string) ([]Result, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := e.findSheets(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	resultc := make(chan Result)
	var results []Result
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range resultc {
			results = append(results, r)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < verifyWorkers; i++ {
		errc, err := e.sheetWorker(ctx, &wg, files, resultc)
		if err != nil {
			break
		}
		errcList = append(errcList, errc)
	}

	err = waitForPipeline(errcList...)

	// Stop any workers still running before the results are collected
	cancelFunc()
	wg.Wait()
	close(resultc)
	<-done

	if err != nil {
		return nil, err
	}

	sortResults(results)

	return results, nil
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })
}
