package engine

import (
	stderrors "errors"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/wippyai/xlsx-bridge/resource"
)

// document is an open workbook. mu serializes excelize calls on it.
type document struct {
	file     *excelize.File
	closeErr error
	mu       sync.Mutex
	once     sync.Once
}

func newDocument(f *excelize.File) *document {
	return &document{file: f}
}

// Drop closes the workbook. It runs once, from Remove or table shutdown.
func (d *document) Drop() {
	d.once.Do(func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.closeErr = d.file.Close()
	})
}

// open registers f and returns its handle as sent over the wire.
func (e *Engine) open(f *excelize.File, err error) (uint32, error) {
	if err != nil {
		return 0, err
	}
	h, err := e.docs.Insert(newDocument(f))
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	return uint32(h), nil
}

// with runs fn on the document behind handle while holding it.
func with[T any](e *Engine, handle uint32, fn func(*excelize.File) (T, error)) (T, error) {
	var zero T
	d, ok := e.docs.Acquire(resource.Handle(handle))
	if !ok {
		return zero, errNoDocument
	}
	defer e.docs.Release(resource.Handle(handle))

	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.file)
}

// withUnit is with for operations without a result.
func withUnit(e *Engine, handle uint32, fn func(*excelize.File) error) error {
	_, err := with(e, handle, func(f *excelize.File) (struct{}, error) {
		return struct{}{}, fn(f)
	})
	return err
}

// close removes the document and reports the excelize close error.
func (e *Engine) close(handle uint32) error {
	d, err := e.docs.Remove(resource.Handle(handle))
	switch {
	case stderrors.Is(err, resource.ErrInUse):
		return errDocumentUse
	case err != nil:
		return errNoDocument
	}
	return d.closeErr
}
