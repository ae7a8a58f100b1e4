package diag

import (
	"errors"
	"fmt"
	"sync"
)

// Sink collects structural errors and warnings from every file of a run.
// It is append-only and safe for concurrent use.
type Sink struct {
	mu               sync.Mutex
	stopAtFirstError bool
	errors           []*StructuralError
	warnings         []*Warning
}

func NewSink(stopAtFirstError bool) *Sink {
	return &Sink{stopAtFirstError: stopAtFirstError}
}

// Record appends the error. It returns nil so the caller carries on, unless
// the sink stops at the first error, in which case the error comes back
// wrapped in ErrStopped for the caller to propagate.
func (s *Sink) Record(err *StructuralError) error {
	s.mu.Lock()
	s.errors = append(s.errors, err)
	stop := s.stopAtFirstError
	s.mu.Unlock()

	if stop {
		return fmt.Errorf("%w: %w", ErrStopped, err)
	}
	return nil
}

// RecordFatal appends the error and always returns it.
func (s *Sink) RecordFatal(err *FatalError) error {
	s.mu.Lock()
	s.errors = append(s.errors, &err.StructuralError)
	s.mu.Unlock()
	return err
}

func (s *Sink) Warn(warning *Warning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, warning)
}

// Errors returns a snapshot of the recorded errors in insertion order.
func (s *Sink) Errors() []*StructuralError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*StructuralError(nil), s.errors...)
}

// Warnings returns a snapshot of the recorded warnings in insertion order.
func (s *Sink) Warnings() []*Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Warning(nil), s.warnings...)
}

func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors) > 0
}

// ErrorsFor returns the errors recorded against one source path.
func (s *Sink) ErrorsFor(path string) []*StructuralError {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*StructuralError
	for _, err := range s.errors {
		if err.Path == path {
			result = append(result, err)
		}
	}
	return result
}

// IsFatal reports whether err aborts a file's pipeline.
func IsFatal(err error) bool {
	var fatal *FatalError
	var decode *DecodeError
	return errors.As(err, &fatal) || errors.As(err, &decode) || errors.Is(err, ErrStopped)
}
