package gpio

import "errors"

// FakeBoard is a test double that returns scripted inputs and records LED ticks.
type FakeBoard struct {
	// Samples contains scripted inputs to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// Ticks records every level passed to Set.
	Ticks []bool

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error

	// WriteError, if set, is latched by Set and returned once by Err().
	WriteError error

	err error
}

// NewFakeBoard creates a FakeBoard with the given samples.
func NewFakeBoard(samples []Sample) *FakeBoard {
	return &FakeBoard{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeBoard) Read() (Sample, error) {
	if f.ReadError != nil {
		return Sample{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Sample{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Set records the tick.
func (f *FakeBoard) Set(high bool) {
	if f.WriteError != nil && f.err == nil {
		f.err = f.WriteError
	}
	f.Ticks = append(f.Ticks, high)
}

// Err returns the latched write error, if any, and clears it.
func (f *FakeBoard) Err() error {
	err := f.err
	f.err = nil
	return err
}

// Close marks the board as closed.
func (f *FakeBoard) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the samples and forgets recorded ticks.
func (f *FakeBoard) Reset() {
	f.index = 0
	f.Ticks = nil
	f.Closed = false
	f.err = nil
}

// LastLevel returns the most recent level passed to Set.
func (f *FakeBoard) LastLevel() bool {
	if len(f.Ticks) == 0 {
		return false
	}
	return f.Ticks[len(f.Ticks)-1]
}
