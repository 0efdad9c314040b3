//go:build !linux

package gpio

import "errors"

// RealBoard is not available on non-Linux platforms.
type RealBoard struct{}

// NewRealBoard returns an error on non-Linux platforms.
func NewRealBoard(Config) (*RealBoard, error) {
	return nil, errors.New("gpio: character device not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (b *RealBoard) Read() (Sample, error) {
	return Sample{}, errors.New("gpio: not supported")
}

// Set is a no-op on non-Linux platforms.
func (b *RealBoard) Set(bool) {}

// Err always returns nil on non-Linux platforms.
func (b *RealBoard) Err() error {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (b *RealBoard) Close() error {
	return nil
}
