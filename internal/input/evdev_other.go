//go:build !linux

package input

import "context"

// EvdevSource is only available on Linux.
type EvdevSource struct{}

// OpenEvdev always fails outside Linux.
func OpenEvdev(path string) (*EvdevSource, error) {
	return nil, ErrUnsupported
}

// Name returns an empty string.
func (s *EvdevSource) Name() string { return "" }

// Run returns ErrUnsupported.
func (s *EvdevSource) Run(ctx context.Context, send SendFunc) error {
	return ErrUnsupported
}

// Close does nothing.
func (s *EvdevSource) Close() error { return nil }

// Devices returns ErrUnsupported.
func Devices() ([]Device, error) {
	return nil, ErrUnsupported
}
