package serialmux

import (
	"fmt"

	"go.bug.st/serial"
)

// RealPortFactory opens ports through go.bug.st/serial.
type RealPortFactory struct{}

func (RealPortFactory) Open(path string, opts PortOptions) (SerialPorter, error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// OpenSerialMux opens path through f and wraps the port in a SerialMux.
func OpenSerialMux(f SerialPortFactory, path string, opts PortOptions) (*SerialMux[SerialPorter], error) {
	if path == "" {
		return nil, fmt.Errorf("no serial port configured")
	}
	port, err := f.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewSerialMux(port), nil
}

// NewRealSerialMux creates a SerialMux instance backed by a real serial port at the
// given path using the provided serial options.
func NewRealSerialMux(path string, opts PortOptions) (*SerialMux[SerialPorter], error) {
	return OpenSerialMux(RealPortFactory{}, path, opts)
}
