package effects

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// SerialPort implements the SerialIO effect over a physical serial port.
type SerialPort struct {
	port serial.Port
}

// OpenSerialPort opens a serial port at the given baud rate.
func OpenSerialPort(name string, baudRate int) (*SerialPort, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	return &SerialPort{port: port}, nil
}

// Read reads up to n bytes from the port. The context is not consulted
// mid-read; callers needing timeouts should configure them on the port.
func (s *SerialPort) Read(ctx context.Context, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := s.port.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("serial read failed: %w", err)
	}
	return buf[:read], nil
}

// Write writes data to the port.
func (s *SerialPort) Write(ctx context.Context, data []byte) (int, error) {
	written, err := s.port.Write(data)
	if err != nil {
		return written, fmt.Errorf("serial write failed: %w", err)
	}
	return written, nil
}

// Close releases the port.
func (s *SerialPort) Close() error {
	return s.port.Close()
}

// LoopbackSerial implements the SerialIO effect with an in-memory buffer:
// everything written becomes readable. It stands in for hardware in tests
// and development environments.
type LoopbackSerial struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLoopbackSerial creates an in-memory serial device.
func NewLoopbackSerial() *LoopbackSerial {
	return &LoopbackSerial{}
}

// Read reads up to n buffered bytes without blocking.
func (s *LoopbackSerial) Read(ctx context.Context, n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, n)
	read, _ := s.buf.Read(buf)
	return buf[:read], nil
}

// Write buffers data for subsequent reads.
func (s *LoopbackSerial) Write(ctx context.Context, data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(data)
}
