package gpio

import (
	"errors"

	"github.com/swilson/buttond/internal/button"
)

// FakeReader is a test double that returns scripted line levels.
type FakeReader struct {
	// Samples contains scripted raw levels to return.
	// Each call to Read() consumes the next sample.
	Samples []button.Level

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []button.Level) *FakeReader {
	return &FakeReader{Samples: samples}
}

// NewFakeReaderFromString creates a FakeReader from a string of '0' and '1'
// characters, one sample per character. Any other character panics; it is a
// test-construction error.
func NewFakeReaderFromString(script string) *FakeReader {
	samples := make([]button.Level, len(script))
	for i, c := range script {
		switch c {
		case '0':
			samples[i] = button.Low
		case '1':
			samples[i] = button.High
		default:
			panic("gpio: fake script must contain only '0' and '1'")
		}
	}
	return NewFakeReader(samples)
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (button.Level, error) {
	if f.ReadError != nil {
		return button.Low, f.ReadError
	}

	if len(f.Samples) == 0 {
		return button.Low, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}
