package format

import "github.com/German-BioImaging/omero-rdf/rdf"

// multiSink fans every triple out to several sinks, e.g. a file plus a NATS
// publisher.
type multiSink struct {
	sinks []Sink
}

// NewMultiSink returns a Sink forwarding to all the given sinks. A single
// sink is returned unwrapped.
func NewMultiSink(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &multiSink{sinks: sinks}
}

// Streaming reports true only when every member streams.
func (m *multiSink) Streaming() bool {
	for _, s := range m.sinks {
		if !s.Streaming() {
			return false
		}
	}
	return true
}

func (m *multiSink) Emit(t rdf.Triple) error {
	for _, s := range m.sinks {
		if err := s.Emit(t); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every member, returning the first failure after attempting
// all of them.
func (m *multiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
