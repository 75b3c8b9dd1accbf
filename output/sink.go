package output

import "marathon-scraper/models"

// Sink receives the header once and then every built record in emission order
type Sink interface {
	WriteHeader(fields []string) error
	Write(rec models.Finisher) error
	// Flush pushes buffered records downstream; called after every page
	Flush() error
}

// Multi fans every call out to all sinks in order, stopping at the first error
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) WriteHeader(fields []string) error {
	for _, s := range m {
		if err := s.WriteHeader(fields); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Write(rec models.Finisher) error {
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Flush() error {
	for _, s := range m {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	return nil
}
