package alumnietl

import "net/http"

// Option configures a Pipeline.
type Option interface {
	apply(*Pipeline) error
}

type optionFunc func(*Pipeline) error

func (f optionFunc) apply(p *Pipeline) error {
	return f(p)
}

// WithLogLevel overrides the configured log level.
func WithLogLevel(level string) Option {
	return optionFunc(func(p *Pipeline) error {
		p.logger = newLogger(level, "json")
		return nil
	})
}

// WithPrettyLogging configures the pipeline to print human friendly logs.
func WithPrettyLogging() Option {
	return optionFunc(func(p *Pipeline) error {
		p.logger = newLogger(p.logger.GetLevel().String(), "pretty")
		return nil
	})
}

// WithHTTPClient replaces the HTTP client used by the source client and
// the notifier.
func WithHTTPClient(c *http.Client) Option {
	return optionFunc(func(p *Pipeline) error {
		if s, ok := p.source.(*airtableSource); ok {
			s.httpClient = c
		}
		if n, ok := p.notifier.(*SlackNotifier); ok {
			n.HTTPClient = c
		}
		return nil
	})
}
