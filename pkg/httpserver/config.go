package httpserver

import "time"

// Config is the environment driven server configuration.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// NewFromConfig builds a Server from cfg. Zero fields keep the defaults and
// opts are applied last, so they win over cfg.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	return New(append(cfg.options(), opts...)...)
}

func (c Config) options() []Option {
	var opts []Option
	set := func(d time.Duration, with func(time.Duration) Option) {
		if d > 0 {
			opts = append(opts, with(d))
		}
	}

	if c.Addr != "" {
		opts = append(opts, WithAddr(c.Addr))
	}
	set(c.ReadTimeout, WithReadTimeout)
	set(c.WriteTimeout, WithWriteTimeout)
	set(c.IdleTimeout, WithIdleTimeout)
	set(c.ShutdownTimeout, WithShutdownTimeout)

	return opts
}
