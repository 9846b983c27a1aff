package coach

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/ontarget/internal/model"
)

const (
	DefaultTimeout = 30 * time.Second
	emptyReply     = "Keep working hard on the pitch!"
)

// Coach turns a session into feedback text. It never fails: any error is
// logged and replaced by the fallback message.
type Coach struct {
	gen     Generator
	log     *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Coach.
type Option func(*Coach)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Coach) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Coach) { c.timeout = d }
}

// WithClock overrides the time source used for age.
func WithClock(fn func() time.Time) Option {
	return func(c *Coach) { c.now = fn }
}

// New returns a Coach. gen may be nil when no API key is configured.
func New(gen Generator, opts ...Option) *Coach {
	c := &Coach{
		gen:     gen,
		log:     zap.NewNop(),
		timeout: DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Feedback asks the model about session on behalf of the user in settings.
func (c *Coach) Feedback(ctx context.Context, s model.Session, settings model.UserSettings) string {
	name := strings.TrimSpace(settings.UserName)
	if c.gen == nil {
		c.log.Info("coach not configured, using fallback", zap.String("session", s.ID))
		return Fallback(name)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	age := Age(settings.BirthDate, c.now())
	start := c.now()
	text, err := c.gen.Generate(ctx, BuildPrompt(s, name, age))
	if err != nil {
		c.log.Warn("coach analysis failed",
			zap.String("session", s.ID),
			zap.Duration("elapsed", c.now().Sub(start)),
			zap.Error(err))
		return Fallback(name)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyReply
	}
	c.log.Debug("coach analysis done", zap.String("session", s.ID), zap.Int("chars", len(text)))
	return text
}
