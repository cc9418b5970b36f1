package clipboard

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// DefaultInterval is the poll period used when Options.Interval is zero.
const DefaultInterval = 300 * time.Millisecond

// Options configures a Poller.
type Options struct {
	Source   Source
	Interval time.Duration
	// OnChange receives the new text.
	OnChange func(text string)
	// ShouldProcess gates OnChange; it is evaluated on every changed tick.
	// Nil means always.
	ShouldProcess func() bool
	// ClearOnStart empties the clipboard before the first tick.
	ClearOnStart bool
	Logger       zerolog.Logger
}

// Poller compares clipboard snapshots on a fixed interval.
//
// The snapshot is replaced on every successful read, even when ShouldProcess
// returned false. A change that lands while the gate is closed is therefore
// never delivered unless the content changes again.
type Poller struct {
	src           Source
	interval      time.Duration
	onChange      func(string)
	shouldProcess func() bool
	clearOnStart  bool
	log           zerolog.Logger

	snapshot string
}

// NewPoller validates opts.
func NewPoller(opts Options) (*Poller, error) {
	if opts.Source == nil {
		return nil, errors.New("clipboard source is required")
	}
	if opts.OnChange == nil {
		return nil, errors.New("clipboard change callback is required")
	}
	if opts.Interval < 0 {
		return nil, errors.New("poll interval must not be negative")
	}
	interval := opts.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	should := opts.ShouldProcess
	if should == nil {
		should = func() bool { return true }
	}
	return &Poller{
		src:           opts.Source,
		interval:      interval,
		onChange:      opts.OnChange,
		shouldProcess: should,
		clearOnStart:  opts.ClearOnStart,
		log:           opts.Logger,
	}, nil
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	if p.clearOnStart {
		if err := p.src.Write(""); err != nil {
			p.log.Warn().Err(err).Msg("Failed to clear clipboard")
		}
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.tick()

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// tick performs one poll. Read failures leave the snapshot untouched.
func (p *Poller) tick() {
	text, err := p.src.Read()
	if err != nil {
		p.log.Debug().Err(err).Msg("Skipping clipboard tick")
		return
	}

	if text != p.snapshot && p.shouldProcess() {
		p.log.Debug().Int("length", len(text)).Msg("Clipboard changed")
		p.deliver(text)
	}
	p.snapshot = text
}

func (p *Poller) deliver(text string) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Msg("Clipboard callback panicked")
		}
	}()
	p.onChange(text)
}

// Snapshot returns the last text observed. Only safe to call while Run is
// not executing.
func (p *Poller) Snapshot() string {
	return p.snapshot
}
