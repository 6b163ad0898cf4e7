package playback

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrStart wraps a backend failure to start a clip.
	ErrStart = errors.New("clip failed to start")
	// ErrNothingToToggle is returned by Toggle when no clip was ever played.
	ErrNothingToToggle = errors.New("no clip to toggle")
)

// Clip is a playing audio clip.
type Clip interface {
	// Done yields once when playback finishes, with nil on natural end.
	Done() <-chan error
	Stop() error
}

// Backend starts clips.
type Backend interface {
	Start(ctx context.Context, url string) (Clip, error)
}

// Ended reports that a clip finished. It is delivered on the channel given to
// the controller and must be passed back through Controller.Ended or Mode.Route
// from the goroutine that owns the controller.
type Ended struct {
	Slot   string
	ClipID uint64
	Err    error
}

type active struct {
	id    uint64
	owner string
	clip  Clip
}

type lastClip struct {
	ref   string
	owner string
}

// Controller is a single playback slot: Idle or Playing(owner).
// It is not safe for concurrent use; all calls come from one event loop.
type Controller struct {
	slot    string
	backend Backend
	ended   chan<- Ended
	log     *zap.Logger
	ctx     context.Context

	nextID  uint64
	current *active
	last    *lastClip

	OnReset func(owner string)
	OnEnded func(owner string)
}

// NewController creates a controller. ended may be nil when natural clip
// ends are not needed.
func NewController(ctx context.Context, slot string, backend Backend, ended chan<- Ended, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		slot:    slot,
		backend: backend,
		ended:   ended,
		log:     log.Named("playback").With(zap.String("slot", slot)),
		ctx:     ctx,
	}
}

// Slot returns the controller's name.
func (c *Controller) Slot() string { return c.slot }

// Playing returns the owner of the active clip.
func (c *Controller) Playing() (string, bool) {
	if c.current == nil {
		return "", false
	}
	return c.current.owner, true
}

// Play stops whatever is playing and starts ref for owner. A different
// previous owner gets a visual reset.
func (c *Controller) Play(ref, owner string) error {
	if c.current != nil {
		old := c.current
		c.current = nil
		c.stopClip(old)
		if old.owner != owner {
			c.reset(old.owner)
		}
	}

	c.last = &lastClip{ref: ref, owner: owner}
	clip, err := c.backend.Start(c.ctx, ref)
	if err != nil {
		c.log.Warn("clip failed to start", zap.String("owner", owner), zap.String("url", ref), zap.Error(err))
		c.reset(owner)
		return fmt.Errorf("%w: %w", ErrStart, err)
	}

	c.nextID++
	c.current = &active{id: c.nextID, owner: owner, clip: clip}
	c.watch(c.current)
	return nil
}

// Stop returns to Idle. It is a no-op when nothing plays.
func (c *Controller) Stop() {
	if c.current == nil {
		return
	}
	old := c.current
	c.current = nil
	c.stopClip(old)
	c.reset(old.owner)
}

// Toggle stops the active clip, or replays the last clip from the start.
func (c *Controller) Toggle() error {
	if c.current != nil {
		c.Stop()
		return nil
	}
	if c.last == nil {
		return ErrNothingToToggle
	}
	return c.Play(c.last.ref, c.last.owner)
}

// Forget drops the remembered clip so Toggle has nothing to replay.
func (c *Controller) Forget() {
	c.last = nil
}

// Ended handles a finish notification. Notifications for clips that are no
// longer current are ignored; the return value reports whether it applied.
func (c *Controller) Ended(clipID uint64) bool {
	if c.current == nil || c.current.id != clipID {
		return false
	}
	owner := c.current.owner
	c.current = nil
	if c.OnEnded != nil {
		c.OnEnded(owner)
	}
	return true
}

func (c *Controller) stopClip(a *active) {
	if err := a.clip.Stop(); err != nil {
		c.log.Debug("stop clip", zap.String("owner", a.owner), zap.Error(err))
	}
}

func (c *Controller) reset(owner string) {
	if c.OnReset != nil {
		c.OnReset(owner)
	}
}

func (c *Controller) watch(a *active) {
	if c.ended == nil {
		return
	}
	go func() {
		var err error
		select {
		case err = <-a.clip.Done():
		case <-c.ctx.Done():
			return
		}
		select {
		case c.ended <- Ended{Slot: c.slot, ClipID: a.id, Err: err}:
		case <-c.ctx.Done():
		}
	}()
}
