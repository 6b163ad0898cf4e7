package playback

// Mode names a view with its own playback slot.
type Mode string

const (
	ModeBrowse Mode = "browse"
	ModeQuiz   Mode = "quiz"
)

// ModeController owns one Controller per view and makes sure only the
// active view can keep playing.
type ModeController struct {
	browse *Controller
	quiz   *Controller
	active Mode
}

// NewModeController starts in browse mode.
func NewModeController(browse, quiz *Controller) *ModeController {
	return &ModeController{browse: browse, quiz: quiz, active: ModeBrowse}
}

// Active returns the current mode.
func (m *ModeController) Active() Mode { return m.active }

// Current returns the active view's controller.
func (m *ModeController) Current() *Controller { return m.For(m.active) }

// For returns the controller of a mode.
func (m *ModeController) For(mode Mode) *Controller {
	if mode == ModeQuiz {
		return m.quiz
	}
	return m.browse
}

// Switch activates mode and stops the other view's controller.
func (m *ModeController) Switch(mode Mode) {
	if mode == m.active {
		return
	}
	m.For(m.active).Stop()
	m.active = mode
}

// Route delivers a finish notification to the controller owning its slot.
func (m *ModeController) Route(ev Ended) bool {
	for _, c := range []*Controller{m.browse, m.quiz} {
		if c.Slot() == ev.Slot {
			return c.Ended(ev.ClipID)
		}
	}
	return false
}

// StopAll stops both controllers.
func (m *ModeController) StopAll() {
	m.browse.Stop()
	m.quiz.Stop()
}
