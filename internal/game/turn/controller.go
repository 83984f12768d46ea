package turn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/corsair/internal/game/event"
)

// State is the controller's position in the turn cycle.
type State int

const (
	AwaitingActivation State = iota
	PlayerActive
	AIActive
	EndOfTurnProcessing
)

func (s State) String() string {
	switch s {
	case AwaitingActivation:
		return "awaiting_activation"
	case PlayerActive:
		return "player_active"
	case AIActive:
		return "ai_active"
	case EndOfTurnProcessing:
		return "end_of_turn"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AutoFunc runs an AI actor's turn. It ends the turn by calling
// Controller.EndTurn, either before returning or later once whatever it is
// waiting on (a skillcheck, an animation) completes.
type AutoFunc func(a Actor) error

// TerminalFunc reports whether the activity the controller drives is over,
// and with what result.
type TerminalFunc func() (done bool, result string)

// Controller is the turn state machine over an Order.
//
// Only the active actor may act. AI turns that end synchronously are run in
// a loop rather than recursively, so any number of consecutive AI turns use
// constant stack.
type Controller struct {
	mode   Mode
	order  *Order
	events *event.Bus
	logger *zap.Logger

	auto      AutoFunc
	terminal  TerminalFunc
	onFinish  func(result string)
	maxRounds int
	autopilot bool

	state    State
	active   Actor
	looping  bool
	advance  bool
	started  bool
	finished bool
	result   string
}

// NewController returns a controller in AwaitingActivation.
//
// Precondition: order must be non-nil. A nil logger disables logging.
func NewController(mode Mode, order *Order, events *event.Bus, logger *zap.Logger) *Controller {
	if order == nil {
		panic("turn.NewController: order must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{mode: mode, order: order, events: events, logger: logger}
}

// SetAuto installs the AI turn procedure. Without one, AI turns end
// immediately.
func (c *Controller) SetAuto(f AutoFunc) { c.auto = f }

// SetTerminal installs the end-condition check, consulted after every turn.
func (c *Controller) SetTerminal(f TerminalFunc) { c.terminal = f }

// OnFinish registers a callback run once when the controller finishes.
func (c *Controller) OnFinish(f func(result string)) { c.onFinish = f }

// SetAutopilot makes every actor, human or not, take automatic turns.
func (c *Controller) SetAutopilot(on bool) { c.autopilot = on }

// SetMaxRounds finishes the controller with result "stalemate" once the
// order would enter round n+1. Zero disables the limit.
func (c *Controller) SetMaxRounds(n int) { c.maxRounds = n }

func (c *Controller) Mode() Mode     { return c.mode }
func (c *Controller) State() State   { return c.state }
func (c *Controller) Order() *Order  { return c.order }
func (c *Controller) Round() int     { return c.order.Round() }
func (c *Controller) Finished() bool { return c.finished }
func (c *Controller) Result() string { return c.result }
func (c *Controller) Active() Actor  { return c.active }
func (c *Controller) Running() bool  { return c.started && !c.finished }

// IsActive reports whether id is the actor whose turn it is.
func (c *Controller) IsActive(id string) bool {
	return c.active != nil && c.active.ID() == id &&
		(c.state == PlayerActive || c.state == AIActive)
}

// Start activates the first actor.
//
// Precondition: Start has not been called before.
func (c *Controller) Start() error {
	if c.started {
		return fmt.Errorf("turn.Controller.Start: already started")
	}
	c.started = true
	if c.checkTerminal() {
		return nil
	}
	c.run()
	return nil
}

// EndTurn finishes the active actor's turn and activates the next one. It
// reports false when no turn is in progress.
func (c *Controller) EndTurn() bool {
	if c.finished || c.active == nil || (c.state != PlayerActive && c.state != AIActive) {
		return false
	}
	c.state = EndOfTurnProcessing
	ended := c.active
	ended.EndTurn()
	c.events.Publish(event.TurnEnded, c.payload(ended))
	c.logger.Debug("turn ended", zap.String("actor", ended.ID()), zap.Int("round", c.order.Round()))
	c.active = nil
	c.state = AwaitingActivation
	if c.checkTerminal() {
		return true
	}
	if c.looping {
		c.advance = true
		return true
	}
	c.run()
	return true
}

// Remove drops an actor from the order, for example when it dies. Removing
// the active actor does not end its turn; the caller decides that.
func (c *Controller) Remove(id string) {
	c.order.Remove(id)
}

// Finish stops the controller with result. Later EndTurn calls are
// rejected.
func (c *Controller) Finish(result string) {
	if c.finished {
		return
	}
	c.finished = true
	c.result = result
	c.active = nil
	c.state = AwaitingActivation
	c.logger.Info("turn cycle finished", zap.String("mode", c.mode.String()), zap.String("result", result))
	if c.onFinish != nil {
		c.onFinish(result)
	}
}

func (c *Controller) checkTerminal() bool {
	if c.finished {
		return true
	}
	if c.terminal != nil {
		if done, result := c.terminal(); done {
			c.Finish(result)
			return true
		}
	}
	return false
}

// run activates actors until one needs outside input.
func (c *Controller) run() {
	c.looping = true
	defer func() { c.looping = false }()
	for {
		c.advance = false
		next := c.order.Next()
		if next == nil {
			c.Finish("empty")
			return
		}
		if c.maxRounds > 0 && c.order.Round() > c.maxRounds {
			c.Finish("stalemate")
			return
		}
		c.active = next
		next.Activate(c.mode)
		c.events.Publish(event.TurnBegan, c.payload(next))
		if next.Human() && !c.autopilot {
			c.state = PlayerActive
			return
		}
		c.state = AIActive
		if c.auto == nil {
			c.EndTurn()
		} else if err := c.auto(next); err != nil {
			c.logger.Warn("automatic turn failed", zap.String("actor", next.ID()), zap.Error(err))
			if c.active == next {
				c.EndTurn()
			}
		}
		if !c.advance || c.finished {
			return
		}
	}
}

func (c *Controller) payload(a Actor) event.TurnPayload {
	return event.TurnPayload{
		ActorID: a.ID(),
		Mode:    c.mode.String(),
		Round:   c.order.Round(),
		Human:   a.Human(),
	}
}
