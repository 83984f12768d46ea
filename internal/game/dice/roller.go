package dice

import "go.uber.org/zap"

var d20 = MustParse("d20")

// Roller rolls expressions against a Source and logs every roll at debug
// level with the reason it was made.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller returns a Roller over src. A nil logger disables logging.
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if src == nil {
		panic("dice.NewLoggedRoller: src must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Roll evaluates e and logs it.
func (r *Roller) Roll(reason string, e Expression) RollResult {
	res := e.Roll(r.src)
	r.logger.Debug("dice roll",
		zap.String("reason", reason),
		zap.String("expression", res.Expression),
		zap.Ints("dice", res.Dice),
		zap.Int("modifier", res.Modifier),
		zap.Int("total", res.Total()),
	)
	return res
}

// RollExpr parses and rolls expr.
func (r *Roller) RollExpr(reason, expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(reason, e), nil
}

// D20 rolls a single twenty-sided die plus bonus.
func (r *Roller) D20(reason string, bonus int) int {
	e := d20
	e.Modifier = bonus
	return r.Roll(reason, e).Total()
}

// Intn draws from the roller's source without logging, for shuffles that
// share a seeded stream with the rolls.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }
