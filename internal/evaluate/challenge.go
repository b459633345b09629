package evaluate

import (
	"time"

	"github.com/keiyara/memotype/internal/model"
)

// Challenge is one presentation-and-response cycle for a study item.
// The interval between Start and Complete is real wall-clock time.
type Challenge struct {
	item      *model.StudyItem
	clock     func() time.Time
	startedAt time.Time
	started   bool
	completed bool
	result    model.AttemptResult
}

// NewChallenge creates a challenge for the item.
func NewChallenge(item *model.StudyItem) *Challenge {
	return &Challenge{item: item, clock: time.Now}
}

// Item returns the item under challenge.
func (c *Challenge) Item() *model.StudyItem {
	return c.item
}

// Start stamps the challenge start time.
func (c *Challenge) Start() {
	c.startedAt = c.clock()
	c.started = true
}

// Elapsed reports time since Start, or zero before it.
func (c *Challenge) Elapsed() time.Duration {
	if !c.started {
		return 0
	}
	return c.clock().Sub(c.startedAt)
}

// Complete scores the typed input and freezes the result.
func (c *Challenge) Complete(typed string) model.AttemptResult {
	elapsed := c.Elapsed().Seconds()
	res := Evaluate(c.item.Answer, typed, elapsed)
	c.result = model.AttemptResult{
		ItemID:           c.item.ID,
		Accuracy:         res.Accuracy,
		WPM:              res.WPM,
		TimeTakenSeconds: elapsed,
		Expected:         c.item.Answer,
		Actual:           typed,
	}
	c.completed = true
	return c.result
}

// Completed reports whether the challenge has been submitted.
func (c *Challenge) Completed() bool {
	return c.completed
}

// Result returns the frozen attempt result; ok is false before completion.
func (c *Challenge) Result() (model.AttemptResult, bool) {
	if !c.completed {
		return model.AttemptResult{}, false
	}
	return c.result, true
}
