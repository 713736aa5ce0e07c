package metrics

import "github.com/san-kum/ballsim/internal/dynamo"

// Bounces counts wall contacts. A corner hit counts twice.
type Bounces struct {
	name   string
	floor  int
	total  int
	lastAt float64
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(body *dynamo.Body, contact dynamo.Contact, t float64) {
	if !contact.Any() {
		return
	}
	b.total += contact.Count()
	if contact&dynamo.ContactFloor != 0 {
		b.floor++
	}
	b.lastAt = t
}

func (b *Bounces) Value() float64 { return float64(b.total) }

func (b *Bounces) Floor() int { return b.floor }

// LastAt is the simulated time of the most recent contact.
func (b *Bounces) LastAt() float64 { return b.lastAt }

func (b *Bounces) Reset() {
	b.floor = 0
	b.total = 0
	b.lastAt = 0
}
