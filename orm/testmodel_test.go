package orm

import (
	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/errors"
)

// Counter is a minimal model used to exercise buckets.
type Counter struct {
	Count int64
}

func NewCounter(count int64) *SimpleObj {
	return NewSimpleObj(nil, &Counter{Count: count})
}

func (c *Counter) Marshal() ([]byte, error) { return codec.Marshal(c) }

func (c *Counter) Unmarshal(bz []byte) error { return codec.Unmarshal(bz, c) }

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative counter")
	}
	return nil
}

// Label is a model with a different layout than Counter.
type Label struct {
	Text string
}

func (l *Label) Marshal() ([]byte, error) { return codec.Marshal(l) }

func (l *Label) Unmarshal(bz []byte) error { return codec.Unmarshal(bz, l) }

func (l *Label) Validate() error {
	if l.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}
