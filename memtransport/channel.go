// Package memtransport is an in-process implementation of cplscheme.Channel
// for tests and the demo driver: two participants running as goroutines
// exchange values over a pair of unbuffered Go channels, one per direction,
// so a send blocks until its peer's matching receive is ready — the same
// suspension behavior the real point-to-point transport exhibits.
package memtransport

import (
	"context"
	"fmt"
)

type wireKind int

const (
	kindScalars wireKind = iota
	kindInt
	kindBool
)

type wireMsg struct {
	kind    wireKind
	scalars []float64
	i       int
	b       bool
}

// MemChannel is one participant's endpoint of an in-memory link.
type MemChannel struct {
	ctx  context.Context
	out  chan<- wireMsg
	in   <-chan wireMsg
}

// NewPair returns two connected endpoints; values sent on one are received
// on the other, in program order, one direction per underlying Go channel.
func NewPair(ctx context.Context) (a, b *MemChannel) {
	if ctx == nil {
		ctx = context.Background()
	}
	aToB := make(chan wireMsg)
	bToA := make(chan wireMsg)
	a = &MemChannel{ctx: ctx, out: aToB, in: bToA}
	b = &MemChannel{ctx: ctx, out: bToA, in: aToB}
	return a, b
}

func (c *MemChannel) IsConnected() bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
		return true
	}
}

func (c *MemChannel) send(msg wireMsg) error {
	select {
	case c.out <- msg:
		return nil
	case <-c.ctx.Done():
		return fmt.Errorf("memtransport: send interrupted: %w", c.ctx.Err())
	}
}

func (c *MemChannel) receive(want wireKind) (wireMsg, error) {
	select {
	case msg := <-c.in:
		if msg.kind != want {
			return wireMsg{}, fmt.Errorf("memtransport: expected message kind %d, got %d (sender/receiver protocol out of sync)", want, msg.kind)
		}
		return msg, nil
	case <-c.ctx.Done():
		return wireMsg{}, fmt.Errorf("memtransport: receive interrupted: %w", c.ctx.Err())
	}
}

func (c *MemChannel) SendScalars(values []float64) error {
	return c.send(wireMsg{kind: kindScalars, scalars: append([]float64(nil), values...)})
}

func (c *MemChannel) ReceiveScalars(n int) ([]float64, error) {
	msg, err := c.receive(kindScalars)
	if err != nil {
		return nil, err
	}
	if len(msg.scalars) != n {
		return nil, fmt.Errorf("memtransport: expected %d scalars, got %d", n, len(msg.scalars))
	}
	return msg.scalars, nil
}

func (c *MemChannel) SendInt(v int) error {
	return c.send(wireMsg{kind: kindInt, i: v})
}

func (c *MemChannel) ReceiveInt() (int, error) {
	msg, err := c.receive(kindInt)
	if err != nil {
		return 0, err
	}
	return msg.i, nil
}

func (c *MemChannel) SendBool(v bool) error {
	return c.send(wireMsg{kind: kindBool, b: v})
}

func (c *MemChannel) ReceiveBool() (bool, error) {
	msg, err := c.receive(kindBool)
	if err != nil {
		return false, err
	}
	return msg.b, nil
}
