// Package oscnet binds the OSC codec to a UDP net.PacketConn: sending a
// message or bundle to an address, and dispatching received packets to
// pattern-matched handlers.
package oscnet

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	cosc "github.com/gebauer/cosc"
	"github.com/gebauer/cosc/oscpattern"
)

// Handler is something that can handle an OSC message.
type Handler interface {
	Handle(*cosc.Message) error
}

// HandlerFunc converts a function into a Handler.
func HandlerFunc(f func(*cosc.Message) error) Handler {
	return handlerFunc(f)
}

type handlerFunc func(*cosc.Message) error

func (h handlerFunc) Handle(m *cosc.Message) error { return h(m) }

type registration struct {
	pattern string
	h       Handler
}

// Listener listens on a connection and dispatches received messages to
// registered handlers. Up to workers messages are dispatched concurrently,
// so the same handler may run concurrently against different messages; the
// handlers matching one message run one after another in the same
// goroutine. Bundles are flattened
// (recursively) into their constituent messages before dispatch; the
// bundle's time tag is not used for scheduling.
type Listener struct {
	conn net.PacketConn
	// registrations could be indexed for faster matching, but a linear
	// scan is fine at the scale this library targets.
	registrations []registration
	// workers sets how many messages are handled concurrently. This is
	// independent of how many handlers run per message, since a message
	// may match several.
	workers int
}

// NewListener creates a Listener reading from conn, dispatching to up to
// workers goroutines concurrently.
func NewListener(conn net.PacketConn, workers int) *Listener {
	return &Listener{conn: conn, workers: workers}
}

// Handle registers a handler to receive messages whose address matches
// pattern (an OSC address pattern, not a literal address).
func (l *Listener) Handle(pattern string, h Handler) {
	l.registrations = append(l.registrations, registration{pattern, h})
}

func (l *Listener) dispatch(msg *cosc.Message) {
	matched := false
	for _, r := range l.registrations {
		if oscpattern.Match(r.pattern, msg.Address) {
			matched = true
			if err := r.h.Handle(msg); err != nil {
				log.Printf("oscnet: handler %q: %v (message: %v)", r.pattern, err, msg)
			}
		}
	}
	if !matched {
		log.Print(UnmatchedPatternError{Msg: *msg})
	}
}

func flatten(e cosc.Element, out *[]*cosc.Message) {
	switch v := e.(type) {
	case cosc.Message:
		m := v
		*out = append(*out, &m)
	case cosc.Bundle:
		for _, child := range v.Elements {
			flatten(child, out)
		}
	}
}

// Serve starts reading OSC packets and dispatching them to registered
// handlers. It blocks until ctx is cancelled or the connection returns an
// error.
func (l *Listener) Serve(ctx context.Context) error {
	recv := make(chan *cosc.Message, 100)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Wake the reader below from a blocked ReadFrom once gctx is done.
		<-gctx.Done()
		l.conn.SetReadDeadline(time.Now())
		return nil
	})
	g.Go(func() error {
		buf := make([]byte, 1<<16) // largest plausible UDP datagram.
		for {
			n, addr, err := l.conn.ReadFrom(buf)
			if n > 0 {
				msgs, perr := parsePacket(buf[:n])
				if perr != nil {
					log.Printf("oscnet: invalid packet from %v: %v", addr, perr)
				}
				for _, msg := range msgs {
					select {
					case recv <- msg:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
			if err != nil {
				return err
			}
		}
	})
	for i := 0; i < l.workers; i++ {
		g.Go(func() error {
			for {
				var msg *cosc.Message
				select {
				case <-gctx.Done():
					return gctx.Err()
				case msg = <-recv:
				}
				l.dispatch(msg)
			}
		})
	}
	return g.Wait()
}

// parsePacket parses a single UDP datagram as either a message or a
// bundle, flattening a bundle's nested messages into a single slice.
func parsePacket(buf []byte) ([]*cosc.Message, error) {
	if len(buf) >= 8 && string(buf[:8]) == "#bundle\x00" {
		bun, err := cosc.ParseBundle(buf)
		if err != nil {
			return nil, err
		}
		var out []*cosc.Message
		for _, e := range bun.Elements {
			flatten(e, &out)
		}
		return out, nil
	}
	m, err := cosc.ParseMessage(buf)
	if err != nil {
		return nil, err
	}
	return []*cosc.Message{m}, nil
}

// UnmatchedPatternError reports that no handler matched a message's
// address.
type UnmatchedPatternError struct {
	Msg cosc.Message
}

func (u UnmatchedPatternError) Error() string {
	return fmt.Sprintf("oscnet: no handlers matched message: %v", u.Msg)
}
