// Command osctool sends or receives OSC messages over UDP, for manual
// testing against other OSC-speaking software.
package main

import (
	"context"
	"flag"
	"log"
	"net"

	cosc "github.com/gebauer/cosc"
	"github.com/gebauer/cosc/oscnet"
)

var (
	modeFlag       = flag.String("mode", "", "`mode` in which to run, must be one of \"send\" or \"receive\"")
	listenAddrFlag = flag.String("listen_addr", "127.0.0.1:0", "`host:port`: the address to listen on.")
	sendAddrFlag   = flag.String("send_addr", "", "`host:port`: the address to send to.")
	addressFlag    = flag.String("address", "/test", "OSC `address` to send a message to, in send mode")
	bundleFlag     = flag.Bool("bundle", false, "in send mode, wrap the message in a bundle with an immediate time tag")
)

func main() {
	flag.Parse()

	ctx := context.Background()
	switch *modeFlag {
	case "send":
		if err := send(ctx); err != nil {
			log.Fatal(err)
		}
	case "receive":
		if err := receive(ctx); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown mode %q", *modeFlag)
	}
}

func send(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", *listenAddrFlag)
	if err != nil {
		return err
	}
	defer conn.Close()

	if *bundleFlag {
		log.Printf("Sending bundle to %v, address %v", *sendAddrFlag, *addressFlag)
		msg := cosc.Message{Address: *addressFlag, Arguments: []cosc.Argument{cosc.Int32(12)}}
		return cosc.SendBundle(conn, *sendAddrFlag, cosc.Immediate, msg)
	}
	log.Printf("Sending message to %v, address %v", *sendAddrFlag, *addressFlag)
	return cosc.Send(conn, *sendAddrFlag, *addressFlag, cosc.Int32(12))
}

func receive(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", *listenAddrFlag)
	if err != nil {
		return err
	}
	log.Printf("Listening on %v", conn.LocalAddr())

	l := oscnet.NewListener(conn, 1)
	for _, p := range []string{
		"/test",
		"/test/*",
	} {
		p := p
		l.Handle(p, oscnet.HandlerFunc(func(msg *cosc.Message) error {
			log.Printf("%s: recv: %v", p, msg)
			return nil
		}))
	}
	return l.Serve(ctx)
}
