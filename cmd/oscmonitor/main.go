// Command oscmonitor listens for the hand point messages sent by handosc
// and prints them.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/hypebeast/go-osc/osc"
	"go.uber.org/zap"
)

func main() {
	parser := argparse.NewParser("oscmonitor", "Print hand point messages received over OSC")
	host := parser.String("H", "host", &argparse.Options{Help: "Address to listen on", Default: "0.0.0.0"})
	port := parser.Int("p", "port", &argparse.Options{Help: "UDP port to listen on", Default: 8000})
	showOthers := parser.Flag("a", "all", &argparse.Options{Help: "Also print messages for other addresses", Default: false})
	framesOnly := parser.Flag("f", "frames", &argparse.Options{Help: "Print one line per complete frame instead of every point", Default: false})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Sugar()
	defer logger.Sync()

	addr := net.JoinHostPort(*host, strconv.Itoa(*port))
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		log.Fatalw("Failed to listen", "addr", addr, "error", err)
	}

	mon := newMonitor(log, *showOthers, *framesOnly)
	server := &osc.Server{Addr: addr, Dispatcher: mon}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	log.Infow("Listening for OSC", "addr", conn.LocalAddr().String())
	if err := server.Serve(conn); err != nil && !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
		log.Errorw("OSC server failed", "error", err)
	}

	messages, frames, ignored := mon.stats()
	log.Infow("Monitor stopped", "messages", messages, "frames", frames, "ignored", ignored)
}
