package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"procman/internal/logging"
	"procman/internal/procstat"
)

// tracked is what the target shows on every refresh. Ticks stop advancing
// while the process is suspended, which makes suspend/resume easy to see.
type tracked struct {
	Ticks    uint64
	LastTick time.Time
	Paused   bool
}

var (
	state tracked
	mu    sync.Mutex
)

func main() {
	refresh := flag.Duration("refresh", 500*time.Millisecond, "redraw interval")
	level := flag.String("log-level", "warn", "log level for stat collection (debug shows fields the OS refused)")
	flag.Parse()

	logger, err := logging.New(*level, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ticker := time.NewTicker(*refresh)
	defer ticker.Stop()

	go listenInput()

	for range ticker.C {
		mu.Lock()
		if !state.Paused {
			state.Ticks++
		}
		state.LastTick = time.Now()
		vals := state
		mu.Unlock()

		render(logger, vals)
	}
}

func listenInput() {
	reader := bufio.NewReader(os.Stdin)
	for {
		ch, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch ch {
		case 'p':
			mu.Lock()
			state.Paused = !state.Paused
			mu.Unlock()
		case 'q':
			os.Exit(0)
		default:
			// ignore other keys
		}
	}
}

func render(logger *logrus.Logger, vals tracked) {
	fmt.Print("\033[H\033[2J") // clear screen for refreshed view
	fmt.Println("procman test target (q=quit, p=pause ticks; press Enter after key on Windows)")
	fmt.Println()
	fmt.Printf("pid:      %d\n", os.Getpid())
	fmt.Printf("ticks:    %d\n", vals.Ticks)
	fmt.Printf("paused:   %t\n", vals.Paused)
	fmt.Printf("time:     %s\n", vals.LastTick.Format(time.TimeOnly))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	stats, err := procstat.Collect(ctx, logger, uint32(os.Getpid()))
	if err != nil {
		fmt.Printf("stats:    %v\n", err)
		return
	}
	for _, line := range stats.Lines() {
		fmt.Println(line)
	}
}
