// Command controldeck reads rotary encoders and buttons over GPIO and turns
// them into MIDI Control Change messages, with MQTT telemetry and an HTTP
// status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/opencontrol/controldeck/internal/app"
	"github.com/opencontrol/controldeck/internal/gpio"
	"github.com/opencontrol/controldeck/internal/input"
	"github.com/opencontrol/controldeck/internal/midiout"
	"github.com/opencontrol/controldeck/internal/status"
	"github.com/opencontrol/controldeck/internal/telemetry"
	"github.com/opencontrol/controldeck/internal/web"
)

func main() {
	poll := flag.Duration("poll", time.Millisecond, "GPIO polling interval")
	debounce := flag.Duration("debounce", 5*time.Millisecond, "Button debounce duration")
	longPress := flag.Duration("long-press", 500*time.Millisecond, "Long press threshold")
	doubleTap := flag.Duration("double-tap", 300*time.Millisecond, "Double tap window")
	chip := flag.String("chip", "gpiochip0", "GPIO character device name")
	midiPort := flag.String("midi-port", "", "MIDI output port name substring (empty picks the first hardware port)")
	channel := flag.Int("channel", defaultChannel, "MIDI channel (0-15)")
	ccBase := flag.Int("cc-base", defaultCCBase, "First encoder CC number")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable telemetry)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	printState := flag.Bool("print-state", false, "Print current pin levels and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	initLogger(*debug)

	if err := run(options{
		poll:       *poll,
		debounce:   *debounce,
		longPress:  *longPress,
		doubleTap:  *doubleTap,
		chip:       *chip,
		midiPort:   *midiPort,
		channel:    uint8(*channel),
		ccBase:     uint8(*ccBase),
		broker:     *broker,
		heartbeat:  *heartbeat,
		httpAddr:   *httpAddr,
		printState: *printState,
	}); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

type options struct {
	poll       time.Duration
	debounce   time.Duration
	longPress  time.Duration
	doubleTap  time.Duration
	chip       string
	midiPort   string
	channel    uint8
	ccBase     uint8
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
}

func run(opts options) error {
	if opts.channel > 15 {
		return fmt.Errorf("channel %d out of range", opts.channel)
	}

	encoders := defaultEncoders
	buttons := defaultButtons

	reader, err := gpio.NewRealReader(opts.chip, configuredPins(encoders, buttons))
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	if opts.printState {
		return printLevels(reader)
	}

	sink, err := midiout.NewRealSink(opts.midiPort)
	if err != nil {
		return fmt.Errorf("init midi: %w", err)
	}
	defer sink.Close()
	if sink.IsConnected() {
		slog.Info("midi port open", "port", sink.PortName())
	} else {
		slog.Warn("no midi port available, will retry", "pattern", opts.midiPort)
	}

	var pub telemetry.Publisher
	var pubStatus telemetry.ConnectionStatus
	if opts.broker != "" {
		rp, err := telemetry.NewRealPublisher(opts.broker, "controldeck")
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer rp.Close()
		pub = rp
		pubStatus = rp
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      opts.poll.Milliseconds(),
		DebounceMs:  opts.debounce.Milliseconds(),
		LongPressMs: opts.longPress.Milliseconds(),
		DoubleTapMs: opts.doubleTap.Milliseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPPort:    opts.httpAddr,
		MIDIPattern: opts.midiPort,
		Channel:     opts.channel,
	})
	tracker.SetMIDI(sink.IsConnected(), sink.PortName())

	a, err := app.NewBuilder().
		Encoders(encoders...).
		Buttons(buttons...).
		Timing(input.Timing{
			DebounceMs:  uint32(opts.debounce.Milliseconds()),
			LongPressMs: uint32(opts.longPress.Milliseconds()),
			DoubleTapMs: uint32(opts.doubleTap.Milliseconds()),
		}).
		GPIO(reader).
		MIDI(sink).
		Build()
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer a.Close()

	deck := &deckContext{
		mapping: deckMapping{
			Channel:   opts.channel,
			CCBase:    opts.ccBase,
			Button1CC: defaultButton1CC,
			Button2CC: defaultButton2CC,
		},
		encoders: encoders,
		buttons:  buttons,
		pub:      pub,
		now:      time.Now,
	}
	if err := a.RegisterContext(deck); err != nil {
		return fmt.Errorf("register context: %w", err)
	}

	if pub != nil {
		snap := tracker.Snapshot()
		startup := telemetry.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := pub.PublishSystem(startup); err != nil {
			slog.Warn("startup publish failed", "error", err)
		} else {
			slog.Info("published startup event")
		}
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		slog.Info("http status server listening", "addr", opts.httpAddr)
	}

	midiTick := func() {
		if !sink.IsConnected() {
			if err := sink.Reconnect(); err != nil {
				slog.Debug("midi reconnect failed", "error", err)
			} else {
				slog.Info("midi port open", "port", sink.PortName())
			}
		}
		tracker.SetMIDI(sink.IsConnected(), sink.PortName())
	}

	slog.Info("started",
		"poll", opts.poll, "encoders", len(encoders), "buttons", len(buttons),
		"channel", opts.channel, "broker", opts.broker, "heartbeat", opts.heartbeat)

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(a, pub, pubStatus, tracker, midiTick, opts.heartbeat, time.Now, ticker.C, sigCh)
}

// runLoop drives the application from the tick channel until a signal
// arrives. All time used for input processing is derived from now() so the
// loop is fully testable.
func runLoop(a *app.App, pub telemetry.Publisher, pubStatus telemetry.ConnectionStatus, tracker *status.Tracker, midiTick func(), heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	start := now()

	var counts status.EventCounts
	a.OnEvent(func(ev input.Event) {
		switch ev.Kind {
		case input.EncoderTurn:
			counts.EncoderTurns++
		case input.ButtonPress:
			counts.Presses++
		case input.ButtonRelease:
			counts.Releases++
		case input.ButtonLong:
			counts.LongPresses++
		case input.ButtonDouble:
			counts.DoubleTaps++
		}
	})

	if err := a.Begin(); err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	lastHeartbeat := start
	lastMidiTick := start

	for {
		select {
		case s := <-sig:
			slog.Info("shutting down", "signal", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if pub != nil {
				if pubStatus != nil {
					tracker.SetMQTTConnected(pubStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event := telemetry.SystemEvent{
					Timestamp:  now(),
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := pub.PublishSystem(event); err != nil {
					slog.Warn("shutdown publish failed", "error", err)
				}
			}
			return nil

		case <-tick:
			t := now()
			nowMs := uint32(t.Sub(start).Milliseconds())

			if err := a.Poll(nowMs); err != nil {
				slog.Warn("poll error", "error", err)
				continue
			}

			if midiTick != nil && t.Sub(lastMidiTick) >= time.Second {
				midiTick()
				lastMidiTick = t
			}

			tracker.Update(a.EncoderPositions(), a.ButtonsHeld(), counts)
			if pubStatus != nil {
				tracker.SetMQTTConnected(pubStatus.IsConnected())
			}

			if pub != nil && heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				snap := tracker.Snapshot()
				slog.Info("heartbeat", "uptime", snap.Uptime(), "turns", counts.EncoderTurns, "presses", counts.Presses)
				hb := telemetry.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := pub.PublishSystem(hb); err != nil {
					slog.Warn("heartbeat publish failed", "error", err)
				}
			}
		}
	}
}

func printLevels(reader gpio.Reader) error {
	levels, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	pins := make([]int, 0, len(levels))
	for pin := range levels {
		pins = append(pins, pin)
	}
	sort.Ints(pins)
	for _, pin := range pins {
		state := "LOW"
		if levels[pin] {
			state = "HIGH"
		}
		fmt.Printf("GPIO%d: %s\n", pin, state)
	}
	return nil
}
