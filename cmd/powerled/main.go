// Command powerled drives a preamp's front-panel power LED from mains and mute sense lines.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/powerled/internal/gpio"
	"github.com/sweeney/powerled/internal/logic"
	"github.com/sweeney/powerled/internal/mqtt"
	"github.com/sweeney/powerled/internal/status"
	"github.com/sweeney/powerled/internal/web"
)

const (
	driverGPIOCDev = "gpiocdev"
	driverPeriph   = "periph"
)

type options struct {
	driver     string
	board      gpio.Config
	broker     string
	heartbeat  time.Duration
	httpAddr   string
	printState bool
}

func main() {
	def := gpio.DefaultConfig()
	var opts options

	flag.StringVar(&opts.driver, "driver", driverGPIOCDev, "GPIO backend: gpiocdev or periph")
	flag.StringVar(&opts.board.Chip, "chip", def.Chip, "GPIO chip name (gpiocdev only)")
	flag.IntVar(&opts.board.PinAC, "pin-ac", def.PinAC, "BCM pin number for AC zero-cross pulses")
	flag.IntVar(&opts.board.PinMute, "pin-mute", def.PinMute, "BCM pin number for the mute sense line")
	flag.IntVar(&opts.board.PinLED, "pin-led", def.PinLED, "BCM pin number for the power LED")
	flag.BoolVar(&opts.board.MuteActiveLow, "mute-active-low", false, "Mute sense line is low while muting")
	flag.StringVar(&opts.broker, "broker", "", "MQTT broker address (empty to disable)")
	flag.DurationVar(&opts.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&opts.httpAddr, "http", ":8080", "HTTP status address (empty to disable)")
	flag.BoolVar(&opts.printState, "print-state", false, "Print current inputs and exit")

	flag.Parse()

	if err := run(opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func openBoard(driver string, cfg gpio.Config) (gpio.Board, error) {
	switch driver {
	case driverGPIOCDev:
		b, err := gpio.NewRealBoard(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	case driverPeriph:
		b, err := gpio.NewPeriphBoard(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown driver %q (want %s or %s)", driver, driverGPIOCDev, driverPeriph)
}

func run(opts options) error {
	board, err := openBoard(opts.driver, opts.board)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() {
		if err := board.Close(); err != nil {
			log.Printf("gpio close: %v", err)
		}
	}()

	if opts.printState {
		return printState(board, 100*time.Millisecond)
	}

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if opts.broker != "" {
		publisher = mqtt.NewRealPublisher(opts.broker, "powerled")
	}
	defer publisher.Close()

	metrics := status.NewMetrics()
	tracker := status.NewTracker(time.Now(), status.Config{
		Driver:      opts.driver,
		PinAC:       opts.board.PinAC,
		PinMute:     opts.board.PinMute,
		PinLED:      opts.board.PinLED,
		TickUs:      gpio.TickDuration.Microseconds(),
		HeartbeatMs: opts.heartbeat.Milliseconds(),
		Broker:      opts.broker,
		HTTPAddr:    opts.httpAddr,
	}, metrics)

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker, metrics)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: driver=%s ac=%d mute=%d led=%d broker=%q heartbeat=%v",
		opts.driver, opts.board.PinAC, opts.board.PinMute, opts.board.PinLED, opts.broker, opts.heartbeat)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(board, publisher, publisher, tracker, opts.heartbeat, time.Now, sigCh, 0)
}

// printState reports the mute level and whether AC pulses arrive within window.
func printState(board gpio.Board, window time.Duration) error {
	first, err := board.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	time.Sleep(window)
	second, err := board.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}

	ac := "ABSENT"
	if second.Counter != first.Counter {
		ac = "PRESENT"
	}
	mute := "OFF"
	if second.Muting {
		mute = "ON"
	}
	fmt.Printf("AC: %s (%d pulses in %v), MUTE: %s\n", ac, second.Counter-first.Counter, window, mute)
	return nil
}

// runLoop runs the control loop until a signal arrives. Each iteration emits
// at least one PWM frame on board, which paces the loop. A positive limit
// stops the loop after that many iterations (tests only).
func runLoop(board gpio.Board, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, sig <-chan os.Signal, limit int) error {
	ctrl := logic.NewController(board)
	lastHeartbeat := now()

	var last gpio.Sample
	readFailing, writeFailing := false, false

	for i := 0; limit <= 0 || i < limit; i++ {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			reason := signalName(s)
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			event := mqtt.SystemEvent{
				Timestamp:  now(),
				Event:      "SHUTDOWN",
				Reason:     reason,
				Retained:   true,
				RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason),
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			}
			return nil
		default:
		}

		t := now()
		sample, err := board.Read()
		if err != nil {
			tracker.RecordGPIOError()
			if !readFailing {
				log.Printf("gpio read error: %v", err)
				readFailing = true
			}
			// Fail silent: hold the last good inputs. A stuck counter reads
			// as lost mains and the LED ramps down.
			sample = last
		} else {
			if readFailing {
				log.Printf("gpio read recovered")
				readFailing = false
			}
			last = sample
		}

		events := ctrl.Step(logic.Input{Counter: sample.Counter, Muting: sample.Muting, Time: t})

		if err := board.Err(); err != nil {
			tracker.RecordGPIOError()
			if !writeFailing {
				log.Printf("gpio write error: %v", err)
				writeFailing = true
			}
		} else if writeFailing {
			log.Printf("gpio write recovered")
			writeFailing = false
		}

		for _, event := range events {
			log.Printf("event: %s (brightness=%d target=%d muting=%v)", event.Type, event.Brightness, event.Target, event.Muting)
			if err := publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		}

		tracker.Update(ctrl.Snapshot())
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}

		if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
			lastHeartbeat = t
			snap := tracker.Snapshot()
			c := snap.Indicator.Counts
			log.Printf("heartbeat: uptime=%v phase=%s iterations=%d ramps_up=%d ramps_down=%d effects=%d gpio_errors=%d",
				snap.Uptime().Truncate(time.Second), snap.Indicator.Phase, c.Iterations, c.RampsUp, c.RampsDown, c.MuteEffects, snap.GPIOErrors)

			hbEvent := mqtt.SystemEvent{
				Timestamp:  t,
				Event:      "HEARTBEAT",
				RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}
	}
	return nil
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
