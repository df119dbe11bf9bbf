// Command buttond polls a GPIO push button, debounces and classifies presses
// into click events, and publishes them to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swilson/buttond/internal/button"
	"github.com/swilson/buttond/internal/config"
	"github.com/swilson/buttond/internal/gpio"
	"github.com/swilson/buttond/internal/mqtt"
	"github.com/swilson/buttond/internal/status"
	"github.com/swilson/buttond/internal/web"
)

func main() {
	confPath := flag.String("conf", config.DefaultPath, "Config file path")
	poll := flag.Duration("poll", 0, "Poll interval (overrides config file)")
	window := flag.Duration("window", 0, "Click window: release duration that finalizes a click count (overrides config file)")
	long := flag.Duration("long", 0, "Hold duration that becomes a long click (overrides config file)")
	pin := flag.Int("pin", 0, "BCM pin number (overrides config file)")
	activeHigh := flag.Bool("active-high", false, "Pressed drives the line high instead of low (overrides config file)")
	broker := flag.String("broker", "", "MQTT broker address (overrides config file)")
	heartbeat := flag.Duration("heartbeat", 0, "Heartbeat interval, 0 to disable (overrides config file)")
	httpAddr := flag.String("http", "", "HTTP status address, \"off\" to disable (overrides config file)")
	printState := flag.Bool("print-state", false, "Print current button state and exit")

	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	ov := overrides{
		poll:       *poll,
		window:     *window,
		long:       *long,
		pin:        *pin,
		activeHigh: *activeHigh,
		broker:     *broker,
		heartbeat:  *heartbeat,
		httpAddr:   *httpAddr,
	}

	if err := run(*confPath, set, ov, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// overrides carries the flag values; only the flags the user actually set
// (tracked via flag.Visit) take precedence over the config file.
type overrides struct {
	poll, window, long time.Duration
	heartbeat          time.Duration
	pin                int
	activeHigh         bool
	broker             string
	httpAddr           string
}

// applyOverrides layers explicitly-set flags on top of the file config.
func applyOverrides(cfg config.File, set map[string]bool, ov overrides) config.File {
	if set["poll"] {
		cfg.Button.Poll = ov.poll
	}
	if set["window"] {
		cfg.Button.Window = ov.window
	}
	if set["long"] {
		cfg.Button.LongPress = ov.long
	}
	if set["pin"] {
		cfg.Button.Pin = ov.pin
	}
	if set["active-high"] {
		cfg.Button.ActiveLow = !ov.activeHigh
	}
	if set["broker"] {
		cfg.MQTT.Broker = ov.broker
	}
	if set["heartbeat"] {
		cfg.MQTT.Heartbeat = ov.heartbeat
	}
	if set["http"] {
		if ov.httpAddr == "off" {
			cfg.HTTP.Addr = ""
		} else {
			cfg.HTTP.Addr = ov.httpAddr
		}
	}
	return cfg
}

// ticksFor converts a duration threshold into poll ticks. The classifier
// counts ticks, not wall-clock time; the poll loop owns cadence correctness.
func ticksFor(d, poll time.Duration) uint32 {
	if poll <= 0 || d <= 0 {
		return 0
	}
	n := d / poll
	if n < 1 {
		n = 1
	}
	return uint32(n)
}

func statusConfig(cfg config.File, confPath string) status.Config {
	return status.Config{
		PollMs:      cfg.Button.Poll.Milliseconds(),
		WindowTicks: ticksFor(cfg.Button.Window, cfg.Button.Poll),
		LongTicks:   ticksFor(cfg.Button.LongPress, cfg.Button.Poll),
		HeartbeatMs: cfg.MQTT.Heartbeat.Milliseconds(),
		Pin:         cfg.Button.Pin,
		ActiveLow:   cfg.Button.ActiveLow,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		ConfPath:    confPath,
	}
}

func run(confPath string, set map[string]bool, ov overrides, printState bool) error {
	watcher, err := config.NewWatcher(confPath)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}
	defer watcher.Stop()

	cfg := applyOverrides(watcher.Get(), set, ov)

	gpioReader, err := gpio.NewRealReader(cfg.Button.Pin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer gpioReader.Close()

	if printState {
		lv, err := gpioReader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		pressed := (lv == button.Low) == cfg.Button.ActiveLow
		fmt.Printf("pin %d: raw=%d %s\n", cfg.Button.Pin, lv, stateString(pressed))
		return nil
	}

	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker)
	defer publisher.Close()

	tracker := status.NewTracker(time.Now(), statusConfig(cfg, confPath))

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
	} else {
		log.Printf("published startup event")
	}

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	log.Printf("started: pin=%d active_low=%v poll=%v window=%v long=%v broker=%s",
		cfg.Button.Pin, cfg.Button.ActiveLow, cfg.Button.Poll,
		cfg.Button.Window, cfg.Button.LongPress, cfg.MQTT.Broker)

	// Live reload: merged with flag overrides so an explicitly-set flag keeps
	// winning. Poll cadence and pin are fixed at startup — the ticker and the
	// GPIO line request are not rebuilt.
	reloadCh := make(chan config.File, 1)
	basePoll := cfg.Button.Poll
	basePin := cfg.Button.Pin
	watcher.OnReload(func(f config.File) {
		merged := applyOverrides(f, set, ov)
		if merged.Button.Poll != basePoll {
			log.Printf("config: poll change requires restart (keeping %v)", basePoll)
			merged.Button.Poll = basePoll
		}
		if merged.Button.Pin != basePin {
			log.Printf("config: pin change requires restart (keeping %d)", basePin)
			merged.Button.Pin = basePin
		}
		select {
		case reloadCh <- merged:
		default:
		}
	})
	watcher.Start()

	ticker := time.NewTicker(cfg.Button.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(gpioReader, publisher, publisher, tracker, cfg, confPath, reloadCh, time.Now, ticker.C, sigCh)
}

func runLoop(reader gpio.Reader, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cfg config.File, confPath string, reload <-chan config.File, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	// raw holds the sample for the current tick; the button's ReadLevel
	// closure reads it so the loop can surface GPIO errors itself.
	var raw button.Level
	var tickNow time.Time

	makeButton := func(c config.File) button.Button {
		active := button.Low
		if !c.Button.ActiveLow {
			active = button.High
		}
		return button.New(&button.Config{
			ReadLevel:   func() button.Level { return raw },
			ActiveLevel: active,
			UpMaxCnt:    ticksFor(c.Button.Window, c.Button.Poll),
			LongMinCnt:  ticksFor(c.Button.LongPress, c.Button.Poll),
		}, func(e button.Event) {
			log.Printf("event: %s clicks=%d", e.Type, e.Clicks)
			tracker.RecordEvent(tickNow, e.Type, e.Clicks)
			if err := publisher.Publish(mqtt.ClickEvent{
				Timestamp: tickNow,
				Type:      e.Type,
				Clicks:    e.Clicks,
			}); err != nil {
				log.Printf("publish error: %v", err)
				// Don't crash on publish failure
			}
		})
	}

	btn := makeButton(cfg)
	lastHeartbeat := now()

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case c := <-reload:
			cfg = c
			// Rebuilding the classifier discards any click in flight;
			// reloads between interactions lose nothing.
			btn = makeButton(cfg)
			tracker.SetConfig(statusConfig(cfg, confPath))
			log.Printf("config applied: window=%v long=%v heartbeat=%v",
				cfg.Button.Window, cfg.Button.LongPress, cfg.MQTT.Heartbeat)

		case <-tick:
			tickNow = now()
			v, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}
			raw = v

			btn.Scan()

			tracker.SetPressed(btn.Pressed())
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if cfg.MQTT.Heartbeat > 0 && tickNow.Sub(lastHeartbeat) >= cfg.MQTT.Heartbeat {
				lastHeartbeat = tickNow
				snap := tracker.Snapshot()
				log.Printf("heartbeat: uptime=%v popup=%d single=%d double=%d more=%d long=%d",
					snap.Uptime().Truncate(time.Second), snap.Counts.Popup, snap.Counts.Single,
					snap.Counts.Double, snap.Counts.More, snap.Counts.Long)
				hb := mqtt.SystemEvent{
					Timestamp:  tickNow,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hb); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

func stateString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
