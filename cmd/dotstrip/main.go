package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/callebjorkell/dotstrip/internal/animation"
	"github.com/callebjorkell/dotstrip/internal/button"
	"github.com/callebjorkell/dotstrip/internal/pins"
	"github.com/callebjorkell/dotstrip/internal/strip"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app        = kingpin.New("dotstrip", "Drive an APA102 LED strip over two GPIO lines")
	debug      = app.Flag("debug", "Turn on debug logging.").Bool()
	configFile = app.Flag("config", "Configuration file.").Default("dotstrip.yaml").String()

	version = app.Command("version", "Show current version.")

	clearCmd = app.Command("clear", "Turn off every pixel.")

	set           = app.Command("set", "Set a single pixel.")
	setIndex      = set.Arg("index", "Pixel index.").Required().Int()
	setRed        = set.Arg("red", "Red (0-255).").Required().Float64()
	setGreen      = set.Arg("green", "Green (0-255).").Required().Float64()
	setBlue       = set.Arg("blue", "Blue (0-255).").Required().Float64()
	setBrightness = fraction(set.Flag("brightness", "Brightness (0-1)."))

	fill           = app.Command("fill", "Set every pixel to the same color.")
	fillRed        = fill.Arg("red", "Red (0-255).").Required().Float64()
	fillGreen      = fill.Arg("green", "Green (0-255).").Required().Float64()
	fillBlue       = fill.Arg("blue", "Blue (0-255).").Required().Float64()
	fillBrightness = fraction(fill.Flag("brightness", "Brightness (0-1)."))

	dim      = app.Command("brightness", "Set the brightness of every pixel.")
	dimLevel = dim.Arg("level", "Brightness (0-1).").Required().Float64()

	flash      = app.Command("flash", "Flash a color.")
	flashColor = flash.Arg("color", "Hex RGB color, e.g. ff8800.").Required().String()

	rainbow = app.Command("rainbow", "Run through the color wheel once.")

	run = app.Command("run", "Breathe the configured colors. The button moves on to the next color.")
)

var buildTime, buildVersion string

func showVersion() {
	if buildTime != "" && buildVersion != "" {
		fmt.Printf("%s (built: %s)\n", buildVersion, buildTime)
	} else {
		fmt.Println("dotstrip: dev")
	}
}

type colorFormatter struct {
	log.TextFormatter
}

func (f *colorFormatter) Format(entry *log.Entry) ([]byte, error) {
	var levelColor int
	switch entry.Level {
	case log.DebugLevel, log.TraceLevel:
		levelColor = 90 // dark grey
	case log.WarnLevel:
		levelColor = 33 // yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = 91 // bright red
	default:
		levelColor = 39 // default
	}
	return []byte(fmt.Sprintf("\x1b[%dm%s\x1b[0m\n", levelColor, entry.Message)), nil
}

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	log.SetFormatter(&colorFormatter{})
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	if cmd == version.FullCommand() {
		showVersion()
		return
	}

	conf, err := readConfig(*configFile)
	if err != nil {
		log.Fatal("Unable to read config: ", err)
	}

	s := strip.New(pins.NewAcquirer(), conf.Pins())
	s.SetClearOnExit(*conf.ClearOnExit)

	switch cmd {
	case clearCmd.FullCommand():
		err = oneShot(s, func() error {
			s.Clear()
			return nil
		})
	case set.FullCommand():
		err = oneShot(s, func() error {
			return s.SetPixel(*setIndex, *setRed, *setGreen, *setBlue, setBrightness.value)
		})
	case fill.FullCommand():
		err = oneShot(s, func() error {
			return s.SetAll(*fillRed, *fillGreen, *fillBlue, fillBrightness.value)
		})
	case dim.FullCommand():
		err = oneShot(s, func() error {
			return s.SetBrightness(*dimLevel)
		})
	case flash.FullCommand():
		err = flashOnce(s, *flashColor, conf.Speed)
	case rainbow.FullCommand():
		err = playOnce(s, conf.Speed, (*animation.Player).Rainbow)
	case run.FullCommand():
		err = runEffects(s, conf)
	default:
		kingpin.FatalUsage("Unrecognized command")
	}

	if err != nil {
		log.Fatal(err)
	}
}

// fractionValue is a brightness flag that stays strip.Keep unless it is given.
type fractionValue struct {
	value strip.Fraction
}

func fraction(f *kingpin.FlagClause) *fractionValue {
	v := &fractionValue{}
	f.SetValue(v)
	return v
}

func (v *fractionValue) Set(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	v.value = strip.Brightness(f)
	return nil
}

func (v *fractionValue) String() string {
	return v.value.String()
}

// oneShot applies a change and shows it. The strip keeps showing the result after exit.
func oneShot(s *strip.Strip, change func() error) error {
	s.SetClearOnExit(false)
	if err := change(); err != nil {
		return err
	}
	return errors.Join(s.Show(), s.Close())
}

func flashOnce(s *strip.Strip, color string, tick time.Duration) error {
	c, err := strconv.ParseUint(color, 16, 24)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", color, err)
	}

	return playOnce(s, tick, func(p *animation.Player) error {
		return p.Flash(uint32(c))
	})
}

// playOnce runs a single effect to the end and then runs the exit hook of the strip.
func playOnce(s *strip.Strip, tick time.Duration, effect func(*animation.Player) error) error {
	p := animation.NewPlayer(s, tick, 1)
	return errors.Join(effect(p), s.Close())
}

func runEffects(s *strip.Strip, conf *Config) error {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := button.Watch(ctx, conf.ButtonPin)
	if err != nil {
		return err
	}

	p := animation.NewPlayer(s, conf.Speed, *conf.Brightness)
	next := 0
	breathe := func() <-chan error {
		c := conf.Colors[next%len(conf.Colors)]
		next++
		log.Infof("Breathing %s", c.Name)
		return p.Breathe(c.Color)
	}

	stopped := breathe()
	for {
		select {
		case e, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			log.Debugf("Event: %v", e)
			if e.Pressed {
				stopped = breathe()
			}
		case err := <-stopped:
			if err != nil && !errors.Is(err, animation.ErrInterrupted) {
				log.Warn("Effect stopped: ", err)
			}
			stopped = nil
		case sig := <-signalChan:
			log.Infof("Got %v, shutting down...", sig)
			p.Stop()
			cancel()
			if err := s.Close(); err != nil {
				return err
			}
			log.Info("Done...")
			return nil
		}
	}
}
