package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"jotunheim-weather/internal/engine"
	"jotunheim-weather/internal/infrastructure/storage"
	"jotunheim-weather/internal/timeline"
	"jotunheim-weather/pkg/api"
	"jotunheim-weather/pkg/logger"
	"jotunheim-weather/pkg/random"
)

func main() {
	// stdout только для результата, логи в stderr
	logger.InitWithOutput(os.Stderr)

	if len(os.Args) < 2 {
		printHelp(os.Stderr)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			printHelp(os.Stderr)
			os.Exit(2)
		}
		logger.Log.Error(err)
		os.Exit(1)
	}
}

var errUsage = errors.New("usage")

// options общие для всех команд флаги мира
type options struct {
	seed         string
	epochOffset  int64
	introWeather string
	rangeMode    string
	table        string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.seed, "seed", "", "World seed (numeric or text)")
	fs.Int64Var(&o.epochOffset, "epoch-offset", 0, "Seconds added to the tick before period division")
	fs.StringVar(&o.introWeather, "intro-weather", "", "Intro weather label (default Clear)")
	fs.StringVar(&o.rangeMode, "range", "reference", "Roll mapping: reference or linear")
	fs.StringVar(&o.table, "table", "", "Path to a JSON weather table")
}

func (o *options) service() (*engine.WeatherService, error) {
	cfg := engine.NewConfig()
	cfg.Seed = o.seed
	cfg.EpochOffset = o.epochOffset
	cfg.TablePath = o.table
	if o.introWeather != "" {
		cfg.IntroWeather = o.introWeather
	}
	mode, err := random.ParseRangeMode(o.rangeMode)
	if err != nil {
		return nil, err
	}
	cfg.RangeMode = mode
	return engine.NewService(cfg)
}

func run(cmd string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	var opts options
	opts.register(fs)

	switch cmd {
	case "tick":
		// tick <day> [HH:MM]
		if err := fs.Parse(args); err != nil {
			return err
		}
		tick, err := tickArgs(fs.Args())
		if err != nil {
			return err
		}
		conv := timeline.Converter{EpochOffset: opts.epochOffset}
		index, err := conv.WeatherIndex(tick)
		if err != nil {
			return err
		}
		windTick, err := conv.WindTick(tick)
		if err != nil {
			return err
		}
		return printJSON(out, api.TickReport{
			Day:          tick.Day(),
			Clock:        tick.Clock().String(),
			Tick:         int64(tick),
			WeatherIndex: index,
			WindTick:     windTick,
		})

	case "at", "compare":
		// at <day> [HH:MM] | at -tick N
		var rawTick int64
		fs.Int64Var(&rawTick, "tick", -1, "Explicit tick (overrides day/time)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		tick := timeline.Tick(rawTick)
		if rawTick < 0 {
			t, err := tickArgs(fs.Args())
			if err != nil {
				return err
			}
			tick = t
		}
		svc, err := opts.service()
		if err != nil {
			return err
		}
		q := engine.Query{Tick: tick, Seed: svc.DefaultSeed()}
		if cmd == "compare" {
			report, err := svc.Compare(q)
			if err != nil {
				return err
			}
			return printJSON(out, report)
		}
		report, err := svc.Report(q)
		if err != nil {
			return err
		}
		return printJSON(out, report)

	case "forecast", "export":
		// forecast <fromDay> [toDay] | export -dir snapshots <fromDay> [toDay]
		var dir string
		if cmd == "export" {
			fs.StringVar(&dir, "dir", "snapshots", "Directory for the .wwf file")
		}
		if err := fs.Parse(args); err != nil {
			return err
		}
		from, to, err := dayRange(fs.Args())
		if err != nil {
			return err
		}
		svc, err := opts.service()
		if err != nil {
			return err
		}
		if cmd == "forecast" {
			report, err := svc.Forecast(svc.DefaultSeed(), from, to)
			if err != nil {
				return err
			}
			return printJSON(out, report)
		}

		snap, err := svc.Snapshot(svc.DefaultSeed(), from, to)
		if err != nil {
			return err
		}
		snapshots, err := storage.NewSnapshotService(dir)
		if err != nil {
			return err
		}
		path, err := snapshots.Save(snap)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, path)
		return err

	case "verify":
		// verify <file.wwf>
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errUsage
		}
		snap, err := storage.LoadFile(fs.Arg(0))
		if err != nil {
			return err
		}
		svc, err := opts.service()
		if err != nil {
			return err
		}
		mismatches, err := svc.VerifySnapshot(snap)
		if err != nil {
			return err
		}
		if err := printJSON(out, mismatches); err != nil {
			return err
		}
		if len(mismatches) > 0 {
			return fmt.Errorf("%d mismatches in %s", len(mismatches), fs.Arg(0))
		}
		return nil

	default:
		return errUsage
	}
}

// tickArgs: <day> [HH:MM]
func tickArgs(args []string) (timeline.Tick, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, errUsage
	}
	day, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid day %q: %w", args[0], err)
	}
	var clock timeline.Clock
	if len(args) == 2 {
		if clock, err = timeline.ParseClock(args[1]); err != nil {
			return 0, err
		}
	}
	return timeline.DayTick(day, clock)
}

// dayRange: <fromDay> [toDay]
func dayRange(args []string) (int64, int64, error) {
	if len(args) < 1 || len(args) > 2 {
		return 0, 0, errUsage
	}
	from, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid day %q: %w", args[0], err)
	}
	to := from
	if len(args) == 2 {
		if to, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			return 0, 0, fmt.Errorf("invalid day %q: %w", args[1], err)
		}
	}
	payload := api.ForecastPayload{FromDay: from, ToDay: to}
	if err := payload.Validate(); err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Weather Control - расчет погоды Jotunheim без сервера
Commands:
  tick <day> [HH:MM]              - тик, индекс погоды и ветра
  at <day> [HH:MM] | -tick N      - погода всех биомов и ветер
  compare <day> [HH:MM]           - reference vs linear отображение броска
  forecast <from> [to]            - прогноз по периодам
  export [-dir D] <from> [to]     - сохранить прогноз в .wwf
  verify <file.wwf>               - пересчитать снапшот и сравнить

World flags (after the command): -seed -epoch-offset -intro-weather -range -table`)
}
