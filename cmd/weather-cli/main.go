package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-dashboard/internal/app"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/i18n"
	applog "github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/suggest"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type Options struct {
	Language string        `short:"l" long:"lang"    env:"DASHBOARD_LANGUAGE" description:"Display language" choice:"en" choice:"fr" choice:"ar"`
	Timeout  time.Duration `short:"t" long:"timeout" description:"Overall command timeout" default:"30s"`
	Verbose  bool          `short:"v" long:"verbose" description:"Log at debug level"`
}

var (
	opts   Options
	parser = flags.NewParser(&opts, flags.Default)
)

type searchCommand struct {
	Args struct {
		Query string `positional-arg-name:"query" required:"yes"`
	} `positional-args:"yes"`
}

type forecastCommand struct {
	Latitude  float64 `long:"lat"     required:"yes" description:"Latitude in degrees"`
	Longitude float64 `long:"lon"     required:"yes" description:"Longitude in degrees"`
	Name      string  `long:"name"    required:"yes" description:"Place name"`
	Country   string  `long:"country" description:"Country shown after the name"`
}

type gpsCommand struct {
	Latitude  float64 `long:"lat" required:"yes" description:"Latitude in degrees"`
	Longitude float64 `long:"lon" required:"yes" description:"Longitude in degrees"`
}

type suggestCommand struct {
	Style string `short:"s" long:"style" description:"Dress style" choice:"Casual" choice:"Business" choice:"Sport" default:"Casual"`
}

func main() {
	commands := []struct {
		name, short, long string
		data              any
	}{
		{"search", "Search places by name", "Search places by name and print the deduplicated matches.", &searchCommand{}},
		{"forecast", "Forecast for a named coordinate", "Fetch and cache the forecast for a coordinate.", &forecastCommand{}},
		{"gps", "Forecast for a position fix", "Name a position fix by reverse lookup and fetch its forecast.", &gpsCommand{}},
		{"suggest", "Outfit and activity suggestion", "Suggest an outfit and activities for the last forecast.", &suggestCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			log.Fatal().Err(err).Str("command", c.name).Msg("failed to register command")
		}
	}

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// setup loads configuration and wires the dashboard for one command.
func setup() (*app.App, context.Context, context.CancelFunc, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	applog.Setup(level, "console")

	dash, err := app.New(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if opts.Language != "" {
		if err := dash.Controller.SetLanguage(opts.Language); err != nil {
			_ = dash.Close()
			return nil, nil, nil, err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	return dash, ctx, cancel, nil
}

func (c *searchCommand) Execute([]string) error {
	dash, ctx, cancel, err := setup()
	if err != nil {
		return err
	}
	defer dash.Close()
	defer cancel()

	places, err := dash.Controller.Search(ctx, c.Args.Query)
	if err != nil {
		return err
	}
	if len(places) == 0 {
		fmt.Println(dash.Translator.T(dash.Controller.Language(), i18n.KeyNoResults))
		return nil
	}
	for _, p := range places {
		fmt.Printf("%-10d %-40s %9.4f %9.4f\n", p.ID, p.Label(), p.Coordinate.Latitude, p.Coordinate.Longitude)
	}
	return nil
}

func (c *forecastCommand) Execute([]string) error {
	dash, ctx, cancel, err := setup()
	if err != nil {
		return err
	}
	defer dash.Close()
	defer cancel()

	snapshot, err := dash.Controller.LoadWeather(ctx, weather.Place{
		Name:       c.Name,
		Country:    c.Country,
		Coordinate: weather.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude},
	})
	return report(dash, snapshot, err)
}

func (c *gpsCommand) Execute([]string) error {
	dash, ctx, cancel, err := setup()
	if err != nil {
		return err
	}
	defer dash.Close()
	defer cancel()

	snapshot, err := dash.Controller.UseGPS(ctx, weather.Coordinate{Latitude: c.Latitude, Longitude: c.Longitude})
	return report(dash, snapshot, err)
}

func (c *suggestCommand) Execute([]string) error {
	dash, ctx, cancel, err := setup()
	if err != nil {
		return err
	}
	defer dash.Close()
	defer cancel()

	style, err := suggest.ParseStyle(c.Style)
	if err != nil {
		return err
	}
	if err := dash.Controller.Start(ctx); err != nil {
		return report(dash, weather.ForecastSnapshot{}, err)
	}

	out, err := dash.Controller.AskAI(ctx, style)
	if err != nil {
		return err
	}
	return printJSON(out)
}

// report prints a snapshot, or the localized failure message and any cached
// snapshot that is shown in its place.
func report(dash *app.App, snapshot weather.ForecastSnapshot, err error) error {
	if err == nil {
		return printJSON(snapshot)
	}

	st := dash.Controller.Snapshot()
	fmt.Fprintln(os.Stderr, st.Error)
	if st.Weather != nil {
		fmt.Fprintln(os.Stderr, dash.Translator.T(st.Language, i18n.KeyOffline))
		_ = printJSON(st.Weather)
	}
	return err
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
