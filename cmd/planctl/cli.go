package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/paulmach/orb"
	"github.com/urfave/cli/v2"

	"wayfarer/internal/planner"
	"wayfarer/pkg/config"
	"wayfarer/pkg/utils"
)

// poolRecord is one place in a pool file. It accepts the catalog export shape,
// with coordinates either flat or under _geoloc.
type poolRecord struct {
	ObjectID   string   `json:"objectID"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	City       string   `json:"city"`
	District   string   `json:"district"`
	Type       string   `json:"type"`
	Tags       []string `json:"tags"`
	Rating     *float64 `json:"rating"`
	Popularity int      `json:"popularity_score"`
	Duration   int      `json:"estimated_visit_time"`
	Excerpt    string   `json:"excerpt"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Geoloc     *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"_geoloc"`
}

func (r poolRecord) toPlace() planner.Place {
	p := planner.Place{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		City:        r.City,
		District:    r.District,
		Type:        r.Type,
		Lat:         r.Lat,
		Lng:         r.Lng,
		Tags:        r.Tags,
		Rating:      r.Rating,
		Popularity:  r.Popularity,
		DurationMin: r.Duration,
		Excerpt:     r.Excerpt,
	}
	if p.ID == "" {
		p.ID = r.ObjectID
	}
	if r.Geoloc != nil {
		p.Lat, p.Lng = r.Geoloc.Lat, r.Geoloc.Lng
	}
	return p
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "planctl",
		Usage:   "Plan and check itineraries offline",
		Version: Version,
		Commands: []*cli.Command{
			planCmd(),
			validateCmd(),
			tokenCmd(),
		},
	}
	// return errors to the caller instead of exiting
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func planCmd() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Build an itinerary from a pool file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pool", Aliases: []string{"p"}, Required: true, Usage: "JSON array of places"},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config with a planner section"},
			&cli.StringFlag{Name: "city", Required: true, Usage: "Destination city"},
			&cli.StringFlag{Name: "start", Required: true, Usage: "First day, YYYY-MM-DD"},
			&cli.StringFlag{Name: "end", Required: true, Usage: "Last day, YYYY-MM-DD"},
			&cli.StringFlag{Name: "interests", Aliases: []string{"i"}, Usage: "Comma-separated interests"},
			&cli.StringFlag{Name: "districts", Aliases: []string{"d"}, Usage: "Comma-separated district allow-list"},
			&cli.StringFlag{Name: "pace", Value: "moderate", Usage: "relaxed|moderate|fast"},
			&cli.StringFlag{Name: "near", Usage: "lat,lng,radius_km to restrict candidates"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "json|text"},
		},
		Action: func(c *cli.Context) error {
			format := c.String("format")
			if format != "json" && format != "text" {
				return fmt.Errorf("unknown format %q, use json or text", format)
			}

			cfg, err := config.LoadFile(c.String("config"))
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			records, err := readPool(c.String("pool"))
			if err != nil {
				return err
			}
			places := make([]planner.Place, 0, len(records))
			for _, r := range records {
				places = append(places, r.toPlace())
			}

			req, err := planner.NewRequest(
				c.String("city"),
				splitCSV(c.String("districts")),
				c.String("start"),
				c.String("end"),
				splitCSV(c.String("interests")),
				c.String("pace"),
			)
			if err != nil {
				return err
			}
			if near := c.String("near"); near != "" {
				area, err := parseNear(near)
				if err != nil {
					return err
				}
				req.Area = &area
			}

			result, err := planner.NewEngine(cfg.Planner).Plan(planner.NewPool(places), req)
			if err != nil {
				return err
			}

			out := c.App.Writer
			if format == "text" {
				printText(out, result.Document)
				return nil
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Document)
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Report problems in a pool file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pool", Aliases: []string{"p"}, Required: true, Usage: "JSON array of places"},
		},
		Action: func(c *cli.Context) error {
			records, err := readPool(c.String("pool"))
			if err != nil {
				return err
			}

			problems := checkPool(records)
			out := c.App.Writer
			for _, p := range problems {
				color.New(color.FgYellow).Fprintf(out, "record %d: %s\n", p.index, p.message)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems in %d records", len(problems), len(records))
			}
			color.New(color.FgGreen).Fprintf(out, "%d records ok\n", len(records))
			return nil
		},
	}
}

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint an admin token for the place feed",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "secret", EnvVars: []string{"JWT_SECRET"}, Required: true, Usage: "HMAC secret shared with the server"},
			&cli.StringFlag{Name: "subject", Value: "content-feed", Usage: "Token subject"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "Token lifetime"},
		},
		Action: func(c *cli.Context) error {
			token, err := utils.CreateToken([]byte(c.String("secret")), c.String("subject"), utils.RoleAdmin, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

type poolProblem struct {
	index   int
	message string
}

func checkPool(records []poolRecord) []poolProblem {
	var problems []poolProblem
	seen := make(map[string]int, len(records))

	for i, r := range records {
		add := func(format string, args ...interface{}) {
			problems = append(problems, poolProblem{index: i, message: fmt.Sprintf(format, args...)})
		}
		slug := strings.TrimSpace(r.Slug)
		switch {
		case slug == "":
			add("missing slug")
		default:
			if first, dup := seen[slug]; dup {
				add("duplicate slug %q (first seen at record %d)", slug, first)
			} else {
				seen[slug] = i
			}
		}
		if strings.TrimSpace(r.Name) == "" {
			add("missing name")
		}
		if r.Rating != nil && (*r.Rating < 0 || *r.Rating > 5) {
			add("rating %.2f outside 0-5", *r.Rating)
		}
		if r.Popularity < 0 || r.Popularity > 100 {
			add("popularity_score %d outside 0-100", r.Popularity)
		}
		if r.Duration < 0 {
			add("negative estimated_visit_time %d", r.Duration)
		}
	}
	return problems
}

func readPool(path string) ([]poolRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pool: %w", err)
	}
	var records []poolRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing pool %s: %w", path, err)
	}
	return records, nil
}

func printText(w io.Writer, doc planner.Document) {
	bold := color.New(color.Bold)
	period := color.New(color.FgCyan)
	muted := color.New(color.FgHiBlack)

	if doc.Summary != "" {
		fmt.Fprintln(w, doc.Summary)
		fmt.Fprintln(w)
	}
	for _, day := range doc.Days {
		if day.Date != "" {
			bold.Fprintf(w, "Day %d (%s)\n", day.Day, day.Date)
		} else {
			bold.Fprintf(w, "Day %d\n", day.Day)
		}
		for _, block := range day.Blocks {
			period.Fprintf(w, "  %s\n", block.Period)
			if len(block.Visits) == 0 {
				muted.Fprintln(w, "    free time")
				continue
			}
			for _, v := range block.Visits {
				start := v.StartTime
				if start == "" {
					start = "--:--"
				}
				fmt.Fprintf(w, "    %s  %s (%d min)\n", start, v.Name, v.DurationMin)
				muted.Fprintf(w, "           %s\n", v.Note)
			}
		}
	}
}

func parseNear(s string) (orb.Bound, error) {
	parts := splitCSV(s)
	if len(parts) != 3 {
		return orb.Bound{}, fmt.Errorf("%w: near must be lat,lng,radius_km", planner.ErrInvalidRequest)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("%w: near value %q is not a number", planner.ErrInvalidRequest, p)
		}
		vals[i] = v
	}
	if vals[2] <= 0 {
		return orb.Bound{}, fmt.Errorf("%w: near radius must be positive", planner.ErrInvalidRequest)
	}
	return planner.AreaAround(vals[0], vals[1], vals[2]), nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
