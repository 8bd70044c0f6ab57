package planner

import "fmt"

// Config carries the tunable knobs of the pipeline.
type Config struct {
	Weights          Weights      `yaml:"weights"`
	CandidatesPerDay int          `yaml:"candidates_per_day"`
	VisitsPerDay     VisitsPerDay `yaml:"visits_per_day"`
	Budgets          Budgets      `yaml:"budgets"`
}

func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights,
		CandidatesPerDay: DefaultCandidatesPerDay,
		VisitsPerDay:     DefaultVisitsPerDay,
		Budgets:          DefaultBudgets,
	}
}

// Result is a formatted itinerary plus pipeline diagnostics.
type Result struct {
	Document   Document
	Candidates int
	Repairs    Repairs
}

// Engine runs selection, packing, validation and formatting for one request.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	selector  Selector
	packer    Packer
	validator Validator
	formatter Formatter
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		selector:  NewSelector(cfg.Weights, cfg.CandidatesPerDay),
		packer:    NewPacker(cfg.Budgets, cfg.VisitsPerDay),
		validator: NewValidator(cfg.Budgets),
	}
}

// MaxCandidates is the selection bound for a request: enough candidates for the
// trip's pace, at least CandidatesPerDay per day.
func (e *Engine) MaxCandidates(req Request) int {
	perDay := e.selector.CandidatesPerDay
	if target := e.packer.VisitsPerDay.For(req.Pace); target > perDay {
		perDay = target
	}
	return req.TripDays() * perDay
}

func (e *Engine) Plan(pool *Pool, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	tripDays := req.TripDays()

	ranked := e.selector.Select(pool, req, e.MaxCandidates(req))
	if len(ranked) == 0 {
		return Result{}, fmt.Errorf("%w for %s", ErrNoCandidates, req.Describe())
	}

	days := e.packer.Pack(ranked, tripDays, req.Pace)
	for i := range days {
		days[i].Date = req.DateOf(days[i].Day)
	}

	validated, repairs, err := e.validator.Validate(days, tripDays, ranked)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Document:   e.formatter.Format(validated, req),
		Candidates: len(ranked),
		Repairs:    repairs,
	}, nil
}
