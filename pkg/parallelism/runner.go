package parallelism

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"go-parallelism/pkg/collection"
	"go-parallelism/pkg/roster"
	"go-parallelism/pkg/stream"
)

// Config controls how the demonstrations run.
type Config struct {
	// Parallelism is the number of workers of parallel stages. Zero means GOMAXPROCS.
	Parallelism int
	// BatchSize is the number of elements per partition. Zero partitions
	// automatically so that small inputs still spread across workers.
	BatchSize int
	// AsOf is the date ages are computed on.
	AsOf time.Time
}

// Runner executes the demonstrations in a fixed order, writing their results to
// stdout and the one deliberately provoked failure to stderr.
type Runner struct {
	config  Config
	people  []roster.Person
	stdout  *printer
	stderr  *printer
	logger  *zap.Logger
	metrics *Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithOutput sets the writers for results and for caught failures.
func WithOutput(stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdout = newPrinter(stdout)
		r.stderr = newPrinter(stderr)
	}
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics sets the metrics the runner records into.
func WithMetrics(m *Metrics) RunnerOption {
	return func(r *Runner) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewRunner creates a runner over the given roster.
func NewRunner(config Config, people []roster.Person, opts ...RunnerOption) *Runner {
	if config.AsOf.IsZero() {
		config.AsOf = time.Now()
	}
	r := &Runner{
		config:  config,
		people:  people,
		stdout:  newPrinter(os.Stdout),
		stderr:  newPrinter(os.Stderr),
		logger:  zap.NewNop(),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Metrics returns the metrics the runner records into.
func (r *Runner) Metrics() *Metrics {
	return r.metrics
}

// Run executes every demonstration in order. It stops at the first unexpected error.
func (r *Runner) Run(ctx context.Context) error {
	// The ordering examples sort the shared integer list; later examples see the sorted list.
	integers := collection.AsList(SampleIntegers()...)

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"roster", r.PrintRoster},
		{"average", r.AverageMaleAge},
		{"grouping", r.GroupByGender},
		{"ordering", func(ctx context.Context) error { return r.Ordering(ctx, integers) }},
		{"interference", r.Interference},
		{"stateful_lambda", func(ctx context.Context) error { return r.StatefulLambdas(ctx, integers.Values()) }},
	}

	r.logger.Info("Running parallelism demonstrations",
		zap.Int("parallelism", r.config.Parallelism),
		zap.Int("batch_size", r.config.BatchSize),
		zap.Int("members", len(r.people)))

	for _, step := range steps {
		if err := r.step(ctx, step.name, step.fn); err != nil {
			return err
		}
	}
	if err := r.stdout.Err(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := r.stderr.Err(); err != nil {
		return fmt.Errorf("failed to write errors: %w", err)
	}
	return nil
}

func (r *Runner) step(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	r.logger.Debug("Demonstration started", zap.String("example", name))

	err := fn(ctx)

	elapsed := time.Since(start)
	r.metrics.ExamplesRun.WithLabelValues(name).Inc()
	r.metrics.ExampleDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	if err != nil {
		r.logger.Error("Demonstration failed", zap.String("example", name), zap.Error(err))
		return fmt.Errorf("%s example: %w", name, err)
	}
	r.logger.Debug("Demonstration finished", zap.String("example", name), zap.Duration("elapsed", elapsed))
	return nil
}

func (r *Runner) options() []stream.Option {
	return []stream.Option{stream.WithBatchSize(r.config.BatchSize)}
}

func (r *Runner) observe(example string) {
	r.metrics.ElementsObserved.WithLabelValues(example).Inc()
}

// PrintRoster prints every member as "name, age".
func (r *Runner) PrintRoster(ctx context.Context) error {
	r.stdout.Println("Contents of roster:")
	err := stream.ForEach(ctx, stream.FromSlice(r.people, r.options()...), 1, func(p roster.Person) {
		r.stdout.Println(p.Format(r.config.AsOf))
		r.observe("roster")
	})
	if err != nil {
		return err
	}
	r.stdout.Println("")
	return nil
}

// AverageMaleAge prints the average age of the male members, computed in parallel.
func (r *Runner) AverageMaleAge(ctx context.Context) error {
	average, ok, err := AverageAge(ctx, r.people, roster.Male, r.config.AsOf, r.config.Parallelism, r.options()...)
	if err != nil {
		return err
	}
	if !ok {
		r.logger.Warn("Roster has no male members")
		r.stdout.Println("Average age of male members in parallel: n/a")
		return nil
	}
	r.stdout.Println("Average age of male members in parallel: " + formatDouble(average))
	return nil
}

// GroupByGender prints the members grouped by gender with a concurrent grouping.
func (r *Runner) GroupByGender(ctx context.Context) error {
	groups, err := GroupByGender(ctx, r.people, r.config.Parallelism, r.options()...)
	if err != nil {
		return err
	}

	r.stdout.Println("Group members by gender:")
	for _, gender := range sortedGenders(groups) {
		r.stdout.Println("Gender: " + gender.String())
		for _, p := range groups[gender] {
			r.stdout.Println(p.Name)
			r.observe("grouping")
		}
	}
	return nil
}

// Ordering shows sequential traversal, sorting, unordered parallel traversal and
// ordered parallel traversal of integers. It sorts integers in place.
func (r *Runner) Ordering(ctx context.Context, integers *collection.List[int]) error {
	r.stdout.Println("Examples of ordering and parallelism:")

	r.stdout.Println("listOfIntegers:")
	if err := r.report(ctx, integers); err != nil {
		return err
	}

	r.stdout.Println("listOfIntegers sorted in reverse order:")
	SortDescending(integers)
	if err := r.report(ctx, integers); err != nil {
		return err
	}

	r.stdout.Println("Parallel stream")
	if err := r.reportParallel(ctx, integers); err != nil {
		return err
	}

	r.stdout.Println("Another parallel stream:")
	if err := r.reportParallel(ctx, integers); err != nil {
		return err
	}

	r.stdout.Println("With forEachOrdered:")
	ordered := stream.Parallel(integers.Stream(r.options()...), r.config.Parallelism)
	if err := stream.ForEachOrdered(ctx, ordered, r.printElement("ordering")); err != nil {
		return err
	}
	r.stdout.Println("")
	return nil
}

// report prints the list with a sequential traversal.
func (r *Runner) report(ctx context.Context, integers *collection.List[int]) error {
	if err := stream.ForEach(ctx, integers.Stream(r.options()...), 1, r.printElement("ordering")); err != nil {
		return err
	}
	r.stdout.Println("")
	return nil
}

// reportParallel prints the list with an unordered parallel traversal.
func (r *Runner) reportParallel(ctx context.Context, integers *collection.List[int]) error {
	err := stream.ForEach(ctx, integers.Stream(r.options()...), r.config.Parallelism, r.printElement("ordering"))
	if err != nil {
		return err
	}
	r.stdout.Println("")
	return nil
}

func (r *Runner) printElement(example string) func(int) {
	return func(e int) {
		r.stdout.Element(e)
		r.observe(example)
	}
}

// Interference traverses a list while the traversal itself adds to the list.
// The resulting failure is expected; it is caught and printed to stderr.
func (r *Runner) Interference(ctx context.Context) error {
	list := collection.Synchronized(collection.NewList("one", "two"))

	joined, err := Concatenate(ctx, list)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.metrics.FailuresCaught.WithLabelValues("interference").Inc()
		r.logger.Debug("Caught interference failure", zap.Error(err))
		r.stderr.Println("Exception caught: " + err.Error())
		return nil
	}
	r.stdout.Println("Concatenated string: " + joined)
	return nil
}

// StatefulLambdas contrasts a stateful mapper writing to an unsynchronized list from
// a sequential stage with one writing to a synchronized list from a parallel stage.
func (r *Runner) StatefulLambdas(ctx context.Context, integers []int) error {
	r.stdout.Println("Serial stream:")
	serialStorage := collection.NewList[int]()
	if err := CaptureSerial(ctx, integers, serialStorage, r.printElement("stateful_lambda")); err != nil {
		return err
	}
	r.stdout.Println("")
	if err := r.reportStorage(ctx, serialStorage.Stream()); err != nil {
		return err
	}

	r.stdout.Println("Parallel stream:")
	parallelStorage, err := CaptureParallel(ctx, integers, r.config.Parallelism, r.printElement("stateful_lambda"), r.options()...)
	if err != nil {
		return err
	}
	r.stdout.Println("")
	return r.reportStorage(ctx, parallelStorage.Stream())
}

func (r *Runner) reportStorage(ctx context.Context, storage stream.Stream[int]) error {
	if err := stream.ForEachOrdered(ctx, storage, r.printElement("stateful_lambda")); err != nil {
		return err
	}
	r.stdout.Println("")
	return nil
}
