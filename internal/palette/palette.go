package palette

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

// Channel bounds for assigned colors. Restricting every channel to the
// upper half of the 8-bit range yields light colors that remain legible
// behind dark highlighted text.
const (
	// ChannelMin is the inclusive lower bound of each color channel.
	ChannelMin = 128

	// ChannelMax is the inclusive upper bound of each color channel.
	ChannelMax = 255
)

// channels is the number of color channels (red, green, blue).
const channels = 3

// ErrExhausted is returned when the sampler cannot satisfy the separation
// criterion within the retry budget. This is fatal for color-consuming
// steps only; formatting and persistence do not depend on colors.
var ErrExhausted = errors.New("color allocation exhausted")

// Color is one assigned display color as three 8-bit channel intensities.
type Color struct {
	// R, G, B are the channel intensities, each within [ChannelMin, ChannelMax].
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGB renders the color in CSS rgb() notation, e.g. "rgb(180,212,131)".
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Assignment maps entity labels to their assigned colors while preserving
// the declared label order.
//
// Design decision: A bare map would lose label order under Go's randomized
// map iteration, and order matters because it mirrors the input file's
// declared class order. We track the order in a slice alongside the map.
type Assignment struct {
	labels []string
	colors map[string]Color
}

// Labels returns the assigned labels in declaration order.
// The returned slice must not be modified.
func (a *Assignment) Labels() []string {
	return a.labels
}

// Color returns the color assigned to label and whether the label is known.
func (a *Assignment) Color(label string) (Color, bool) {
	c, ok := a.colors[label]
	return c, ok
}

// Len returns the number of assigned labels.
func (a *Assignment) Len() int {
	return len(a.labels)
}

// Allocator assigns one visually distinct color per entity label.
type Allocator struct {
	// threshold is the minimum per-channel distance between colors.
	threshold int

	// maxRetries bounds rejection sampling per label.
	maxRetries int

	// rng is the random source. Injectable for deterministic tests.
	rng *rand.Rand

	// logger is used for structured logging during allocation.
	logger *slog.Logger
}

// Option is a function that configures an Allocator.
type Option func(*Allocator)

// WithThreshold sets the minimum per-channel separation between any two
// assigned colors. Zero disables the constraint.
func WithThreshold(threshold int) Option {
	return func(a *Allocator) {
		a.threshold = threshold
	}
}

// WithMaxRetries sets the rejection-sampling budget per label.
func WithMaxRetries(maxRetries int) Option {
	return func(a *Allocator) {
		a.maxRetries = maxRetries
	}
}

// WithRand sets a custom random source. Tests inject a seeded source to
// make sampled colors reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(a *Allocator) {
		a.rng = rng
	}
}

// WithLogger sets a custom logger for the allocator.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Allocator) {
		a.logger = logger
	}
}

// New creates a new Allocator with the given options.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		threshold:  10,
		maxRetries: 1000,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return a
}

// Assign produces exactly one color per label, preserving label order.
// Duplicate labels are assigned once, at their first position.
//
// Each channel of the first color is sampled uniformly from
// [ChannelMin, ChannelMax]. Every subsequent color is resampled until it
// is sufficiently separated from the already-accepted colors: a candidate
// is rejected only when all three of its channels lie within the threshold
// of some previously accepted value for that channel, and accepted as soon
// as at least one channel clears.
//
// Assignment is randomized and never cached; calling Assign twice with the
// same labels generally yields different colors.
func (a *Allocator) Assign(labels []string) (*Assignment, error) {
	assignment := &Assignment{
		labels: make([]string, 0, len(labels)),
		colors: make(map[string]Color, len(labels)),
	}

	// accepted holds the already-chosen values per channel. The distance
	// check is channel-independent, matching the per-channel constraint.
	var accepted [channels][]int

	for _, label := range labels {
		if _, ok := assignment.colors[label]; ok {
			a.logger.Warn("duplicate label in class list", "label", label)
			continue
		}

		color, candidate, err := a.sample(label, &accepted)
		if err != nil {
			return nil, err
		}

		for ch := range channels {
			accepted[ch] = append(accepted[ch], candidate[ch])
		}
		assignment.labels = append(assignment.labels, label)
		assignment.colors[label] = color

		a.logger.Debug("color assigned", "label", label, "color", color.RGB())
	}

	return assignment, nil
}

// sample draws candidates until one is sufficiently separated from the
// accepted channel values or the retry budget runs out.
func (a *Allocator) sample(label string, accepted *[channels][]int) (Color, [channels]int, error) {
	var candidate [channels]int

	for retry := 0; retry < a.maxRetries; retry++ {
		for ch := range channels {
			candidate[ch] = ChannelMin + a.rng.IntN(ChannelMax-ChannelMin+1)
		}

		if a.separated(candidate, accepted) {
			color := Color{
				R: uint8(candidate[0]),
				G: uint8(candidate[1]),
				B: uint8(candidate[2]),
			}
			return color, candidate, nil
		}
	}

	return Color{}, candidate, fmt.Errorf("%w: label %q after %d retries",
		ErrExhausted, label, a.maxRetries)
}

// separated reports whether candidate is acceptably far from the accepted
// values. The candidate is too close on a channel when any accepted value
// for that channel lies within the threshold; it is rejected only when all
// three channels are too close.
func (a *Allocator) separated(candidate [channels]int, accepted *[channels][]int) bool {
	// The first color is always acceptable.
	if len(accepted[0]) == 0 {
		return true
	}

	for ch := range channels {
		if !tooClose(candidate[ch], accepted[ch], a.threshold) {
			return true
		}
	}
	return false
}

// tooClose reports whether value lies within threshold of any accepted
// channel value.
func tooClose(value int, accepted []int, threshold int) bool {
	for _, v := range accepted {
		d := value - v
		if d < 0 {
			d = -d
		}
		if d <= threshold {
			return true
		}
	}
	return false
}
