package preview

import (
	"context"
	"sync"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
)

// Event names on the wire.
const (
	EventSequence  = "sequence_preview"
	EventParameter = "parameter_preview"
)

// ParameterKey is the preview state of one parameter of one event.
type ParameterKey struct {
	Sequence  string `json:"sequence"`
	Event     string `json:"event"`
	Parameter string `json:"parameter"`
	Kind      string `json:"kind"`
	Key       string `json:"preview"`
}

// EventSnapshot lists the preview keys of one event.
type EventSnapshot struct {
	Name       string         `json:"name"`
	Duration   float64        `json:"duration"`
	Parameters []ParameterKey `json:"parameters"`
}

// Snapshot is the preview state of a whole sequence.
type Snapshot struct {
	Sequence string          `json:"sequence"`
	Events   []EventSnapshot `json:"events"`
}

// Take computes the snapshot of s.
func Take(s *sequence.Sequence) Snapshot {
	snap := Snapshot{Sequence: s.Name(), Events: []EventSnapshot{}}
	for _, e := range s.Events() {
		es := EventSnapshot{Name: e.Name(), Duration: e.Duration(), Parameters: []ParameterKey{}}
		names := e.ParameterNames()
		for i, p := range e.Parameters() {
			es.Parameters = append(es.Parameters, ParameterKey{
				Sequence:  s.Name(),
				Event:     e.Name(),
				Parameter: names[i],
				Kind:      p.Kind(),
				Key:       p.PreviewKey(),
			})
		}
		snap.Events = append(snap.Events, es)
	}
	return snap
}

// Publisher sends preview keys through an Emitter.
type Publisher struct {
	emitter Emitter
	mu      sync.Mutex
}

func NewPublisher(emitter Emitter) *Publisher {
	return &Publisher{emitter: emitter}
}

// Publish sends the full snapshot of s.
func (p *Publisher) Publish(ctx context.Context, s *sequence.Sequence) error {
	snap := Take(s)
	ctxlog.FromContext(ctx).Debug("Publishing sequence preview.", "sequence", snap.Sequence, "events", len(snap.Events))
	return p.emit(EventSequence, snap)
}

// Watch subscribes to every option of every parameter currently in s and
// emits a ParameterKey whenever a parameter's preview key changes. Emit
// failures are logged. The returned func stops watching.
func (p *Publisher) Watch(ctx context.Context, s *sequence.Sequence) (stop func()) {
	logger := ctxlog.FromContext(ctx)

	var stops []func()
	for _, e := range s.Events() {
		names := e.ParameterNames()
		for i, param := range e.Parameters() {
			key := ParameterKey{
				Sequence:  s.Name(),
				Event:     e.Name(),
				Parameter: names[i],
				Kind:      param.Kind(),
				Key:       param.PreviewKey(),
			}
			last := key.Key
			stops = append(stops, pulse.Watch(param, func(pp pulse.PulseParameter, _ pulse.Option) {
				current := pp.PreviewKey()
				if current == last {
					return
				}
				last = current
				key.Key = current
				if err := p.emit(EventParameter, key); err != nil {
					logger.Warn("Failed to publish parameter preview.", "event", key.Event, "parameter", key.Parameter, "error", err)
				}
			}))
		}
	}

	return func() {
		for _, fn := range stops {
			fn()
		}
	}
}

func (p *Publisher) emit(event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.emitter.Emit(event, payload)
}
