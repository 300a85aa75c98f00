package player

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/phenix/musicbox/internal/log"
)

// SinkFactory builds the sink for a newly created player.
type SinkFactory func() (Sink, error)

// Entry pairs a registered player with its id.
type Entry struct {
	ID     string
	Player *Player
}

// Registry tracks the live players by id. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player
	newSink SinkFactory
	logger  zerolog.Logger
}

// NewRegistry returns an empty registry. newSink is used by Create; nil
// means every player gets a DiscardSink.
func NewRegistry(newSink SinkFactory) *Registry {
	if newSink == nil {
		newSink = func() (Sink, error) { return NewDiscardSink(), nil }
	}
	return &Registry{
		players: make(map[string]*Player),
		newSink: newSink,
		logger:  log.WithComponent("players"),
	}
}

func validID(id string) error {
	if strings.TrimSpace(id) == "" || strings.ContainsAny(id, "/ \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// Add registers p under id. A player already registered under id is stopped
// and replaced.
func (r *Registry) Add(id string, p *Player) error {
	if err := validID(id); err != nil {
		return err
	}

	r.mu.Lock()
	old := r.players[id]
	r.players[id] = p
	r.mu.Unlock()

	if old != nil && old != p {
		old.Stop()
		r.logger.Debug().Str(log.FieldPlayerID, id).Msg("player replaced")
	}
	return nil
}

// Create builds a player with a fresh sink and registers it under id.
// It fails with ErrPlayerExists when id is taken.
func (r *Registry) Create(id string) (*Player, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerExists, id)
	}
	sink, err := r.newSink()
	if err != nil {
		return nil, err
	}
	p := New(sink)
	r.players[id] = p
	r.logger.Info().Str(log.FieldPlayerID, id).Msg("player created")
	return p, nil
}

// Remove stops and unregisters the player under id. It reports whether one existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	p, ok := r.players[id]
	delete(r.players, id)
	r.mu.Unlock()

	if ok {
		p.Stop()
		r.logger.Info().Str(log.FieldPlayerID, id).Msg("player removed")
	}
	return ok
}

// Get returns the player under id.
func (r *Registry) Get(id string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// List returns all players sorted by id.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.players))
	for id, p := range r.players {
		out = append(out, Entry{ID: id, Player: p})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

// Close stops and removes every player.
func (r *Registry) Close() {
	r.mu.Lock()
	players := r.players
	r.players = make(map[string]*Player)
	r.mu.Unlock()

	for _, p := range players {
		p.Stop()
	}
}
