package service

import (
	"sync"

	"github.com/botwalain/tictactoe-tgbot/internal/apperror"
	"github.com/botwalain/tictactoe-tgbot/internal/entity"
)

// SpectatorRegistry keeps the read-only observer sets per session. Entries
// carry no game-mutating authority and disappear with their session.
type SpectatorRegistry interface {
	Attach(session *entity.Session, observer string) error
	Detach(sessionID, observer string)
	ListFor(sessionID string) []string
	BroadcastOn(sessionID string, render func(observer string) entity.RenderInstruction) []entity.RenderInstruction
	DropSession(sessionID string)
}

type spectatorRegistry struct {
	mu       sync.Mutex
	watchers map[string]map[string]struct{}
}

func NewSpectatorRegistry() SpectatorRegistry {
	return &spectatorRegistry{
		watchers: make(map[string]map[string]struct{}),
	}
}

func (that *spectatorRegistry) Attach(session *entity.Session, observer string) error {
	if session == nil || session.IsVsAI() || session.IsTerminal() {
		return apperror.ErrNotSpectatable
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	observers, ok := that.watchers[session.ID]
	if !ok {
		observers = make(map[string]struct{})
		that.watchers[session.ID] = observers
	}

	observers[observer] = struct{}{}

	return nil
}

// Detach is idempotent: removing an absent observer is a no-op.
func (that *spectatorRegistry) Detach(sessionID, observer string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if observers, ok := that.watchers[sessionID]; ok {
		delete(observers, observer)
		if len(observers) == 0 {
			delete(that.watchers, sessionID)
		}
	}
}

func (that *spectatorRegistry) ListFor(sessionID string) []string {
	that.mu.Lock()
	defer that.mu.Unlock()

	observers := make([]string, 0, len(that.watchers[sessionID]))
	for observer := range that.watchers[sessionID] {
		observers = append(observers, observer)
	}

	return observers
}

// BroadcastOn builds one render instruction per attached observer.
func (that *spectatorRegistry) BroadcastOn(sessionID string, render func(observer string) entity.RenderInstruction) []entity.RenderInstruction {
	instructions := make([]entity.RenderInstruction, 0, 4)
	for _, observer := range that.ListFor(sessionID) {
		instructions = append(instructions, render(observer))
	}

	return instructions
}

// DropSession discards the whole observer set when its session is destroyed.
func (that *spectatorRegistry) DropSession(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.watchers, sessionID)
}
