package usecase

import (
	"context"
	"fmt"

	"github.com/botwalain/tictactoe-tgbot/internal/entity"
	"github.com/botwalain/tictactoe-tgbot/internal/service"
)

// renderForAll builds instructions for both players and every spectator of
// the session behind the outcome. On terminal outcomes the registry entry is
// already gone, so the spectator list is taken from the outcome itself.
func (that *gameUseCase) renderForAll(ctx context.Context, outcome *service.MoveOutcome) []entity.RenderInstruction {
	session := outcome.Session

	instructions := that.renderForPlayers(ctx, session)

	if session.IsTerminal() {
		for _, observer := range outcome.Spectators {
			instructions = append(instructions, that.renderFor(ctx, session, observer))
		}
		return instructions
	}

	return append(instructions, that.renderForSpectators(ctx, session)...)
}

func (that *gameUseCase) renderForPlayers(ctx context.Context, session *entity.Session) []entity.RenderInstruction {
	instructions := make([]entity.RenderInstruction, 0, len(session.Players))

	for _, player := range session.HumanPlayers() {
		instructions = append(instructions, that.renderFor(ctx, session, player))
	}

	return instructions
}

func (that *gameUseCase) renderForSpectators(ctx context.Context, session *entity.Session) []entity.RenderInstruction {
	return that.spectators.BroadcastOn(session.ID, func(observer string) entity.RenderInstruction {
		return that.renderFor(ctx, session, observer)
	})
}

// renderFor builds the view of one observer: a perspective header, a status
// line and the controls this observer may use right now.
func (that *gameUseCase) renderFor(ctx context.Context, session *entity.Session, observer string) entity.RenderInstruction {
	return entity.RenderInstruction{
		For:        observer,
		SessionID:  session.ID,
		HeaderText: that.headerText(ctx, session, observer),
		StatusText: that.statusText(ctx, session, observer),
		Board:      session.Board,
		Controls:   that.controlsFor(session, observer),
		IsTerminal: session.IsTerminal(),
	}
}

func (that *gameUseCase) headerText(ctx context.Context, session *entity.Session, observer string) string {
	if !session.HasPlayer(observer) {
		names := make([]string, 0, 2)
		for _, player := range session.Players {
			names = append(names, fmt.Sprintf("%s (%s)", that.stats.DisplayName(ctx, player), session.Symbols[player]))
		}
		if len(names) < 2 {
			return fmt.Sprintf("Spectating: %s", names[0])
		}
		return fmt.Sprintf("Spectating: %s vs %s", names[0], names[1])
	}

	opponent := session.Opponent(observer)
	if opponent == "" {
		return fmt.Sprintf("You (%s) vs ...", session.Symbols[observer])
	}

	return fmt.Sprintf("You (%s) vs %s (%s)",
		session.Symbols[observer],
		that.stats.DisplayName(ctx, opponent),
		session.Symbols[opponent],
	)
}

func (that *gameUseCase) statusText(ctx context.Context, session *entity.Session, observer string) string {
	text := that.outcomeText(ctx, session, observer)

	if watching := len(that.spectators.ListFor(session.ID)); watching > 0 && !session.IsTerminal() {
		text = fmt.Sprintf("%s 👁 %d watching", text, watching)
	}

	return text
}

func (that *gameUseCase) outcomeText(ctx context.Context, session *entity.Session, observer string) string {
	switch session.Status {
	case entity.StatusWaiting:
		return "Waiting for an opponent to join..."
	case entity.StatusWon:
		if session.Winner == observer {
			return "You won! 🎉"
		}
		if session.HasPlayer(observer) {
			return "You lost."
		}
		return fmt.Sprintf("%s (%s) wins!", that.stats.DisplayName(ctx, session.Winner), session.Symbols[session.Winner])
	case entity.StatusDrawn:
		return "It's a draw!"
	case entity.StatusResigned:
		if session.Winner == observer {
			return "Your opponent resigned. You win!"
		}
		if session.HasPlayer(observer) {
			return "You resigned."
		}
		return fmt.Sprintf("%s (%s) wins by resignation.", that.stats.DisplayName(ctx, session.Winner), session.Symbols[session.Winner])
	}

	if session.Turn == observer {
		return "Your turn!"
	}

	return fmt.Sprintf("Waiting for %s...", that.stats.DisplayName(ctx, session.Turn))
}

func (that *gameUseCase) controlsFor(session *entity.Session, observer string) []string {
	if !session.HasPlayer(observer) {
		if session.IsTerminal() {
			return []string{entity.ControlMainMenu}
		}
		return []string{entity.ControlRefresh, entity.ControlStopSpectate}
	}

	if session.IsTerminal() {
		return []string{entity.ControlRematch, entity.ControlMainMenu}
	}

	if !session.IsInProgress() {
		return nil
	}

	controls := []string{entity.ControlResign}

	if session.HintsLeft[observer] > 0 {
		controls = append([]string{entity.ControlHint}, controls...)
	}

	if len(session.Moves) >= 2 {
		controls = append(controls, entity.ControlUndo)
	}

	return controls
}

func (that *gameUseCase) renderQueueWait(requester string) entity.RenderInstruction {
	return entity.RenderInstruction{
		For:        requester,
		HeaderText: "Quick match",
		StatusText: fmt.Sprintf("Searching for an opponent... %d in queue", that.matchmaking.Len()),
		Controls:   []string{entity.ControlMainMenu},
	}
}
