package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mphaphulimavhungu/casino/internal/bot"
	"github.com/mphaphulimavhungu/casino/internal/game"
	"github.com/mphaphulimavhungu/casino/internal/protocol"
)

// PlayerOptions configures a remote player
type PlayerOptions struct {
	ServerURL         string
	SessionID         string
	PlayerID          string
	ConnectTimeout    time.Duration
	ReconnectAttempts int
	ReconnectDelay    time.Duration
}

// ErrAborted is returned when the server aborts the session
var ErrAborted = errors.New("session aborted")

// Player sits at one seat of a remote session and plays it with a
// strategy until the round ends. A dropped connection is retried with the
// reconnect token issued on first join.
type Player struct {
	opts     PlayerOptions
	strategy bot.Strategy
	logger   *log.Logger

	mu       sync.Mutex
	token    string
	joined   bool
	acted    uint64 // state version last acted on
	seen     uint64 // newest state version received on this connection
	fallback bool   // previous move was rejected; throw the lowest card
	result   chan result
}

type result struct {
	end *protocol.RoundEndData
	err error
}

// NewPlayer creates a player for opts.SessionID
func NewPlayer(opts PlayerOptions, strategy bot.Strategy, logger *log.Logger) *Player {
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.ReconnectDelay == 0 {
		opts.ReconnectDelay = time.Second
	}
	return &Player{
		opts:     opts,
		strategy: strategy,
		logger:   logger.With("player", opts.PlayerID, "strategy", strategy.Name()),
		result:   make(chan result, 1),
	}
}

// Token returns the reconnect token, empty until the first join
func (p *Player) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

// Run plays until the round ends, the session is aborted or ctx is done
func (p *Player) Run(ctx context.Context) (*protocol.RoundEndData, error) {
	attempts := 0
	for {
		c, err := p.connect(ctx)
		if err == nil {
			attempts = 0
			select {
			case r := <-p.result:
				_ = c.Disconnect()
				return r.end, r.err
			case <-ctx.Done():
				_ = c.LeaveSession()
				_ = c.Disconnect()
				return nil, ctx.Err()
			case <-c.Done():
				p.logger.Warn("Connection lost")
			}
		} else {
			p.logger.Warn("Connect failed", "error", err)
		}

		// a result may have raced the connection drop
		select {
		case r := <-p.result:
			return r.end, r.err
		default:
		}

		attempts++
		if attempts > p.opts.ReconnectAttempts || p.Token() == "" {
			return nil, fmt.Errorf("connection lost after %d attempts: %w", attempts, ErrClosed)
		}
		select {
		case <-time.After(p.opts.ReconnectDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (p *Player) connect(ctx context.Context) (*Client, error) {
	c := NewClient(p.opts.ServerURL, p.logger)
	c.AddEventHandler(protocol.MessageTypeSessionJoined, p.handleJoined)
	c.AddEventHandler(protocol.MessageTypeState, func(msg *protocol.Message) { p.handleState(c, msg) })
	c.AddEventHandler(protocol.MessageTypeError, func(msg *protocol.Message) { p.handleError(c, msg) })
	c.AddEventHandler(protocol.MessageTypePlayerTimeout, p.handleTimeout)
	c.AddEventHandler(protocol.MessageTypePlayerStatus, p.handleStatus)
	c.AddEventHandler(protocol.MessageTypeRoundEnd, p.handleRoundEnd)
	c.AddEventHandler(protocol.MessageTypeSessionAborted, p.handleAborted)

	dialCtx, cancel := context.WithTimeout(ctx, p.opts.ConnectTimeout)
	defer cancel()
	if err := c.Connect(dialCtx); err != nil {
		return nil, err
	}
	if err := c.JoinSession(p.opts.SessionID, p.opts.PlayerID, p.Token()); err != nil {
		_ = c.Disconnect()
		return nil, err
	}
	return c, nil
}

func (p *Player) finish(r result) {
	select {
	case p.result <- r:
	default:
	}
}

func (p *Player) handleJoined(msg *protocol.Message) {
	var data protocol.SessionJoinedData
	if err := msg.Decode(&data); err != nil {
		p.logger.Error("Failed to parse session_joined", "error", err)
		return
	}
	p.mu.Lock()
	p.token = data.Token
	p.joined = true
	p.seen = 0
	p.mu.Unlock()
	p.logger.Info("Joined session", "session", data.SessionID, "seat", data.Seat, "reconnected", data.Reconnected)
}

func (p *Player) handleState(c *Client, msg *protocol.Message) {
	var state protocol.StateData
	if err := msg.Decode(&state); err != nil {
		p.logger.Error("Failed to parse state", "error", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen != 0 && state.Version > p.seen+1 {
		p.logger.Warn("Missed state updates, resyncing", "have", p.seen, "got", state.Version)
		if err := c.Sync(); err != nil {
			p.logger.Warn("Failed to request sync", "error", err)
		}
	}
	if state.Version > p.seen {
		p.seen = state.Version
	}
	if state.Phase != game.InPlay.String() || state.Version <= p.acted {
		return
	}

	strategy := p.strategy
	if p.fallback {
		strategy = bot.Lowest{}
	}
	a, ok := strategy.Choose(state.View(p.opts.PlayerID))
	if !ok {
		return
	}
	p.acted = state.Version
	p.fallback = false

	idOf := func(seat int) string {
		for _, ps := range state.Players {
			if ps.Seat == seat {
				return ps.ID
			}
		}
		return ""
	}
	p.logger.Debug("Playing", "action", a, "version", state.Version)
	if err := c.SendAction(protocol.FromAction(a, p.opts.PlayerID, idOf)); err != nil {
		p.logger.Warn("Failed to send action", "error", err)
	}
}

func (p *Player) handleError(c *Client, msg *protocol.Message) {
	var data protocol.ErrorData
	if err := msg.Decode(&data); err != nil {
		p.logger.Error("Failed to parse error", "error", err)
		return
	}

	p.mu.Lock()
	joined := p.joined
	if joined {
		p.acted = 0
		p.fallback = true
	}
	p.mu.Unlock()

	if !joined {
		p.finish(result{err: fmt.Errorf("join %s: %s: %s", p.opts.SessionID, data.Code, data.Message)})
		return
	}
	p.logger.Warn("Move rejected", "code", data.Code, "message", data.Message)
	_ = c.Sync()
}

func (p *Player) handleTimeout(msg *protocol.Message) {
	var data protocol.PlayerTimeoutData
	if err := msg.Decode(&data); err != nil {
		return
	}
	p.logger.Info("Turn timed out", "who", data.PlayerID)
}

func (p *Player) handleStatus(msg *protocol.Message) {
	var data protocol.PlayerStatusData
	if err := msg.Decode(&data); err != nil {
		return
	}
	p.logger.Info("Player status", "who", data.PlayerID, "status", data.Status)
}

func (p *Player) handleRoundEnd(msg *protocol.Message) {
	var data protocol.RoundEndData
	if err := msg.Decode(&data); err != nil {
		p.finish(result{err: fmt.Errorf("parse round_end: %w", err)})
		return
	}
	p.logger.Info("Round over", "winners", data.Winners)
	p.finish(result{end: &data})
}

func (p *Player) handleAborted(msg *protocol.Message) {
	var data protocol.SessionAbortedData
	_ = msg.Decode(&data)
	p.finish(result{err: fmt.Errorf("%w: %s", ErrAborted, data.Reason)})
}
