// Package router decides what to do with each recognized command: local
// skills first, then the language model, with a handful of built-in
// responses for exits and failures.
package router

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"aura/internal/brain"
	"aura/internal/config"
	"aura/internal/skills"
	"aura/pkg/textutil"
)

// Outcome is the routing decision for one command. Continue=false ends
// the session after Response is spoken.
type Outcome struct {
	Response string
	Continue bool
}

// Brain is the language-model fallback.
type Brain interface {
	Reply(ctx context.Context, text string) (string, error)
}

type Router struct {
	skills []skills.Handler
	brain  Brain
	log    *slog.Logger
}

func New(handlers []skills.Handler, b Brain, log *slog.Logger) *Router {
	return &Router{skills: handlers, brain: b, log: log.With("component", "router")}
}

// Route maps one lowercased command to a response. Empty input yields an
// empty response and keeps the session going.
func (r *Router) Route(ctx context.Context, text string) Outcome {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{Continue: true}
	}

	if isExit(text) {
		r.log.Info("exit command", "text", text)
		return Outcome{Response: config.Farewell, Continue: false}
	}

	for _, s := range r.skills {
		resp, handled, err := s.Handle(text)
		if err != nil {
			r.log.Error("skill failed", "skill", s.Name(), "err", err)
			continue
		}
		if handled {
			return Outcome{Response: resp, Continue: true}
		}
	}

	reply, err := r.brain.Reply(ctx, text)
	if err != nil {
		r.log.Error("model fallback failed", "err", err)
		switch {
		case errors.Is(err, brain.ErrNotConfigured):
			return Outcome{Response: config.NotConfigured, Continue: true}
		case errors.Is(err, brain.ErrEmptyReply):
			return Outcome{Response: config.EmptyReply, Continue: true}
		default:
			return Outcome{Response: config.Apology, Continue: true}
		}
	}

	return Outcome{Response: textutil.CleanForSpeech(reply), Continue: true}
}

func isExit(text string) bool {
	for _, cmd := range config.ExitCommands {
		if strings.Contains(text, cmd) {
			return true
		}
	}
	return false
}
