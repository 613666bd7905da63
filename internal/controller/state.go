package controller

import "flavorforge/internal/recipe"

// Phase is the lifecycle position of a recipe request.
type Phase string

const (
	Idle      Phase = "IDLE"
	Loading   Phase = "LOADING"
	Succeeded Phase = "SUCCEEDED"
	Failed    Phase = "FAILED"
)

// State is the request lifecycle value the display layer renders.
//
// Recipe is set only in Succeeded and Err only in Failed.
type State struct {
	Phase  Phase
	Recipe *recipe.Recipe
	Err    error
}

func idle() State { return State{Phase: Idle} }

func loading() State { return State{Phase: Loading} }

func succeeded(r *recipe.Recipe) State { return State{Phase: Succeeded, Recipe: r} }

func failed(err error) State { return State{Phase: Failed, Err: err} }

// IsTerminal reports whether the request has finished.
func (s State) IsTerminal() bool {
	return s.Phase == Succeeded || s.Phase == Failed
}
