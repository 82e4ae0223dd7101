package report

import (
	"errors"
	"fmt"
)

// ErrRender is matched by every failure raised while drawing or saving a plot.
var ErrRender = errors.New("render error")

// RenderError records the stage at which producing an image or report failed.
type RenderError struct {
	Stage string // build, draw, encode, save
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to %s plot: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRender }
