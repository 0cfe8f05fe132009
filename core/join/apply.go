package join

import "fmt"

// Apply runs the lifecycle hooks for a planned result and materializes
// entering items. Entered bindings are recorded on result as they are created,
// so a failed Apply leaves result describing what was attached.
func (j *Join[T]) Apply(result *Result[T]) error {
	if j.Host == nil {
		return ErrNoHost
	}
	h := j.Hooks

	if h.OnJoinStart != nil {
		h.OnJoinStart(result.Data)
	}

	if h.BeforeEnter == nil || h.BeforeEnter(result.Entering) {
		if err := j.enter(result); err != nil {
			return err
		}
		if h.AfterEnter != nil {
			if err := h.AfterEnter(result.Entered); err != nil {
				return fmt.Errorf("after enter: %w", err)
			}
		}
	} else {
		result.EnterSkipped = true
	}

	if h.BeforeExit == nil || h.BeforeExit(result.Exiting) {
		if h.AfterExit != nil {
			if err := h.AfterExit(result.Exiting); err != nil {
				return fmt.Errorf("after exit: %w", err)
			}
		}
	} else {
		result.ExitSkipped = true
	}

	if h.OnJoinEnd != nil {
		h.OnJoinEnd(result.Bound())
	}

	return nil
}

// enter creates and appends a node for every entering datum, in item order.
// The first failure aborts the remaining items.
func (j *Join[T]) enter(result *Result[T]) error {
	if len(result.Entering) == 0 {
		return nil
	}
	if j.Factory == nil {
		return ErrNoFactory
	}

	for _, d := range result.Entering {
		node, err := j.Factory(d)
		if err != nil {
			return &FactoryError{Key: d.Key, Index: d.Index, Err: err}
		}
		if err := j.Host.Append(j.Parent, node, d.Key); err != nil {
			return fmt.Errorf("failed to append node for key %q: %w", d.Key, err)
		}
		result.Entered = append(result.Entered, Binding[T]{Datum: d, Node: node})
	}
	return nil
}
