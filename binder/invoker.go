package binder

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/iaconlabs/warpcore/action"
)

// Invoker executes one bound method: it extracts every parameter
// concurrently, calls the target with the arguments in declaration order and
// normalizes the return value.
type Invoker struct {
	extractors []Extractor
	call       CallFunc
	normalize  normalizer
	resultType action.TypeTag
}

// Invoke runs the bound method for c. The first extractor failure fails the
// invocation; an error returned by the target is propagated as is.
func (inv *Invoker) Invoke(c action.Context) (action.Result, error) {
	args := make([]any, len(inv.extractors))

	var g errgroup.Group
	for i, extract := range inv.extractors {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("parameter extractor panicked: %v", r)
				}
			}()
			v, err := extract(c)
			if err != nil {
				return err
			}
			args[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return action.Result{}, err
	}

	out, err := inv.call(c.Context(), args)
	if err != nil {
		return action.Result{}, err
	}

	res, err := inv.normalize(out)
	if err != nil {
		return action.Result{}, err
	}
	return stamp(res, inv.resultType), nil
}
