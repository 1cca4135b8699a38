package domain

import "fmt"

// Validate checks the structural preconditions the runtime relies on: the
// play and every regular task and handler must be named, and handler names
// must not be empty even when the handler is only addressed via listen
// topics. It returns an AggregateError listing every failure, or nil.
func (p *Play) Validate() error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, &ValidationError{Path: "play", Reason: "missing name"})
	}

	checkBlock := func(name BlockName, tasks []Task) {
		for i := range tasks {
			t := &tasks[i]
			if t.Kind == TaskRegular && t.Name == "" {
				errs = append(errs, &ValidationError{
					Path:   fmt.Sprintf("%s[%d]", name, i),
					Reason: "task missing a name",
				})
			}
		}
	}
	checkBlock(BlockPreTasks, p.PreTasks)
	checkBlock(BlockTasks, p.Tasks)
	checkBlock(BlockPostTasks, p.PostTasks)

	for i := range p.Handlers {
		h := &p.Handlers[i]
		if h.Name == "" {
			errs = append(errs, &ValidationError{
				Path:   fmt.Sprintf("handlers[%d]", i),
				Reason: "handler missing a name",
			})
		}
		if h.Kind != TaskRegular {
			errs = append(errs, &ValidationError{
				Path:   fmt.Sprintf("handlers[%d]", i),
				Reason: "handler cannot be a flush marker",
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
