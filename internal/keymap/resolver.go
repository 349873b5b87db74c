package keymap

import "github.com/samber/lo"

// Resolver maps pressed keys to actions. When two bindings claim the same
// key, the first one wins and the key is reported by Conflicts.
type Resolver struct {
	actions   map[string]Action
	keys      map[Action][]string
	conflicts map[string][]Action
}

// NewResolver creates a resolver from bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions:   make(map[string]Action),
		keys:      make(map[Action][]string),
		conflicts: make(map[string][]Action),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			prev, bound := r.actions[key]
			switch {
			case !bound:
				r.actions[key] = b.Action
			case prev != b.Action:
				if len(r.conflicts[key]) == 0 {
					r.conflicts[key] = []Action{prev}
				}
				r.conflicts[key] = lo.Uniq(append(r.conflicts[key], b.Action))
			}
		}
		r.keys[b.Action] = lo.Uniq(append(r.keys[b.Action], b.Keys...))
	}
	return r
}

// Resolve returns the action for a key, or the empty action if unbound.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor returns the keys bound to an action in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}

// Conflicts returns the keys claimed by more than one action, with the
// claiming actions in binding order.
func (r *Resolver) Conflicts() map[string][]Action {
	return r.conflicts
}
