package types

// Env is a scoped, persistent-functional mapping from names to type
// schemes (spec §3, §4.6). Frames form a chain to an outer, shared parent;
// binding in the current frame shadows an outer binding only for the
// lifetime of that frame.
type Env struct {
	bindings map[string]*TypeScheme
	parent   *Env
}

// NewEnv creates an empty root environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]*TypeScheme)}
}

// OpenScope pushes a new, empty frame onto env (spec §4.6).
func (env *Env) OpenScope() *Env {
	return &Env{bindings: make(map[string]*TypeScheme), parent: env}
}

// Extend is the monomorphic-binding shorthand: bind(name, Monomorphic(t))
// in the current frame, returning the (mutated) environment for chaining
// (spec §4.6). Frames are private per call site, so this never mutates a
// frame another Env value still observes.
func (env *Env) Extend(name string, t Type) *Env {
	return env.Bind(name, Monomorphic(t))
}

// Bind writes name ↦ scheme into the current frame.
func (env *Env) Bind(name string, scheme *TypeScheme) *Env {
	env.bindings[name] = scheme
	return env
}

// Lookup scans from the innermost frame outward, returning the first
// binding found (spec §3: "Lookup scans from innermost frame outward").
func (env *Env) Lookup(name string) (*TypeScheme, bool) {
	for e := env; e != nil; e = e.parent {
		if scheme, ok := e.bindings[name]; ok {
			return scheme, true
		}
	}
	return nil, false
}

// FreeVariables returns the union over every reachable scheme's free
// variables (spec §4.6). Callers apply the current substitution to the
// environment's types before calling this at a generalisation point; Env
// itself stores unsubstituted schemes, so FreeVariablesUnder is the
// solver-facing entry point.
func (env *Env) FreeVariables() VarSet {
	out := newVarSet()
	for e := env; e != nil; e = e.parent {
		for _, scheme := range e.bindings {
			out = out.union(scheme.FreeVariables())
		}
	}
	return out
}

// Names returns every name bound anywhere in env, innermost frame first,
// for diagnostics (e.g. the checker's undefined-variable suggestions).
// Duplicate names (shadowed bindings) are reported once, for the innermost
// binding.
func (env *Env) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for e := env; e != nil; e = e.parent {
		for name := range e.bindings {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// FreeVariablesUnder returns FreeVariables() as seen through substitution
// s — the solver re-queries this at each generalisation point (spec §4.6).
func (env *Env) FreeVariablesUnder(s Substitution) VarSet {
	out := newVarSet()
	for e := env; e != nil; e = e.parent {
		for _, scheme := range e.bindings {
			applied := Apply(s, scheme.Type)
			bound := newVarSet()
			for _, id := range scheme.Vars {
				bound[id] = &TypeVariable{ID: id}
			}
			out = out.union(applied.FreeVariables().Without(bound))
		}
	}
	return out
}
