package getopt

// validator tracks required options and group selections for one parse.
// Exclusivity violations fail on the spot; missing options are reported
// together once the stream is exhausted.
type validator struct {
	reg    *Registry
	seen   map[*Option]bool
	chosen map[*Group]*Option
}

func newValidator(reg *Registry) *validator {
	return &validator{
		reg:    reg,
		seen:   make(map[*Option]bool),
		chosen: make(map[*Group]*Option),
	}
}

// observe records an occurrence of o and stores group selections in res.
func (v *validator) observe(res *Result, o *Option) error {
	v.seen[o] = true
	g := v.reg.GroupOf(o)
	if g == nil {
		return nil
	}
	if first, ok := v.chosen[g]; ok {
		if first == o {
			return nil
		}
		return AlreadySelectedError(g.Name(), first.Key(), o.Key())
	}
	v.chosen[g] = o
	res.setSelected(g, o.Key())
	return nil
}

// check reports every required option and required group left unsatisfied:
// options in registration order, then groups.
func (v *validator) check() error {
	var missing []string
	for _, o := range v.reg.Required() {
		if !v.seen[o] {
			missing = append(missing, o.Key())
		}
	}
	for _, g := range v.reg.RequiredGroups() {
		if _, ok := v.chosen[g]; !ok {
			missing = append(missing, g.Name())
		}
	}
	if len(missing) > 0 {
		return MissingOptionError(missing)
	}
	return nil
}
