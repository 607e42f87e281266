package repl

// causes lists the messages of every error wrapped by err, depth first,
// skipping err itself and duplicates.
func causes(err error) []string {
	var out []string
	seen := map[string]struct{}{err.Error(): {}}
	var walk func(error)
	walk = func(e error) {
		var children []error
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			children = u.Unwrap()
		case interface{ Unwrap() error }:
			if c := u.Unwrap(); c != nil {
				children = []error{c}
			}
		}
		for _, c := range children {
			if c == nil {
				continue
			}
			msg := c.Error()
			if _, ok := seen[msg]; !ok {
				seen[msg] = struct{}{}
				out = append(out, msg)
			}
			walk(c)
		}
	}
	walk(err)
	return out
}
