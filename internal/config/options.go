package config

import (
	"fmt"

	"cuelang.org/go/cue/cuecontext"
)

// Option describes one configurable task option.
type Option struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default"`
}

// ComposerOptions lists the composer task options in declaration order,
// read from the schema so the table cannot drift from validation.
func ComposerOptions() []Option {
	ctx := cuecontext.New()
	d, err := definition(ctx, "#Composer")
	if err != nil {
		panic(err)
	}
	it, err := d.Fields()
	if err != nil {
		panic(fmt.Sprintf("schema fields: %v", err))
	}
	var out []Option
	for it.Next() {
		fv := it.Value()
		opt := Option{
			Name: it.Selector().String(),
			Type: fv.IncompleteKind().String(),
		}
		if dv, ok := fv.Default(); ok {
			var def any
			if err := dv.Decode(&def); err == nil {
				opt.Default = def
			}
		}
		out = append(out, opt)
	}
	return out
}
