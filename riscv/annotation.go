package riscv

import "github.com/keurnel/rvdecode/internal/decode"

// Pipelined reads the "pipelined" annotation attribute, defaulting to true
// when absent — most instructions are pipelined; annotation overrides name
// the exceptions.
func Pipelined(a decode.Annotation) bool {
	v, ok := a["pipelined"]
	if !ok {
		return true
	}
	b, _ := v.(bool)
	return b
}

// ROBGroup reads the "rob_group" annotation attribute (e.g. ["begin"] or
// ["end"]), returning nil when absent.
func ROBGroup(a decode.Annotation) []string {
	v, ok := a["rob_group"]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
