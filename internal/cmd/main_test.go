package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"bare invocation runs serve", []string{}, []string{"serve"}},
		{"short version flag", []string{"-v"}, []string{"version"}},
		{"long version flag", []string{"-version"}, []string{"version"}},
		{"subcommand passes through", []string{"serve", "-config=a.hcl"}, []string{"serve", "-config=a.hcl"}},
		{"version subcommand passes through", []string{"version"}, []string{"version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.in))
		})
	}
}
