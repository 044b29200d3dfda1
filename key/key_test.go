// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain_Key(t *testing.T) {
	testCases := []struct {
		name     string
		chain    Chain
		expected string
	}{
		{
			name:     "empty chain",
			chain:    Chain{},
			expected: "",
		},
		{
			name:     "single name",
			chain:    Chain{Name("theme")},
			expected: "theme",
		},
		{
			name:     "plugin namespaced",
			chain:    Chain{Name("com.example.plugin"), Name("theme")},
			expected: "com.example.plugin::theme",
		},
		{
			name:     "empty key is kept",
			chain:    Chain{Name("com.example.plugin"), Name("")},
			expected: "com.example.plugin::",
		},
		{
			name:     "nested chain",
			chain:    Chain{Name("a"), Chain{Name("b"), Name("c")}},
			expected: "a::b::c",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.chain.Key())
		})
	}
}
