package errmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every needle in a table must route to its own rule when presented alone,
// which holds only if no earlier rule shadows it.
func TestRuleTables_NeedlesAreReachable(t *testing.T) {
	tables := map[string][]messageRule{
		"send":   sendRules,
		"verify": verifyRules,
	}

	for name, rules := range tables {
		for i, r := range rules {
			require.NotEmpty(t, r.message, "%s rule %d has no message", name, i)
			for _, n := range r.needles {
				assert.Equal(t, strings.ToLower(n), n, "%s needle %q must be lower-case", name, n)

				got, ok := classify(rules, strings.ToUpper(n))
				require.True(t, ok, "%s needle %q did not match", name, n)
				assert.Equal(t, r.message, got, "%s needle %q shadowed by an earlier rule", name, n)
			}
		}
	}
}

func TestRuleTables_Sizes(t *testing.T) {
	assert.Len(t, sendRules, 6)
	assert.Len(t, verifyRules, 4)
}
