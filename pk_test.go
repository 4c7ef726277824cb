package shelf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPK_Less(t *testing.T) {
	tt := []struct {
		key1 string
		key2 string
		less bool
	}{
		{"user:11", "user:100", true},
		{"user:1", "user:999", true},
		{"user:100", "user:11", false},
		{"usera", "userb", true},
		{"userc", "userb", false},
		{"user:a", "user:b", true},
		{"user:a:2", "user:b:1", true},
		{"user:a", "user:b:0", true},
		{"user", "user:1", true},
		{"product", "user", true},
		{"product:9", "user:1", true},
		{"user:1", "user:1:pets", true},
		{"item:8976", "item:8976", false},
		{"product:1145", "product:1144", false},
		{"product:1145", "product:1146", true},
		{"2", "10", true},
		{"9", "1a", true},
		{"1a", "9", false},
		{"001", "002", true},
		{"001", "01", true},
		{"01", "001", false},
		{"5", "001", true},
		{"+1", "1", false},
		{"1", "+1", true},
	}

	for _, tc := range tt {
		t.Run(tc.key1+"_"+tc.key2, func(t *testing.T) {
			a := newPK(tc.key1)
			b := newPK(tc.key2)

			assert.Equal(t, tc.less, a.Less(b))
		})
	}
}

func TestPK_DistinctKeysNeverCompareEqual(t *testing.T) {
	keys := []string{"1", "01", "001", "+1", "1:", "1:0", "a", "A", "a:1", "a:01", ""}

	for i := range keys {
		for j := range keys {
			if i == j {
				continue
			}

			a, b := newPK(keys[i]), newPK(keys[j])
			assert.Truef(t, a.Less(b) != b.Less(a), "%q and %q must be ordered", keys[i], keys[j])
		}
	}
}

func TestPK_Match(t *testing.T) {
	tt := []struct {
		key     string
		pattern string
		match   bool
	}{
		{"user:1", "", true},
		{"user:1", "*", true},
		{"user:1", "user:*", true},
		{"user:10", "user:?", false},
		{"user:1:pets", "user:*:pets", true},
		{"product:1", "user:*", false},
		{"978-84-376", "978-*", true},
	}

	for _, tc := range tt {
		assert.Equal(t, tc.match, newPK(tc.key).Match(tc.pattern), "%s ~ %s", tc.key, tc.pattern)
	}
}
