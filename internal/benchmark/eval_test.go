package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(f float64) *float64 { return &f }

func TestCheckSuccess_Comparators(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		rule  string
		want  bool
	}{
		{"gte pass", 4, ">=4", true},
		{"gte boundary fail", 3.9, ">=4", false},
		{"gt pass", 4, ">3", true},
		{"gt boundary fail", 3, ">3", false},
		{"lte pass", 2, "<=2", true},
		{"lte fail", 2.1, "<=2", false},
		{"lt pass", 3, "<4", true},
		{"lt boundary fail", 4, "<4", false},
		{"eq pass", 5, "=5", true},
		{"eq fail", 4, "=5", false},
		{"bare number pass", 5, "5", true},
		{"bare number fail", 4.99, "5", false},
		{"uppercase and spaces", 5, "  =5  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckSuccess(fptr(tt.score), tt.rule))
		})
	}
}

func TestCheckSuccess_CompoundRuleIsSetMembership(t *testing.T) {
	// "=4 and =5" reads like a conjunction but accepts either value.
	rule := "=4 and =5"

	assert.True(t, CheckSuccess(fptr(4), rule))
	assert.True(t, CheckSuccess(fptr(5), rule))
	assert.False(t, CheckSuccess(fptr(4.5), rule))
	assert.False(t, CheckSuccess(fptr(3), rule))
}

func TestCheckSuccess_FailsClosed(t *testing.T) {
	assert.False(t, CheckSuccess(nil, "=5"), "nil score must fail")
	assert.False(t, CheckSuccess(nil, ">0"), "nil score must fail any rule")
	assert.False(t, CheckSuccess(fptr(5), "garbage"))
	assert.False(t, CheckSuccess(fptr(5), ""))
	assert.False(t, CheckSuccess(fptr(5), ">="))
	assert.False(t, CheckSuccess(fptr(5), "= five"))
	assert.False(t, CheckSuccess(fptr(5), "texto and mais texto"))
}

func TestCheckSuccessValue(t *testing.T) {
	assert.True(t, CheckSuccessValue(5.0, "=5"))
	assert.True(t, CheckSuccessValue("5", "=5"), "numeric strings coerce")
	assert.True(t, CheckSuccessValue(4, ">=4"))
	assert.False(t, CheckSuccessValue(nil, "=5"))
	assert.False(t, CheckSuccessValue("n/a", "=5"))
	assert.False(t, CheckSuccessValue(map[string]interface{}{}, "=5"))
}
