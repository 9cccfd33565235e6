package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr_CopiesValue(t *testing.T) {
	best := "instruct_formal"
	p := Ptr(best)
	best = "instruct_casual"

	assert.Equal(t, "instruct_formal", *p)
	assert.NotSame(t, Ptr(3.5), Ptr(3.5))
}
