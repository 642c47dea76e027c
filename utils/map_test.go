package utils

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
	assert.Nil(t, Map(nil, strconv.Itoa))
}

func TestMapErr(t *testing.T) {
	parse := func(s string) (int, error) { return strconv.Atoi(s) }

	out, err := MapErr([]string{"4", "2"}, parse)
	assert.NoError(t, err)
	assert.Equal(t, []int{4, 2}, out)

	out, err = MapErr([]string{"4", "x", "2"}, parse)
	var numErr *strconv.NumError
	assert.True(t, errors.As(err, &numErr))
	assert.Equal(t, []int{4}, out)

	out, err = MapErr(nil, parse)
	assert.NoError(t, err)
	assert.Nil(t, out)
}
