package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type unit struct {
	Tag    string
	Status string
}

func TestMapNeverNil(t *testing.T) {
	got := Map([]unit(nil), func(u unit) string { return u.Tag })
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPluckAndKeyBy(t *testing.T) {
	units := []unit{{"AAAAAA", "available"}, {"BBBBBB", "taken"}}

	assert.Equal(t, []string{"AAAAAA", "BBBBBB"}, Pluck(units, func(u unit) string { return u.Tag }))

	byTag := KeyBy(units, func(u unit) string { return u.Tag })
	assert.Equal(t, "taken", byTag["BBBBBB"].Status)
}
