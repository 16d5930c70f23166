package redisx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppliesOperationTimeouts(t *testing.T) {
	c := New("localhost:6379")
	defer c.Close()

	opts := c.Options()
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, opTimeout, opts.DialTimeout)
	assert.Equal(t, opTimeout, opts.ReadTimeout)
	assert.Equal(t, opTimeout, opts.WriteTimeout)
}
