package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Config(t *testing.T) {
	assert := assert.New(t)

	NewConfig(&Config{Host: "10.0.0.1"})
	NewConfig(&Config{Host: "ignored"})

	c := GetConfig()
	assert.Equal("10.0.0.1", c.Host)
	assert.True(c.Remote())
	assert.False((&Config{}).Remote())
}
