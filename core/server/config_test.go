package server_test

import (
	"testing"

	"content-transfer/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	c := server.Config{Port: "8080"}
	assert.Equal(t, ":8080", c.Addr())
}
