package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionStateFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  ConnectionState
	}{
		{"Message", StateConnected},
		{"message", StateConnected},
		{"  MESSAGE  ", StateConnected},
		{"Connect", StateNotConnected},
		{"Follow", StateNotConnected},
		{"Pending", StateUnknown},
		{"View profile", StateUnknown},
		{"", StateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, ConnectionStateFromLabel(tt.label))
		})
	}
}
