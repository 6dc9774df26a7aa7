package tool

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewID_IsVersion7AndOrdered(t *testing.T) {
	a := NewID()
	b := NewID()
	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), parsed.Version())
	require.Less(t, a, b)
}
