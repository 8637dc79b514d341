package testutil

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
)

func NewUUIDStr(t *testing.T) string {
	v, err := uuid.NewV4()
	require.NoError(t, err)
	return v.String()
}
