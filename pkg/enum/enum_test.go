package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleStatus string

var (
	sampleActive   = New(sampleStatus("active"))
	sampleInactive = New(sampleStatus("inactive"))
)

func TestToEnum(t *testing.T) {
	v, err := ToEnum[sampleStatus]("active")
	require.NoError(t, err)
	require.Equal(t, sampleActive, v)

	v, err = ToEnum[sampleStatus]("inactive")
	require.NoError(t, err)
	require.Equal(t, sampleInactive, v)

	_, err = ToEnum[sampleStatus]("deleted")
	require.Error(t, err)
}
