package mserror_test

import (
	"fmt"
	"testing"

	"github.com/pg-sharding/mongoshard/pkg/models/mserror"
	"github.com/stretchr/testify/assert"
)

func TestErrorFormat(t *testing.T) {
	err := mserror.New(mserror.MSH_ADD_SHARD_FAILED, "router refused shard")

	assert.Equal(t,
		"Code: MSHA. Name: AddShardFailed. Description: router refused shard.",
		err.Error())
}

func TestUnknownCode(t *testing.T) {
	assert.Equal(t, "Unexpected error", mserror.GetMessageByCode("NOPE"))
}

func TestNewfKeepsCause(t *testing.T) {
	err := mserror.Newf(mserror.MSH_INITIATE_FAILED, "replica set %s: %w", "rs0", assert.AnError)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "replica set rs0")
}

func TestHasCode(t *testing.T) {
	inner := mserror.New(mserror.MSH_NOT_READY, "no primary")
	outer := mserror.Newf(mserror.MSH_INITIATE_FAILED, "shard1: %w", inner)
	wrapped := fmt.Errorf("bootstrap: %w", outer)

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{name: "nil", err: nil, code: mserror.MSH_NOT_READY, want: false},
		{name: "plain error", err: assert.AnError, code: mserror.MSH_NOT_READY, want: false},
		{name: "direct", err: inner, code: mserror.MSH_NOT_READY, want: true},
		{name: "outer code", err: wrapped, code: mserror.MSH_INITIATE_FAILED, want: true},
		{name: "nested code", err: wrapped, code: mserror.MSH_NOT_READY, want: true},
		{name: "absent code", err: wrapped, code: mserror.MSH_ADD_SHARD_FAILED, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mserror.HasCode(tt.err, tt.code))
		})
	}
}
