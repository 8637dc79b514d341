package mserror

import (
	"errors"
	"fmt"
)

const (
	MSH_UNEXPECTED        = "MSHU"
	MSH_CONFIG_ERROR      = "MSHC"
	MSH_CONNECTION_ERROR  = "MSHO"
	MSH_INITIATE_FAILED   = "MSHI"
	MSH_NOT_READY         = "MSHN"
	MSH_ADD_SHARD_FAILED  = "MSHA"
	MSH_ENABLE_SHARDING   = "MSHE"
	MSH_VERIFICATION_FAIL = "MSHV"
)

var existingErrorCodeMap = map[string]string{
	MSH_CONFIG_ERROR:      "Configuration error",
	MSH_CONNECTION_ERROR:  "Connection error",
	MSH_INITIATE_FAILED:   "ReplicaSetInitiateFailed",
	MSH_NOT_READY:         "ReplicaSetNotReady",
	MSH_ADD_SHARD_FAILED:  "AddShardFailed",
	MSH_ENABLE_SHARDING:   "EnableShardingFailed",
	MSH_VERIFICATION_FAIL: "ShardVerificationFailed",
}

func GetMessageByCode(errorCode string) string {
	rep, ok := existingErrorCodeMap[errorCode]
	if ok {
		return rep
	}
	return "Unexpected error"
}

var _ error = &MSError{}

type MSError struct {
	Err error

	ErrorCode string
}

func New(errorCode string, errorMsg string) *MSError {
	return &MSError{
		Err:       errors.New(errorMsg),
		ErrorCode: errorCode,
	}
}

// Newf formats the description like fmt.Errorf, so %w keeps the cause reachable.
func Newf(errorCode string, format string, a ...any) *MSError {
	return &MSError{
		Err:       fmt.Errorf(format, a...),
		ErrorCode: errorCode,
	}
}

func (er *MSError) Error() string {
	return fmt.Sprintf("Code: %s. Name: %s. Description: %s.",
		er.ErrorCode, GetMessageByCode(er.ErrorCode), er.Err)
}

func (er *MSError) Unwrap() error {
	return er.Err
}

// HasCode reports whether any MSError in err's chain carries the code.
func HasCode(err error, code string) bool {
	for err != nil {
		var me *MSError
		if !errors.As(err, &me) {
			return false
		}
		if me.ErrorCode == code {
			return true
		}
		err = me.Err
	}
	return false
}
