package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("Secret123")
	WipeByteArray(buf)
	for i, v := range buf {
		assert.Zerof(t, v, "buf[%d] not wiped", i)
	}
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { WipeByteArray(nil) })
}

func TestWipeByteArray_Empty(t *testing.T) {
	buf := []byte{}
	WipeByteArray(buf)
	assert.Empty(t, buf)
}
