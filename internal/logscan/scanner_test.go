package logscan

import (
	"encoding/base64"
	"testing"

	"github.com/gabapcia/driftwatch/internal/drift"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderActionRecordBase64 is a real OrderActionRecord payload captured from
// a mainnet fill transaction.
const orderActionRecordBase64 = "4DRDR8LtbQGWwHZkAAAAAAIIAQABAVAItYsox9wC2v+AAz8WXQRRjyHZ0aSDao8VZMh+F12zAd0EAAAAAAAAAYLxCAAAAAAAAWDjFgAAAAAAAbKkeQIAAAAAAaowAAAAAAAAAY/f////////AAAAAe3FfpKhZkk9E4ZlwFSFEmXchAsvmwHVTjGQOBC+69TDAQ8hIQABAAGAhB4AAAAAAAGAhB4AAAAAAAGq2EwDAAAAAAE10NxKUa97dfc1auP2TjQAqOAgggM7dWBcCJ9gI3Fn5AGbdFQAAQEBoNcmAgAAAAABYOMWAAAAAAABsqR5AgAAAABAiupxBgAAAA=="

func TestScanner_Extract(t *testing.T) {
	scanner := New(drift.NewRegistry())

	t.Run("extracts event behind the log marker", func(t *testing.T) {
		event, err := scanner.Extract("Program log: " + orderActionRecordBase64)
		require.NoError(t, err)
		require.IsType(t, drift.OrderActionRecord{}, event)

		record := event.(drift.OrderActionRecord)
		assert.Equal(t, drift.OrderActionFill, record.Action)
		assert.Equal(t, int64(1685504150), record.Ts)
	})

	t.Run("extracts event behind the data marker", func(t *testing.T) {
		event, err := scanner.Extract("Program data: " + orderActionRecordBase64)
		require.NoError(t, err)
		assert.IsType(t, drift.OrderActionRecord{}, event)
	})

	t.Run("unmarked lines yield nothing", func(t *testing.T) {
		lines := []string{
			"Program ComputeBudget111111111111111111111111111111 invoke [1]",
			"Program ComputeBudget111111111111111111111111111111 success",
			"Program dRiftyHA39MWEi3m9aunc5MzRF1JYuBsbn6VPcn33UH consumed 306396 of 400000 compute units",
			"",
		}

		for _, line := range lines {
			event, err := scanner.Extract(line)
			assert.NoError(t, err, line)
			assert.Nil(t, event, line)
		}
	})

	t.Run("marked line with invalid base64 fails", func(t *testing.T) {
		_, err := scanner.Extract("Program log: Instruction: FillPerpOrder")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("valid base64 without a known discriminant yields nothing", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))

		event, err := scanner.Extract("Program log: " + payload)
		assert.NoError(t, err)
		assert.Nil(t, event)
	})

	t.Run("payload shorter than a discriminant yields nothing", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("abc"))

		event, err := scanner.Extract("Program log: " + payload)
		assert.NoError(t, err)
		assert.Nil(t, event)
	})

	t.Run("known discriminant with corrupt payload surfaces decode error", func(t *testing.T) {
		raw, err := base64.StdEncoding.DecodeString(orderActionRecordBase64)
		require.NoError(t, err)

		truncated := base64.StdEncoding.EncodeToString(raw[:drift.DiscriminantLen+4])
		_, err = scanner.Extract("Program log: " + truncated)
		assert.ErrorIs(t, err, drift.ErrDecode)
	})
}
