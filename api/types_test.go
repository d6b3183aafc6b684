package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceMapJSON(t *testing.T) {
	m := NewDeviceMap()
	m.Set("xpu:1", Device{Kind: "accelerator"})
	m.Set("xpu:0", Device{Kind: "accelerator"})
	m.Set("cpu", Device{Kind: "cpu", Description: "name='x'"})

	b, err := json.Marshal(DevicesResponse{Device: "cpu", Devices: *m})
	require.NoError(t, err)
	assert.JSONEq(t, `{"device":"cpu","devices":{"xpu:1":{"kind":"accelerator","description":""},"xpu:0":{"kind":"accelerator","description":""},"cpu":{"kind":"cpu","description":"name='x'"}}}`, string(b))
	assert.Regexp(t, `"xpu:1".*"xpu:0".*"cpu"`, string(b))

	var empty DevicesResponse
	b, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"device":"","devices":{}}`, string(b))
	assert.Zero(t, empty.Devices.Len())
}

func TestStatusErrorMessage(t *testing.T) {
	cases := []struct {
		err  StatusError
		want string
	}{
		{StatusError{Status: "400 Bad Request", ErrorMessage: "bad"}, "400 Bad Request: bad"},
		{StatusError{Status: "500"}, "500"},
		{StatusError{ErrorMessage: "bad"}, "bad"},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}
