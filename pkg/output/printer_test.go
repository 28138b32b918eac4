package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	astutuserrors "github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"TERM", FormatTerminal, false},
		{"plain", FormatText, false},
		{"json", FormatJSON, false},
		{"yml", FormatYAML, false},
		{"xml", FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			again, err := ParseFormat(got.String())
			require.NoError(t, err)
			assert.Equal(t, tt.want, again)
		})
	}
}

func TestFormatFlagValue(t *testing.T) {
	var f Format
	require.NoError(t, f.Set("YAML"))
	assert.Equal(t, FormatYAML, f)
	assert.Equal(t, "yaml", f.String())
	assert.Equal(t, "format", f.Type())

	err := f.Set("xml")
	assert.True(t, astutuserrors.IsErrorCode(err, astutuserrors.ErrInvalidInput))
	assert.Equal(t, FormatYAML, f, "a rejected value leaves the flag unchanged")
}

func TestAutoOnBufferIsText(t *testing.T) {
	assert.Equal(t, FormatText, New(FormatAuto, &bytes.Buffer{}).Format())
}

func TestRecordText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatText, &buf).Record(map[string]string{"node_id": "usb(1a86:7523)", "ilk": "usb"}))

	assert.Equal(t, "ilk      usb\nnode_id  usb(1a86:7523)\n", buf.String())
}

func TestRecordJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatJSON, &buf).Record(map[string]string{"ilk": "pci"}))

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "pci", got["ilk"])
}

func TestTreeYAML(t *testing.T) {
	var buf bytes.Buffer
	nodes := []TreeNode{
		{Path: "/sys/devices/pci0000:00/0000:00:14.0", NodeID: "pci(8086:a36d)", Label: "xHCI"},
		{Path: "/sys/devices/pci0000:00/0000:00:14.0/usb1", Depth: 1, NodeID: "usb(1d6b:0002)", Label: "root hub", Color: "#00ff00"},
	}
	require.NoError(t, New(FormatYAML, &buf).Tree(nodes))

	var got []TreeNode
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, nodes, got)
}

func TestTreeText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatText, &buf).Tree([]TreeNode{
		{NodeID: "pci(8086:a36d)", Label: "xHCI"},
		{Depth: 1, NodeID: "usb(1d6b:0002)", Label: "root hub", Color: "#00ff00"},
	}))

	assert.Equal(t, "pci(8086:a36d)  xHCI\n  usb(1d6b:0002)  root hub\n", buf.String())
}

func TestDataCallsTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := New(FormatText, &buf).Data([]int{1, 2}, func(w io.Writer, st Styles) error {
		_, err := fmt.Fprint(w, "custom")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", buf.String())
}

func TestErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(FormatJSON, &buf).Error(errors.New("boom")))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
}

func TestErrorCommandFailure(t *testing.T) {
	err := astutuserrors.CommandFailed("lsusb -v -s 001:005", 1, "", "Couldn't open device\n", nil)

	var buf bytes.Buffer
	require.NoError(t, New(FormatJSON, &buf).Error(err))
	assert.JSONEq(t, `{
		"error": "[EXTERNAL_COMMAND] command \"lsusb -v -s 001:005\" exited with code 1",
		"code": "EXTERNAL_COMMAND",
		"exit_code": 1,
		"stderr": "Couldn't open device"
	}`, buf.String())

	buf.Reset()
	require.NoError(t, New(FormatText, &buf).Error(err))
	assert.Equal(t, "Error: "+err.Error()+"\nCouldn't open device\n", buf.String())
}
