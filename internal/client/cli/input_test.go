package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestGetMultiline_DoubleEnter(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\nb\n\n\n"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetMultiline_EOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetMultiline(rdr("a\r\nb"), "Enter text", &out)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", got)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pw))
	assert.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword(&out)
	assert.Error(t, err)
}

func TestGetDefault(t *testing.T) {
	var out bytes.Buffer

	got, err := GetDefault(rdr("\n"), "Name", "Acme", &out)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got)
	assert.Contains(t, out.String(), "Name [Acme]")

	got, err = GetDefault(rdr("Globex\n"), "Name", "Acme", &out)
	require.NoError(t, err)
	assert.Equal(t, "Globex", got)
}

func TestGetList(t *testing.T) {
	var out bytes.Buffer

	got, err := GetList(rdr(" Oncology , ,Cardiology\n"), "Areas", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oncology", "Cardiology"}, got)

	got, err = GetList(rdr("\n"), "Areas", []string{"Oncology", "Neurology"}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Oncology", "Neurology"}, got)
}

func TestGetNumber_Reprompts(t *testing.T) {
	var out bytes.Buffer
	got, err := GetNumber(rdr("high\n8.5\n"), "Score", 0, &out)
	require.NoError(t, err)
	assert.Equal(t, 8.5, got)
	assert.Contains(t, out.String(), `"high" is not a number`)

	got, err = GetNumber(rdr("\n"), "Score", 3, &out)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]string
	}{
		{name: "none", args: nil, want: nil},
		{name: "pairs", args: []string{"a=1", "b=x=y"}, want: map[string]string{"a": "1", "b": "x=y"}},
		{name: "junk skipped", args: []string{"plain", "=v", "k="}, want: map[string]string{"k": ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseFilters(tc.args))
		})
	}
}
