package textenc

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "utf-8", Normalize(""))
	assert.Equal(t, "utf-8", Normalize("  UTF-8 "))
	assert.Equal(t, "latin-1", Normalize("Latin-1"))
}

func TestDecode_UTF8(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		text, err := Decode([]byte("name,age\nZoë,30\n"), "utf-8")
		require.NoError(t, err)
		assert.Equal(t, "name,age\nZoë,30\n", text)
	})

	t.Run("byte order mark is dropped", func(t *testing.T) {
		text, err := Decode(append([]byte{0xEF, 0xBB, 0xBF}, "id"...), "")
		require.NoError(t, err)
		assert.Equal(t, "id", text)
	})

	t.Run("invalid byte", func(t *testing.T) {
		_, err := Decode([]byte{'a', 'b', 0xE9, 'c'}, "utf-8")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidText))
		assert.Contains(t, err.Error(), "offset 2")
	})
}

func TestDecode_Latin1(t *testing.T) {
	text, err := Decode([]byte{'c', 'a', 'f', 0xE9}, "latin-1")
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestDecode_CP1252(t *testing.T) {
	// 0x80 is the euro sign in windows-1252
	text, err := Decode([]byte{0x80, '5'}, "cp1252")
	require.NoError(t, err)
	assert.Equal(t, "€5", text)
}

func TestDecode_UnknownEncoding(t *testing.T) {
	_, err := Decode([]byte("x"), "klingon-8")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
}

func TestSupported(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"utf-8", true},
		{"UTF8", true},
		{"latin-1", true},
		{"cp1252", true},
		{"shift_jis", true},
		{"", true},
		{"nope", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.name))
		})
	}
}

func TestNewWriter(t *testing.T) {
	t.Run("utf-8 passes through", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, "utf-8")
		require.NoError(t, err)
		_, err = w.Write([]byte("café"))
		require.NoError(t, err)
		assert.Equal(t, "café", buf.String())
	})

	t.Run("latin-1 encodes", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, "latin-1")
		require.NoError(t, err)
		_, err = w.Write([]byte("café"))
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, buf.Bytes())
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, err := NewWriter(&bytes.Buffer{}, "nope")
		assert.True(t, errors.Is(err, ErrUnknownEncoding))
	})
}
