package storepath

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		blob string
		want any
	}{
		{`null`, nil},
		{`true`, true},
		{`0`, 0.0},
		{`-2.5`, -2.5},
		{`""`, ""},
		{`"hi"`, "hi"},
		{`[1,"a",null]`, Array{1.0, "a", nil}},
		{`[]`, Array{}},
		{`{}`, NewObject()},
	}
	for _, tt := range tests {
		t.Run(tt.blob, func(t *testing.T) {
			got, err := Decode(tt.blob)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodecPreservesMemberOrder(t *testing.T) {
	blob := `{"z":1,"a":{"y":true,"b":[{"q":null,"c":"x"}]},"m":"s"}`

	decoded, err := Decode(blob)
	require.NoError(t, err)

	object, ok := decoded.(*Object)
	require.True(t, ok, "expected *Object, got %T", decoded)
	assert.Equal(t, []string{"z", "a", "m"}, object.Keys())

	encoded, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, blob, encoded)
}

func TestDecodeDuplicateMembersKeepFirstPosition(t *testing.T) {
	decoded, err := Decode(`{"a":1,"b":2,"a":3}`)
	require.NoError(t, err)

	object := decoded.(*Object)
	assert.Equal(t, []string{"a", "b"}, object.Keys())
	v, _ := object.Get("a")
	assert.Equal(t, 3.0, v)
}

func TestDecodeInvalidBlob(t *testing.T) {
	_, err := Decode(`{"a":`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}

func TestEncodeSortsGoMaps(t *testing.T) {
	encoded, err := Encode(map[string]any{"b": 1, "a": 2})
	require.NoError(t, err)
	assert.Equal(t, `{"a":2,"b":1}`, encoded)
}

func TestEncodeUnsupportedValue(t *testing.T) {
	_, err := Encode(make(chan int))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncode))
}

func TestNormalize(t *testing.T) {
	t.Run("canonical values are returned as is", func(t *testing.T) {
		o := NewObject(Entry{"a", 1.0})
		got, err := Normalize(o)
		require.NoError(t, err)
		assert.Same(t, o, got)
	})

	t.Run("go values become the value tree", func(t *testing.T) {
		type profile struct {
			Name string `json:"name"`
			Age  int    `json:"age"`
		}
		got, err := Normalize(map[string]any{"p": profile{Name: "ada", Age: 36}, "tags": []string{"x"}})
		require.NoError(t, err)

		want := NewObject(
			Entry{"p", NewObject(Entry{"name", "ada"}, Entry{"age", 36.0})},
			Entry{"tags", Array{"x"}},
		)
		assert.Equal(t, want, got)
	})

	t.Run("integers become numbers", func(t *testing.T) {
		got, err := Normalize(5)
		require.NoError(t, err)
		assert.Equal(t, 5.0, got)
	})
}
