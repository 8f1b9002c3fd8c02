package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAdditionalDropsKnownKeys(t *testing.T) {
	data := []byte(`{"text":"hi","created":"2017-05-26","foo":"bar","nested":{"x":1}}`)

	bag, err := DecodeAdditional(data, "text", "created")
	require.NoError(t, err)
	require.Len(t, bag, 2)

	s, ok := bag["foo"].AsString()
	require.True(t, ok)
	assert.Equal(t, "bar", s)

	obj, ok := bag["nested"].AsObject()
	require.True(t, ok)
	x, ok := obj["x"].AsInt64()
	require.True(t, ok)
	assert.Equal(t, int64(1), x)
}

func TestDecodeAdditionalEmptyWhenAllKeysKnown(t *testing.T) {
	data := []byte(`{"text":"hi","created":"2017-05-26"}`)

	bag, err := DecodeAdditional(data, "text", "created")
	require.NoError(t, err)
	assert.Nil(t, bag)
}

func TestDecodeAdditionalRejectsNonObject(t *testing.T) {
	_, err := DecodeAdditional([]byte(`[1,2,3]`), "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrongType))
}

func TestEncodeWithAdditionalMergesBag(t *testing.T) {
	type rec struct {
		Text string `json:"text"`
	}
	out, err := EncodeWithAdditional(rec{Text: "hi"}, map[string]Value{"foo": String("bar")})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, map[string]any{"text": "hi", "foo": "bar"}, got)
}

func TestEncodeWithAdditionalDetectsCollision(t *testing.T) {
	type rec struct {
		Text string `json:"text"`
	}
	_, err := EncodeWithAdditional(rec{Text: "hi"}, map[string]Value{"text": String("clobber")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	var ee *EncodeError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "text", ee.Key)
}

func TestEncodeWithAdditionalOmitsAbsentOptionals(t *testing.T) {
	type rec struct {
		Text        string  `json:"text"`
		Description *string `json:"description,omitempty"`
	}
	out, err := EncodeWithAdditional(rec{Text: "hi"}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"text":"hi"}`, string(out))
}

func TestUnmarshalRecordWrapsTypeErrors(t *testing.T) {
	var out struct {
		Count int64 `json:"count"`
	}
	err := UnmarshalRecord([]byte(`{"count":"not a number"}`), &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWrongType))

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "count", de.Field)
}
