package chainapi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapPayload(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "json string holding an object",
			raw:      `"{\"greeting\":\"Hi\",\"year\":2023}"`,
			expected: `{"greeting":"Hi","year":2023}`,
		},
		{
			name:     "quoted twice keeps the inner string",
			raw:      `"\"{\\\"year\\\":1}\""`,
			expected: `"{\"year\":1}"`,
		},
		{
			name:     "inline object",
			raw:      `{"year":2024}`,
			expected: `{"year":2024}`,
		},
		{
			name:     "string model written as json string",
			raw:      `"\"hello\""`,
			expected: `"hello"`,
		},
		{
			name:     "plain string",
			raw:      `"hello"`,
			expected: `"hello"`,
		},
		{
			name:     "empty",
			raw:      ``,
			expected: ``,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, string(UnwrapPayload([]byte(tc.raw))))
		})
	}
}

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"success":true,"error_msg":"","data":{"id":"1"}}`))
	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.True(t, env.HasData())

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, env.DecodeData(&out))
	assert.Equal(t, "1", out.ID)

	env, err = DecodeEnvelope([]byte(`{"success":false,"error_msg":"This user name is already taken","data":null}`))
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.False(t, env.HasData())
	assert.Equal(t, "This user name is already taken", env.ErrorMsg)

	_, err = DecodeEnvelope([]byte(`{"data":1}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeEnvelope([]byte(`<html>`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestOKAndFailRoundTrip(t *testing.T) {
	body, err := OK("free")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"error_msg":"","data":"free"}`, string(body))

	body, err = Fail("nope")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error_msg":"nope","data":null}`, string(body))
}

func TestDecodeContract(t *testing.T) {
	tx, err := DecodeContract([]byte(`{"tx_type":"NONE","contract_id":"","data":null}`))
	require.NoError(t, err)
	assert.True(t, tx.IsNone())

	tx, err = DecodeContract([]byte(`{"tx_type":"CONTRACT","contract_id":"abc","data":"{\"year\":2024}"}`))
	require.NoError(t, err)
	assert.Equal(t, TxContract, tx.TxType)
	assert.Equal(t, "abc", tx.ContractID)
	assert.JSONEq(t, `{"year":2024}`, string(tx.Payload()))

	tx, err = DecodeContract([]byte(`{"success":true,"error_msg":"","data":{"tx_type":"CONTRACT","contract_id":"abc","data":{"year":1}}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":1}`, string(tx.Payload()))

	tx, err = DecodeContract([]byte(`{"success":true,"error_msg":"","data":null}`))
	require.NoError(t, err)
	assert.True(t, tx.IsNone())

	_, err = DecodeContract([]byte(`{"success":false,"error_msg":"bad key","data":null}`))
	var failure *ServerFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "bad key", failure.Message)

	_, err = DecodeContract([]byte(`{"contract_id":"abc"}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeContracts(t *testing.T) {
	txs, err := DecodeContracts([]byte(`[{"tx_type":"NONE","contract_id":"","data":null}]`))
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].IsNone())

	txs, err = DecodeContracts([]byte(`{"success":true,"error_msg":"","data":[{"tx_type":"CONTRACT","contract_id":"a","data":"1"},{"tx_type":"CONTRACT","contract_id":"a","data":"2"}]}`))
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "2", string(txs[1].Payload()))

	txs, err = DecodeContracts([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, txs)
}
