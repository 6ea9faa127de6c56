package chaindb_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestAccessKeyMatchesConcatenatedDigest(t *testing.T) {
	assert.Equal(t, sha256Hex("test-dbroot1234"), chaindb.AccessKey("test-db", "root", "1234"))
	assert.Equal(t, sha256Hex("test-dbtestroot1234"), chaindb.ContractID("test-db", "test", "root", "1234"))
}

func TestKeyDerivationIsDeterministic(t *testing.T) {
	creds := chaindb.Credentials{Database: "test-db", User: "root", Password: "1234"}
	for _, scheme := range []chaindb.KeyScheme{chaindb.KeySchemeConcat, chaindb.KeySchemeFramed} {
		t.Run(scheme.String(), func(t *testing.T) {
			first := scheme.ContractID(creds, "test")
			for i := 0; i < 5; i++ {
				assert.Equal(t, first, scheme.ContractID(creds, "test"))
				assert.Equal(t, scheme.AccessKey(creds), scheme.AccessKey(creds))
			}
			assert.Len(t, first, 64)
			assert.NotEqual(t, first, scheme.ContractID(creds, "other"))
			assert.NotEqual(t, scheme.AccessKey(creds), first)
		})
	}
}

// Fields are framed with a 4-byte big-endian length, then expanded with
// HKDF-SHA256 (salt "chaindb", per-purpose info).
func TestFramedSchemeKnownAnswers(t *testing.T) {
	creds := chaindb.Credentials{Database: "test-db", User: "root", Password: "1234"}

	assert.Equal(t,
		"b3aa5ed6ab28a38d2ac0b9f8bafcf90bdf558eefe4b05f795841f06d57c7d203",
		chaindb.KeySchemeFramed.AccessKey(creds))
	assert.Equal(t,
		"247fde9707bc81fe0be28bc57b4d57a69e23088d1c5303723a19bef2a75ea6c6",
		chaindb.KeySchemeFramed.ContractID(creds, "test"))
}

func TestConcatSchemeCollidesAcrossSplits(t *testing.T) {
	a := chaindb.Credentials{Database: "ab", User: "c", Password: "x"}
	b := chaindb.Credentials{Database: "a", User: "bc", Password: "x"}

	assert.Equal(t, chaindb.KeySchemeConcat.AccessKey(a), chaindb.KeySchemeConcat.AccessKey(b))
	assert.NotEqual(t, chaindb.KeySchemeFramed.AccessKey(a), chaindb.KeySchemeFramed.AccessKey(b))
}

func TestParseKeyScheme(t *testing.T) {
	s, err := chaindb.ParseKeyScheme("framed")
	require.NoError(t, err)
	assert.Equal(t, chaindb.KeySchemeFramed, s)

	s, err = chaindb.ParseKeyScheme("")
	require.NoError(t, err)
	assert.Equal(t, chaindb.KeySchemeConcat, s)

	_, err = chaindb.ParseKeyScheme("md5")
	assert.Error(t, err)
}
