package devseed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"databases": [{
			"name": "test-db", "user": "root", "password": "1234",
			"accounts": [{"user_name": "alice", "password": "pw", "units": 10}],
			"tables": [{"name": "settings", "value": {"greeting": "Hi"}}]
		}]
	}`), 0o600))

	seed, err := Load(path)
	require.NoError(t, err)
	require.Len(t, seed.Databases, 1)
	db := seed.Databases[0]
	assert.Equal(t, "test-db", db.Name)
	require.Len(t, db.Accounts, 1)
	assert.EqualValues(t, 10, db.Accounts[0].Units)
	require.Len(t, db.Tables, 1)
	assert.JSONEq(t, `{"greeting":"Hi"}`, string(db.Tables[0].Value))
}

func TestParseRejectsInvalidSeeds(t *testing.T) {
	cases := map[string]string{
		"missing database name": `{"databases":[{"user":"root"}]}`,
		"missing account name":  `{"databases":[{"name":"db","accounts":[{"units":1}]}]}`,
		"missing table value":   `{"databases":[{"name":"db","tables":[{"name":"t"}]}]}`,
		"not json":              `databases`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
