package chaindb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb/mock"
)

func withUnits(n uint64) *chaindb.CreateAccountOptions {
	return &chaindb.CreateAccountOptions{Units: &n}
}

func TestCreateAndFetchAccount(t *testing.T) {
	ctx := context.Background()
	db := connectMock(t, mock.New())

	acc, err := db.CreateUserAccount(ctx, "alice", "pw", withUnits(100))
	require.NoError(t, err)
	assert.NotEmpty(t, acc.ID)
	assert.Equal(t, chaindb.UserAccount{UserName: "alice", Units: 100}, acc.User())

	byCreds, err := db.GetUserAccount(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, acc, byCreds)

	byID, err := db.GetUserAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc, byID)

	_, err = db.GetUserAccount(ctx, "alice", "nope")
	assert.ErrorIs(t, err, chaindb.ErrInvalidCredentials)
	_, err = db.GetUserAccountByID(ctx, "missing")
	assert.ErrorIs(t, err, chaindb.ErrUserNotFound)
}

func TestDuplicateUserName(t *testing.T) {
	ctx := context.Background()
	db := connectMock(t, mock.New())

	taken, err := db.NameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, taken)

	msg, err := db.CheckUserName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, chaindb.MsgNameAvailable, msg)

	_, err = db.CreateUserAccount(ctx, "alice", "pw", nil)
	require.NoError(t, err)

	_, err = db.CreateUserAccount(ctx, "alice", "pw2", nil)
	require.ErrorIs(t, err, chaindb.ErrNameTaken)
	assert.Contains(t, err.Error(), chaindb.MsgNameTaken)

	_, err = db.CheckUserName(ctx, "alice")
	assert.ErrorIs(t, err, chaindb.ErrNameTaken)
	taken, err = db.NameTaken(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestTransferUnits(t *testing.T) {
	ctx := context.Background()
	db := connectMock(t, mock.New())

	alice, err := db.CreateUserAccount(ctx, "alice", "pw", withUnits(100))
	require.NoError(t, err)
	bob, err := db.CreateUserAccount(ctx, "bob", "pw", nil)
	require.NoError(t, err)
	assert.Zero(t, bob.Units)

	_, err = db.GetTransferByUserID(ctx, alice.ID)
	assert.ErrorIs(t, err, chaindb.ErrNoTransfers)
	none, err := db.GetAllTransfersByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	err = db.TransferUnits(ctx, alice.ID, bob.ID, 101)
	require.ErrorIs(t, err, chaindb.ErrInsufficientUnits)
	after, err := db.GetUserAccountByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 100, after.Units)

	require.NoError(t, db.TransferUnits(ctx, alice.ID, bob.ID, 40))

	after, err = db.GetUserAccountByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 60, after.Units)
	after, err = db.GetUserAccountByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 40, after.Units)

	want := chaindb.Transfer{From: alice.ID, To: bob.ID, Units: 40}
	for _, id := range []string{alice.ID, bob.ID} {
		last, err := db.GetTransferByUserID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, *last)

		all, err := db.GetAllTransfersByUserID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []chaindb.Transfer{want}, all)
	}
}

func TestAccountsAreScopedByDatabase(t *testing.T) {
	ctx := context.Background()
	db := connectMock(t, mock.New())

	_, err := db.CreateUserAccount(ctx, "alice", "pw", nil)
	require.NoError(t, err)

	other := db.WithDatabase("other-db")
	assert.NotEqual(t, db.AccessKey(), other.AccessKey())
	assert.Equal(t, "other-db", other.Database())
	assert.Equal(t, "test-db", db.Database())

	_, err = other.CreateUserAccount(ctx, "alice", "pw", nil)
	assert.NoError(t, err)
}

func TestNilClient(t *testing.T) {
	var db *chaindb.ChainDB
	_, err := db.GetUserAccount(context.Background(), "a", "b")
	assert.ErrorIs(t, err, chaindb.ErrNilClient)
	assert.ErrorIs(t, db.TransferUnits(context.Background(), "a", "b", 1), chaindb.ErrNilClient)
}
