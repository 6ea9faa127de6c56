package chaindb_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaindb/chaindb_sdk_go/internal/logger"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb/mock"
)

type testTable struct {
	Greeting string `json:"greeting"`
	Year     int    `json:"year"`
}

func newTestTable() testTable {
	return testTable{Greeting: "Hi", Year: 2023}
}

func connectMock(t *testing.T, m *mock.Mock, opts ...chaindb.Option) *chaindb.ChainDB {
	t.Helper()
	logger.ConfigureTestLogging(t)
	db, err := chaindb.Connect("", "test-db", "root", "1234", append([]chaindb.Option{chaindb.WithBackend(m.Backend())}, opts...)...)
	require.NoError(t, err)
	return db
}

func TestGetTableAbsentReturnsDefault(t *testing.T) {
	db := connectMock(t, mock.New())

	table, err := chaindb.GetTable(context.Background(), db, "test", newTestTable)
	require.NoError(t, err)
	assert.Equal(t, newTestTable(), table.Value)
	assert.False(t, table.Exists())
	assert.Equal(t, "test", table.Name())
	assert.Equal(t, sha256Hex("test-dbtestroot1234"), table.ContractID())
}

func TestTablePersistThenReload(t *testing.T) {
	ctx := context.Background()
	m := mock.New()
	db := connectMock(t, m)

	table, err := chaindb.GetTable(ctx, db, "test", newTestTable)
	require.NoError(t, err)
	table.Value.Year = 2024
	require.NoError(t, table.Persist(ctx))
	assert.True(t, table.Exists())

	again, err := chaindb.GetTable(ctx, db, "test", newTestTable)
	require.NoError(t, err)
	assert.True(t, again.Exists())
	assert.Equal(t, testTable{Greeting: "Hi", Year: 2024}, again.Value)

	table.Value.Greeting = "Hello"
	require.NoError(t, table.Persist(ctx))
	require.NoError(t, again.Reload(ctx))
	assert.Equal(t, "Hello", again.Value.Greeting)
}

func TestTableHistory(t *testing.T) {
	ctx := context.Background()
	db := connectMock(t, mock.New())

	table, err := chaindb.GetTable(ctx, db, "test", newTestTable)
	require.NoError(t, err)

	history, err := table.History(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	for year := 2021; year <= 2023; year++ {
		table.Value.Year = year
		require.NoError(t, table.Persist(ctx))
	}

	history, err = table.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2023, history[0].Year)
	assert.Equal(t, 2022, history[1].Year)
}

func TestTablesAreScopedByNameAndDatabase(t *testing.T) {
	ctx := context.Background()
	m := mock.New()
	db := connectMock(t, m)

	first, err := chaindb.GetTable(ctx, db, "first", newTestTable)
	require.NoError(t, err)
	first.Value.Year = 1999
	require.NoError(t, first.Persist(ctx))

	second, err := chaindb.GetTable(ctx, db, "second", newTestTable)
	require.NoError(t, err)
	assert.False(t, second.Exists())

	other, err := chaindb.GetTable(ctx, db.WithDatabase("other-db"), "first", newTestTable)
	require.NoError(t, err)
	assert.False(t, other.Exists())
	assert.Equal(t, 2023, other.Value.Year)
}

func TestTableStringModel(t *testing.T) {
	ctx := context.Background()
	db := connectMock(t, mock.New())

	table, err := chaindb.GetTable(ctx, db, "motd", func() string { return "" })
	require.NoError(t, err)
	table.Value = "hello"
	require.NoError(t, table.Persist(ctx))

	again, err := chaindb.GetTable(ctx, db, "motd", func() string { return "" })
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Value)
}

func TestTableStringModelHoldingJSONText(t *testing.T) {
	ctx := context.Background()
	emptyString := func() string { return "" }

	for _, value := range []string{"42", "null", "true", `{"a":1}`, `"quoted"`} {
		t.Run(value, func(t *testing.T) {
			db := connectMock(t, mock.New())

			table, err := chaindb.GetTable(ctx, db, "motd", emptyString)
			require.NoError(t, err)
			table.Value = value
			require.NoError(t, table.Persist(ctx))

			again, err := chaindb.GetTable(ctx, db, "motd", emptyString)
			require.NoError(t, err)
			assert.True(t, again.Exists())
			assert.Equal(t, value, again.Value)

			again.Value = ""
			require.NoError(t, again.Reload(ctx))
			assert.Equal(t, value, again.Value)

			history, err := again.History(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, []string{value}, history)
		})
	}
}

func TestTableReadsInlineStringData(t *testing.T) {
	db := connectMock(t, mock.New())
	contractID := db.ContractID("motd")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"tx_type":"CONTRACT","contract_id":"`+contractID+`","data":"42"}`)
	}))
	defer srv.Close()

	inline, err := chaindb.Connect(srv.URL, "test-db", "root", "1234")
	require.NoError(t, err)

	asString, err := chaindb.GetTable(context.Background(), inline, "motd", func() string { return "" })
	require.NoError(t, err)
	assert.Equal(t, "42", asString.Value)

	asNumber, err := chaindb.GetTable(context.Background(), inline, "motd", func() int { return 0 })
	require.NoError(t, err)
	assert.Equal(t, 42, asNumber.Value)
}

func TestGetTableValidatesArguments(t *testing.T) {
	ctx := context.Background()
	db := connectMock(t, mock.New())

	_, err := chaindb.GetTable(ctx, db, " ", newTestTable)
	assert.Error(t, err)
	_, err = chaindb.GetTable[testTable](ctx, db, "test", nil)
	assert.Error(t, err)
	_, err = chaindb.GetTable(ctx, nil, "test", newTestTable)
	assert.ErrorIs(t, err, chaindb.ErrNilClient)
}
