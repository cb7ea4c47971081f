package ygggo_mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongov1 "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
	mongov2 "go.mongodb.org/mongo-driver/v2/mongo"
)

type stringer struct{ s string }

func (s stringer) String() string { return s.s }

func TestClientURI(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		opts Options
		want string
	}{
		{"no options", "mongodb://h:1", nil, "mongodb://h:1"},
		{"adds slash", "mongodb://h:1", Options{"appName": "demo"}, "mongodb://h:1/?appName=demo"},
		{"keeps path", "mongodb://h:1/admin", Options{"appName": "demo"}, "mongodb://h:1/admin?appName=demo"},
		{
			"merges and overrides query",
			"mongodb://h:1/?appName=old&replicaSet=rs0",
			Options{"appName": "new"},
			"mongodb://h:1/?appName=new&replicaSet=rs0",
		},
		{
			"sorted keys and typed values",
			"mongodb://u:p%40ss@h:1",
			Options{"maxPoolSize": 10, "retryWrites": false, "connectTimeoutMS": 2 * time.Second},
			"mongodb://u:p%40ss@h:1/?connectTimeoutMS=2000&maxPoolSize=10&retryWrites=false",
		},
		{"srv", "mongodb+srv://cluster.example.com", Options{"tls": true}, "mongodb+srv://cluster.example.com/?tls=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clientURI(tt.uri, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClientURI_RejectsUnsupportedValue(t *testing.T) {
	_, err := clientURI("mongodb://h:1", Options{"bad": []string{"x"}})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `option "bad"`)
}

func TestOptionValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{true, "true"},
		{7, "7"},
		{int32(8), "8"},
		{int64(9), "9"},
		{uint64(10), "10"},
		{1.5, "1.5"},
		{1500 * time.Millisecond, "1500"},
		{stringer{"majority"}, "majority"},
	}
	for _, c := range cases {
		got, err := optionValue(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestDriverVersion_String(t *testing.T) {
	assert.Equal(t, "v1", DriverV1.String())
	assert.Equal(t, "v2", DriverV2.String())
}

func TestDriverV1_NewClient(t *testing.T) {
	d := driverV1{}
	assert.Equal(t, DriverV1, d.Version())

	client, err := d.NewClient("mongodb://127.0.0.1:27017", Options{"appName": "ygggo"})
	require.NoError(t, err)
	require.NotNil(t, client)

	db := d.Database(client, "demo")
	assert.Equal(t, "demo", db.Name())

	_, err = d.NewClient("http://127.0.0.1:27017", nil)
	assert.Error(t, err)

	_, err = d.NewClient("mongodb://127.0.0.1:27017", Options{"maxPoolSize": "many"})
	assert.Error(t, err)
}

func TestDriverV2_NewClientRejectsBadURI(t *testing.T) {
	d := driverV2{}
	assert.Equal(t, DriverV2, d.Version())

	_, err := d.NewClient("http://127.0.0.1:27017", nil)
	assert.Error(t, err)
}

func TestClientAs(t *testing.T) {
	reg, _ := NewMockRegistry(DriverV2)
	cfg, err := NewConfigurationBuilder().SetAlias("a").SetURI("mongodb://h:1").Build()
	require.NoError(t, err)
	require.NoError(t, reg.CreateClient(cfg))

	c, err := ClientAs[*MockClient](reg, "a")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://h:1", c.URI)

	_, err = ClientAs[string](reg, "a")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ClientAs[*MockClient](reg, "missing")
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = DatabaseAs[*MockDatabase](reg, "a", "demo")
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, reg.Connect(context.Background(), "a"))
	db, err := DatabaseAs[*MockDatabase](reg, "a", "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", db.Name)
	assert.Same(t, c, db.Client)

	_, err = DatabaseAs[int](reg, "a", "demo")
	assert.ErrorIs(t, err, ErrValidation)
}

// unreachableConfig points at a port nothing listens on, with short timeouts.
func unreachableConfig(t *testing.T) *Configuration {
	t.Helper()
	cfg, err := NewConfigurationBuilder().
		SetAlias("UNREACHABLE").
		SetURI("mongodb://127.0.0.1:1").
		WithOptions(Options{"serverSelectionTimeoutMS": 200, "connectTimeoutMS": 200}).
		Build()
	require.NoError(t, err)
	return cfg
}

func TestDriverV1_ConnectFailureCanBeRetried(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reg := NewV1Registry()
	require.NoError(t, reg.CreateClient(unreachableConfig(t)))

	for attempt := 1; attempt <= 2; attempt++ {
		err := reg.Connect(ctx, "UNREACHABLE")
		require.ErrorIs(t, err, ErrConnectFailed, "attempt %d", attempt)
		assert.NotErrorIs(t, err, topology.ErrTopologyClosed, "attempt %d", attempt)
		assert.NotErrorIs(t, err, mongov1.ErrClientDisconnected, "attempt %d", attempt)

		meta, err := reg.GetMetadata("UNREACHABLE")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, meta.Status)
	}
}

func TestDriverV2_ConnectFailureCanBeRetried(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reg := NewV2Registry()
	require.NoError(t, reg.CreateClient(unreachableConfig(t)))
	t.Cleanup(func() {
		// the v2 client monitors from construction; stop it for goleak
		client, err := reg.GetClient("UNREACHABLE")
		require.NoError(t, err)
		require.NoError(t, client.Disconnect(context.Background()))
	})

	for attempt := 1; attempt <= 2; attempt++ {
		err := reg.Connect(ctx, "UNREACHABLE")
		require.ErrorIs(t, err, ErrConnectFailed, "attempt %d", attempt)
		assert.NotErrorIs(t, err, mongov2.ErrClientDisconnected, "attempt %d", attempt)

		meta, err := reg.GetMetadata("UNREACHABLE")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, meta.Status)
	}
}
