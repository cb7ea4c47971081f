//go:build integration

package ygggo_mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bsonv1 "go.mongodb.org/mongo-driver/bson"
	mongov1 "go.mongodb.org/mongo-driver/mongo"
	bsonv2 "go.mongodb.org/mongo-driver/v2/bson"
	mongov2 "go.mongodb.org/mongo-driver/v2/mongo"
)

var sharedHelper *DockerTestHelper

// TestMain starts one MongoDB container for all integration tests.
func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	helper, err := NewDockerTestHelper(ctx)
	cancel()
	if err != nil {
		println("[TestMain] NewDockerTestHelper error:", err.Error())
		os.Exit(1)
	}
	sharedHelper = helper

	exitCode := m.Run()
	if err := helper.Close(); err != nil {
		println("[TestMain] Close error:", err.Error())
	}
	os.Exit(exitCode)
}

func TestDockerTestHelper_ConnectionInfo(t *testing.T) {
	info, err := sharedHelper.GetConnectionInfo(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, info["host"])
	assert.NotEmpty(t, info["port"])
	assert.NotContains(t, info["uri"], "p@ss")
	assert.True(t, sharedHelper.Endpoint().HasCredentials())
}

func TestIntegration_V1EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc, err := sharedHelper.Factory().GetService(1)
	require.NoError(t, err)
	cfg, err := sharedHelper.Configuration("V1_DB", Options{"appName": "ygggo-it", "serverSelectionTimeoutMS": 5000})
	require.NoError(t, err)

	require.NoError(t, svc.CreateClient(cfg))
	require.NoError(t, svc.Connect(ctx, "V1_DB"))

	db, err := DatabaseAs[*mongov1.Database](svc, "V1_DB", "demo")
	require.NoError(t, err)
	_, err = db.Collection("items").InsertOne(ctx, bsonv1.M{"name": "v1"})
	require.NoError(t, err)
	n, err := db.Collection("items").CountDocuments(ctx, bsonv1.M{"name": "v1"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))

	require.NoError(t, svc.Ping(ctx, "V1_DB"))
	require.NoError(t, svc.Disconnect(ctx, "V1_DB"))

	meta, err := svc.GetMetadata("V1_DB")
	require.NoError(t, err)
	assert.Equal(t, StatusDisconnected, meta.Status)
}

func TestIntegration_V2EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	svc, err := sharedHelper.Factory().GetService(2)
	require.NoError(t, err)
	cfg, err := sharedHelper.Configuration("LOCAL_DB", nil)
	require.NoError(t, err)

	require.NoError(t, svc.CreateClient(cfg))
	require.NoError(t, svc.Connect(ctx, "LOCAL_DB"))

	db, err := DatabaseAs[*mongov2.Database](svc, "LOCAL_DB", "demo")
	require.NoError(t, err)
	_, err = db.Collection("items").InsertOne(ctx, bsonv2.M{"name": "v2"})
	require.NoError(t, err)

	status, err := svc.HealthCheck(ctx)
	require.NoError(t, err)
	assert.True(t, status.Healthy)
	assert.True(t, status.Aliases["LOCAL_DB"].Checked)

	require.NoError(t, svc.Disconnect(ctx, "LOCAL_DB"))
}
