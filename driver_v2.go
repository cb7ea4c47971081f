package ygggo_mongo

import (
	"context"

	mongov2 "go.mongodb.org/mongo-driver/v2/mongo"
	optionsv2 "go.mongodb.org/mongo-driver/v2/mongo/options"
	readprefv2 "go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// V2Registry is the registry backed by go.mongodb.org/mongo-driver/v2.
type V2Registry = Registry[*mongov2.Client, *mongov2.Database]

// NewV2Registry creates an empty registry for the v2 driver.
func NewV2Registry() *V2Registry {
	return NewRegistry[*mongov2.Client, *mongov2.Database](driverV2{})
}

// driverV2 has no unconnected client: mongo.Connect builds the client and
// starts server monitoring in the background without blocking. Connect only
// confirms that a primary answers.
type driverV2 struct{}

var _ Driver[*mongov2.Client, *mongov2.Database] = driverV2{}

func (driverV2) Version() DriverVersion { return DriverV2 }

func (driverV2) NewClient(uri string, opts Options) (*mongov2.Client, error) {
	full, err := clientURI(uri, opts)
	if err != nil {
		return nil, err
	}
	return mongov2.Connect(optionsv2.Client().ApplyURI(full))
}

func (d driverV2) Connect(ctx context.Context, client *mongov2.Client) error {
	return d.Ping(ctx, client)
}

func (driverV2) Close(ctx context.Context, client *mongov2.Client) error {
	return client.Disconnect(ctx)
}

func (driverV2) Ping(ctx context.Context, client *mongov2.Client) error {
	return client.Ping(ctx, readprefv2.Primary())
}

func (driverV2) Database(client *mongov2.Client, name string) *mongov2.Database {
	return client.Database(name)
}
