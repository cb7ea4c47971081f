package ygggo_mongo

import (
	"context"

	mongov1 "go.mongodb.org/mongo-driver/mongo"
	optionsv1 "go.mongodb.org/mongo-driver/mongo/options"
	readprefv1 "go.mongodb.org/mongo-driver/mongo/readpref"
)

// V1Registry is the registry backed by go.mongodb.org/mongo-driver (v1).
type V1Registry = Registry[*mongov1.Client, *mongov1.Database]

// NewV1Registry creates an empty registry for the v1 driver.
func NewV1Registry() *V1Registry {
	return NewRegistry[*mongov1.Client, *mongov1.Database](driverV1{})
}

// driverV1 separates client construction from connection, as the v1 driver does.
type driverV1 struct{}

var _ Driver[*mongov1.Client, *mongov1.Database] = driverV1{}

func (driverV1) Version() DriverVersion { return DriverV1 }

func (driverV1) NewClient(uri string, opts Options) (*mongov1.Client, error) {
	full, err := clientURI(uri, opts)
	if err != nil {
		return nil, err
	}
	//nolint:staticcheck // NewClient is the only way to build an unconnected v1 client
	return mongov1.NewClient(optionsv1.Client().ApplyURI(full))
}

func (d driverV1) Connect(ctx context.Context, client *mongov1.Client) error {
	if err := client.Connect(ctx); err != nil {
		return err
	}
	if err := d.Ping(ctx, client); err != nil {
		// reset the topology so a later Connect can start over
		_ = client.Disconnect(ctx)
		return err
	}
	return nil
}

func (driverV1) Close(ctx context.Context, client *mongov1.Client) error {
	return client.Disconnect(ctx)
}

func (driverV1) Ping(ctx context.Context, client *mongov1.Client) error {
	return client.Ping(ctx, readprefv1.Primary())
}

func (driverV1) Database(client *mongov1.Client, name string) *mongov1.Database {
	return client.Database(name)
}
