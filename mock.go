package ygggo_mongo

import (
	"context"
	"sync"
	"time"
)

// MockClient is the client type of MockDriver.
type MockClient struct {
	URI     string
	Options Options

	mu        sync.Mutex
	connected bool
}

// Connected reports whether the mock considers the client connected.
func (c *MockClient) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// MockDatabase is the database type of MockDriver.
type MockDatabase struct {
	Name   string
	Client *MockClient
}

// MockDriver is an in-memory Driver for tests and examples. Failures are
// scripted per call; every call is counted.
type MockDriver struct {
	version DriverVersion

	mu           sync.Mutex
	newClientErr error
	connectErrs  []error
	closeErrs    []error
	pingErr      error
	connectDelay time.Duration
	connectCalls int
	closeCalls   int
	pingCalls    int
}

var _ Driver[*MockClient, *MockDatabase] = (*MockDriver)(nil)

// NewMockDriver creates a mock that reports version.
func NewMockDriver(version DriverVersion) *MockDriver {
	return &MockDriver{version: version}
}

// NewMockRegistry creates a registry backed by a fresh MockDriver.
func NewMockRegistry(version DriverVersion) (*Registry[*MockClient, *MockDatabase], *MockDriver) {
	d := NewMockDriver(version)
	return NewRegistry[*MockClient, *MockDatabase](d), d
}

// FailNewClient makes every NewClient call fail with err until reset with nil.
func (d *MockDriver) FailNewClient(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.newClientErr = err
}

// FailNextConnect queues err for the next Connect call.
func (d *MockDriver) FailNextConnect(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connectErrs = append(d.connectErrs, err)
}

// FailNextClose queues err for the next Close call.
func (d *MockDriver) FailNextClose(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeErrs = append(d.closeErrs, err)
}

// FailPing makes every Ping fail with err until reset with nil.
func (d *MockDriver) FailPing(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pingErr = err
}

// SetConnectDelay makes Connect block for delay or until ctx is done.
func (d *MockDriver) SetConnectDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connectDelay = delay
}

// ConnectCalls returns the number of Connect calls so far.
func (d *MockDriver) ConnectCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectCalls
}

// CloseCalls returns the number of Close calls so far.
func (d *MockDriver) CloseCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeCalls
}

// PingCalls returns the number of Ping calls so far.
func (d *MockDriver) PingCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pingCalls
}

func (d *MockDriver) Version() DriverVersion { return d.version }

func (d *MockDriver) NewClient(uri string, opts Options) (*MockClient, error) {
	d.mu.Lock()
	err := d.newClientErr
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &MockClient{URI: uri, Options: opts.Clone()}, nil
}

func (d *MockDriver) Connect(ctx context.Context, client *MockClient) error {
	d.mu.Lock()
	d.connectCalls++
	delay := d.connectDelay
	var err error
	if len(d.connectErrs) > 0 {
		err, d.connectErrs = d.connectErrs[0], d.connectErrs[1:]
	}
	d.mu.Unlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	if err != nil {
		return err
	}
	client.mu.Lock()
	client.connected = true
	client.mu.Unlock()
	return nil
}

func (d *MockDriver) Close(_ context.Context, client *MockClient) error {
	d.mu.Lock()
	d.closeCalls++
	var err error
	if len(d.closeErrs) > 0 {
		err, d.closeErrs = d.closeErrs[0], d.closeErrs[1:]
	}
	d.mu.Unlock()

	if err != nil {
		return err
	}
	client.mu.Lock()
	client.connected = false
	client.mu.Unlock()
	return nil
}

func (d *MockDriver) Ping(_ context.Context, _ *MockClient) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pingCalls++
	return d.pingErr
}

func (d *MockDriver) Database(client *MockClient, name string) *MockDatabase {
	return &MockDatabase{Name: name, Client: client}
}
