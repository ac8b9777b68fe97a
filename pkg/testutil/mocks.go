package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/arthur-debert/autopage/pkg/controller"
)

// Call is one recorded client invocation.
type Call struct {
	Method string
	Args   []string
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Method, c.Args)
}

// MockClient is a mock implementation of controller.Client for testing.
// Unset functions return zero values.
type MockClient struct {
	ControllersFunc        func(ctx context.Context) ([]string, error)
	PagesFunc              func(ctx context.Context) ([]string, error)
	AddPageFunc            func(ctx context.Context, name, pageJSON string) error
	RemovePageFunc         func(ctx context.Context, name string) error
	SetActivePageFunc      func(ctx context.Context, serial, name string) error
	NotifyForegroundFunc   func(ctx context.Context, title, class string) error
	IconPacksFunc          func(ctx context.Context) ([]string, error)
	IconNamesFunc          func(ctx context.Context, packID string) ([]string, error)
	PropertyFunc           func(ctx context.Context, name string) (any, error)
	ControllerPropertyFunc func(ctx context.Context, serial, name string) (any, error)
	SubscribeFunc          func(ctx context.Context, handler controller.Handler) error

	mu    sync.Mutex
	calls []Call
}

var _ controller.Client = (*MockClient)(nil)

func (m *MockClient) record(method string, args ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, Args: args})
}

// Calls returns the recorded calls in order.
func (m *MockClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsTo returns the recorded calls of one method.
func (m *MockClient) CallsTo(method string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockClient) Controllers(ctx context.Context) ([]string, error) {
	m.record("Controllers")
	if m.ControllersFunc != nil {
		return m.ControllersFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) Pages(ctx context.Context) ([]string, error) {
	m.record("Pages")
	if m.PagesFunc != nil {
		return m.PagesFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) AddPage(ctx context.Context, name, pageJSON string) error {
	m.record("AddPage", name)
	if m.AddPageFunc != nil {
		return m.AddPageFunc(ctx, name, pageJSON)
	}
	return nil
}

func (m *MockClient) RemovePage(ctx context.Context, name string) error {
	m.record("RemovePage", name)
	if m.RemovePageFunc != nil {
		return m.RemovePageFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) SetActivePage(ctx context.Context, serial, name string) error {
	m.record("SetActivePage", serial, name)
	if m.SetActivePageFunc != nil {
		return m.SetActivePageFunc(ctx, serial, name)
	}
	return nil
}

func (m *MockClient) NotifyForeground(ctx context.Context, title, class string) error {
	m.record("NotifyForeground", title, class)
	if m.NotifyForegroundFunc != nil {
		return m.NotifyForegroundFunc(ctx, title, class)
	}
	return nil
}

func (m *MockClient) IconPacks(ctx context.Context) ([]string, error) {
	m.record("IconPacks")
	if m.IconPacksFunc != nil {
		return m.IconPacksFunc(ctx)
	}
	return nil, nil
}

func (m *MockClient) IconNames(ctx context.Context, packID string) ([]string, error) {
	m.record("IconNames", packID)
	if m.IconNamesFunc != nil {
		return m.IconNamesFunc(ctx, packID)
	}
	return nil, nil
}

func (m *MockClient) Property(ctx context.Context, name string) (any, error) {
	m.record("Property", name)
	if m.PropertyFunc != nil {
		return m.PropertyFunc(ctx, name)
	}
	if _, err := controller.RootProperties.Lookup(name); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *MockClient) ControllerProperty(ctx context.Context, serial, name string) (any, error) {
	m.record("ControllerProperty", serial, name)
	if m.ControllerPropertyFunc != nil {
		return m.ControllerPropertyFunc(ctx, serial, name)
	}
	if _, err := controller.ControllerProperties.Lookup(name); err != nil {
		return nil, err
	}
	return nil, nil
}

// Subscribe blocks until ctx is done unless SubscribeFunc is set.
func (m *MockClient) Subscribe(ctx context.Context, handler controller.Handler) error {
	m.record("Subscribe")
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, handler)
	}
	<-ctx.Done()
	return nil
}

func (m *MockClient) Close() error {
	m.record("Close")
	return nil
}

// ReplayChanges returns a SubscribeFunc that delivers changes in order and
// then returns.
func ReplayChanges(changes ...controller.PropertyChange) func(context.Context, controller.Handler) error {
	return func(ctx context.Context, handler controller.Handler) error {
		for _, c := range changes {
			if ctx.Err() != nil {
				return nil
			}
			handler(c)
		}
		return nil
	}
}
