package controller

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"

	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/logging"
	"github.com/godbus/dbus/v5"
)

const (
	propertiesInterface = "org.freedesktop.DBus.Properties"
	propertiesChanged   = "PropertiesChanged"
)

// DBusClient implements Client on the session bus.
type DBusClient struct {
	conn *dbus.Conn
	opts Options
}

var _ Client = (*DBusClient)(nil)

// Dial connects to the session bus. The service itself is only contacted
// on the first call.
func Dial(opts Options) (*DBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTransport, "cannot connect to the session bus")
	}
	return NewDBusClient(conn, opts), nil
}

// NewDBusClient wraps an existing connection.
func NewDBusClient(conn *dbus.Conn, opts Options) *DBusClient {
	return &DBusClient{conn: conn, opts: opts.withDefaults()}
}

func (c *DBusClient) root() dbus.BusObject {
	return c.conn.Object(c.opts.Service, dbus.ObjectPath(c.opts.Object))
}

func (c *DBusClient) controller(serial string) dbus.BusObject {
	return c.conn.Object(c.opts.Service, dbus.ObjectPath(c.opts.ControllerPath(serial)))
}

func (c *DBusClient) call(ctx context.Context, obj dbus.BusObject, iface, method string, ret any, args ...any) error {
	call := obj.CallWithContext(ctx, iface+"."+method, 0, args...)
	if call.Err != nil {
		return transportError(call.Err, method)
	}
	if ret != nil {
		if err := call.Store(ret); err != nil {
			return errors.Wrapf(err, errors.ErrTransport, "unexpected reply to %s", method).
				WithDetail("method", method)
		}
	}
	return nil
}

func (c *DBusClient) Controllers(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "Controllers")
}

func (c *DBusClient) Pages(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "Pages")
}

func (c *DBusClient) IconPacks(ctx context.Context) ([]string, error) {
	return c.stringList(ctx, "IconPacks")
}

func (c *DBusClient) stringList(ctx context.Context, prop string) ([]string, error) {
	v, err := c.Property(ctx, prop)
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func (c *DBusClient) AddPage(ctx context.Context, name, pageJSON string) error {
	err := c.call(ctx, c.root(), c.opts.Interface, "AddPage", nil, name, pageJSON)
	if err != nil && isPageExists(err) {
		return errors.Wrapf(err, errors.ErrPageExists, "page %q already exists", name).
			WithDetail("page", name)
	}
	return err
}

func (c *DBusClient) RemovePage(ctx context.Context, name string) error {
	return c.call(ctx, c.root(), c.opts.Interface, "RemovePage", nil, name)
}

func (c *DBusClient) NotifyForeground(ctx context.Context, title, class string) error {
	return c.call(ctx, c.root(), c.opts.Interface, "NotifyForegroundWindow", nil, title, class)
}

func (c *DBusClient) IconNames(ctx context.Context, packID string) ([]string, error) {
	var names []string
	if err := c.call(ctx, c.root(), c.opts.Interface, "GetIconNames", &names, packID); err != nil {
		return nil, err
	}
	return names, nil
}

func (c *DBusClient) SetActivePage(ctx context.Context, serial, name string) error {
	return c.call(ctx, c.controller(serial), c.opts.ControllerInterface, "SetActivePage", nil, name)
}

func (c *DBusClient) Property(ctx context.Context, name string) (any, error) {
	dec, err := RootProperties.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.property(ctx, c.root(), c.opts.Interface, name, dec)
}

func (c *DBusClient) ControllerProperty(ctx context.Context, serial, name string) (any, error) {
	dec, err := ControllerProperties.Lookup(name)
	if err != nil {
		return nil, err
	}
	return c.property(ctx, c.controller(serial), c.opts.ControllerInterface, name, dec)
}

func (c *DBusClient) property(ctx context.Context, obj dbus.BusObject, iface, name string, dec Decoder) (any, error) {
	var v dbus.Variant
	if err := c.call(ctx, obj, propertiesInterface, "Get", &v, iface, name); err != nil {
		return nil, err
	}
	return dec(v.Value())
}

// Subscribe listens for PropertiesChanged on the service object and
// everything below it.
func (c *DBusClient) Subscribe(ctx context.Context, handler Handler) error {
	logger := logging.GetLogger("controller.dbus")

	match := []dbus.MatchOption{
		dbus.WithMatchSender(c.opts.Service),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember(propertiesChanged),
		dbus.WithMatchPathNamespace(dbus.ObjectPath(c.opts.Object)),
	}
	if err := c.conn.AddMatchSignalContext(ctx, match...); err != nil {
		return errors.Wrap(err, errors.ErrTransport, "cannot subscribe to property changes")
	}
	defer func() { _ = c.conn.RemoveMatchSignal(match...) }()

	signals := make(chan *dbus.Signal, 16)
	c.conn.Signal(signals)
	defer c.conn.RemoveSignal(signals)

	logger.Debug().Str("service", c.opts.Service).Msg("Subscribed to property changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return errors.New(errors.ErrTransport, "bus connection closed")
			}
			changes, err := DecodePropertiesChanged(sig)
			if err != nil {
				logger.Warn().Err(err).Str("path", string(sig.Path)).Msg("Ignoring signal")
				continue
			}
			for _, change := range changes {
				handler(change)
			}
		}
	}
}

// DecodePropertiesChanged unpacks a PropertiesChanged signal. Changed
// properties come first, sorted by name, then invalidated ones with a nil
// value. Other signals yield nothing.
func DecodePropertiesChanged(sig *dbus.Signal) ([]PropertyChange, error) {
	if sig == nil || sig.Name != propertiesInterface+"."+propertiesChanged {
		return nil, nil
	}
	if len(sig.Body) < 2 {
		return nil, errors.New(errors.ErrTransport, "short PropertiesChanged body")
	}

	iface, ok := sig.Body[0].(string)
	if !ok {
		return nil, errors.New(errors.ErrTransport, "PropertiesChanged interface is not a string")
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, errors.New(errors.ErrTransport, "PropertiesChanged changes are not a{sv}")
	}

	path := string(sig.Path)
	names := make([]string, 0, len(changed))
	for name := range changed {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]PropertyChange, 0, len(changed))
	for _, name := range names {
		out = append(out, PropertyChange{Path: path, Interface: iface, Property: name, Value: changed[name].Value()})
	}

	if len(sig.Body) > 2 {
		if invalidated, ok := sig.Body[2].([]string); ok {
			for _, name := range invalidated {
				out = append(out, PropertyChange{Path: path, Interface: iface, Property: name})
			}
		}
	}
	return out, nil
}

func (c *DBusClient) Close() error {
	if err := c.conn.Close(); err != nil {
		return errors.Wrap(err, errors.ErrTransport, "failed to close bus connection")
	}
	return nil
}

func transportError(err error, method string) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	ae := errors.Wrapf(err, errors.ErrTransport, "%s failed", method).WithDetail("method", method)
	var derr dbus.Error
	if stderrors.As(err, &derr) {
		ae = ae.WithDetail("dbusError", derr.Name)
	}
	return ae
}

// isPageExists recognises the service's rejection of a duplicate page.
func isPageExists(err error) bool {
	var derr dbus.Error
	if stderrors.As(err, &derr) && strings.Contains(derr.Name, "PageExists") {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "pageexists") || strings.Contains(msg, "already exists")
}
