// Package controller talks to the StreamController service.
//
// Client is the contract the rest of autopage depends on; DBusClient
// implements it over the session bus. Property reads go through fixed
// accessor tables, so only known property names can be read.
package controller

import (
	"context"
	"regexp"
)

const (
	DefaultService             = "com.core447.StreamController"
	DefaultObject              = "/com/core447/StreamController"
	DefaultInterface           = "com.core447.StreamController"
	DefaultControllerInterface = "com.core447.StreamController.Controller"
)

// Client is a handle to the controller service.
type Client interface {
	Controllers(ctx context.Context) ([]string, error)
	Pages(ctx context.Context) ([]string, error)

	// AddPage fails with PAGE_EXISTS when a page of that name is present.
	AddPage(ctx context.Context, name, pageJSON string) error
	RemovePage(ctx context.Context, name string) error
	SetActivePage(ctx context.Context, serial, name string) error
	NotifyForeground(ctx context.Context, title, class string) error

	IconPacks(ctx context.Context) ([]string, error)
	IconNames(ctx context.Context, packID string) ([]string, error)

	Property(ctx context.Context, name string) (any, error)
	ControllerProperty(ctx context.Context, serial, name string) (any, error)

	// Subscribe calls handler for every property change, one at a time,
	// until ctx is done.
	Subscribe(ctx context.Context, handler Handler) error

	Close() error
}

// PropertyChange is one changed (or invalidated, Value nil) property.
type PropertyChange struct {
	Path      string
	Interface string
	Property  string
	Value     any
}

// Handler receives property changes synchronously.
type Handler func(PropertyChange)

// Options locate the service on the bus.
type Options struct {
	Service             string
	Object              string
	Interface           string
	ControllerInterface string
}

// DefaultOptions returns the stock StreamController names.
func DefaultOptions() Options {
	return Options{
		Service:             DefaultService,
		Object:              DefaultObject,
		Interface:           DefaultInterface,
		ControllerInterface: DefaultControllerInterface,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Service == "" {
		o.Service = d.Service
	}
	if o.Object == "" {
		o.Object = d.Object
	}
	if o.Interface == "" {
		o.Interface = d.Interface
	}
	if o.ControllerInterface == "" {
		o.ControllerInterface = d.ControllerInterface
	}
	return o
}

// ControllerPath returns the object path of the controller with serial.
func (o Options) ControllerPath(serial string) string {
	return o.Object + "/controllers/" + SerialToPath(serial)
}

var pathUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SerialToPath makes a serial usable as an object path element.
func SerialToPath(serial string) string {
	return pathUnsafe.ReplaceAllString(serial, "_")
}
