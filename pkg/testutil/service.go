package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/arthur-debert/autopage/pkg/controller"
	"github.com/arthur-debert/autopage/pkg/errors"
)

// FakeService keeps pages, controllers and icon packs in memory and wires
// them into a MockClient. AddPage rejects duplicates with PAGE_EXISTS like
// the real service.
type FakeService struct {
	*MockClient

	mu          sync.Mutex
	pages       map[string]string
	active      map[string]string
	controllers []string
	icons       map[string][]string
	packOrder   []string
}

// NewFakeService returns a service with the given controller serials.
func NewFakeService(serials ...string) *FakeService {
	s := &FakeService{
		MockClient:  &MockClient{},
		pages:       make(map[string]string),
		active:      make(map[string]string),
		controllers: serials,
		icons:       make(map[string][]string),
	}

	s.ControllersFunc = func(ctx context.Context) ([]string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]string(nil), s.controllers...), nil
	}
	s.PagesFunc = func(ctx context.Context) ([]string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		names := make([]string, 0, len(s.pages))
		for name := range s.pages {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	}
	s.AddPageFunc = func(ctx context.Context, name, pageJSON string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.pages[name]; ok {
			return errors.Newf(errors.ErrPageExists, "page %q already exists", name)
		}
		s.pages[name] = pageJSON
		return nil
	}
	s.RemovePageFunc = func(ctx context.Context, name string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.pages, name)
		return nil
	}
	s.SetActivePageFunc = func(ctx context.Context, serial, name string) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.active[serial] = name
		return nil
	}
	s.IconPacksFunc = func(ctx context.Context) ([]string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]string(nil), s.packOrder...), nil
	}
	s.IconNamesFunc = func(ctx context.Context, packID string) ([]string, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return append([]string(nil), s.icons[packID]...), nil
	}
	s.PropertyFunc = func(ctx context.Context, name string) (any, error) {
		if _, err := controller.RootProperties.Lookup(name); err != nil {
			return nil, err
		}
		switch name {
		case "Pages":
			return s.PagesFunc(ctx)
		case "Controllers":
			return s.ControllersFunc(ctx)
		case "IconPacks":
			return s.IconPacksFunc(ctx)
		}
		return nil, nil
	}
	s.ControllerPropertyFunc = func(ctx context.Context, serial, name string) (any, error) {
		if _, err := controller.ControllerProperties.Lookup(name); err != nil {
			return nil, err
		}
		return s.ActivePage(serial), nil
	}
	return s
}

// WithIcons installs an icon pack. Packs are listed in installation order.
func (s *FakeService) WithIcons(pack string, names ...string) *FakeService {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.icons[pack]; !ok {
		s.packOrder = append(s.packOrder, pack)
	}
	s.icons[pack] = append(s.icons[pack], names...)
	return s
}

// PageJSON returns the stored body of a page.
func (s *FakeService) PageJSON(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.pages[name]
	return body, ok
}

// ActivePage returns the page last activated on a controller.
func (s *FakeService) ActivePage(serial string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active[serial]
}
