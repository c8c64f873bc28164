package telepath

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/goliatone/go-imagechooser/pkg/media"
)

// ErrNoAdapter is returned when Pack meets a value it cannot serialise.
var ErrNoAdapter = errors.New("telepath: no adapter registered")

// Adapter describes how a server-side object is rebuilt client-side.
type Adapter interface {
	JSConstructor() string
	JSArgs(ctx context.Context, obj any) ([]any, error)
	Media() media.Media
}

type interfaceAdapter struct {
	iface   reflect.Type
	adapter Adapter
}

// Registry maps Go types to adapters. Concrete types are matched exactly;
// interface registrations apply to any value implementing them, in
// registration order.
type Registry struct {
	mu         sync.RWMutex
	exact      map[reflect.Type]Adapter
	interfaces []interfaceAdapter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{exact: make(map[reflect.Type]Adapter)}
}

// Register associates adapter with the type of sample. Pass a typed nil
// pointer for concrete types ((*AdminImageChooser)(nil)) and a nil pointer to
// an interface ((*Widget)(nil)) for interface matching. Re-registering a type
// replaces the previous adapter.
func (r *Registry) Register(adapter Adapter, sample any) error {
	if adapter == nil {
		return fmt.Errorf("telepath: adapter is required")
	}
	if strings.TrimSpace(adapter.JSConstructor()) == "" {
		return fmt.Errorf("telepath: adapter %T has an empty JS constructor", adapter)
	}
	typ := reflect.TypeOf(sample)
	if typ == nil {
		return fmt.Errorf("telepath: sample value is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if typ.Kind() == reflect.Pointer && typ.Elem().Kind() == reflect.Interface {
		iface := typ.Elem()
		for idx, entry := range r.interfaces {
			if entry.iface == iface {
				r.interfaces[idx].adapter = adapter
				return nil
			}
		}
		r.interfaces = append(r.interfaces, interfaceAdapter{iface: iface, adapter: adapter})
		return nil
	}
	r.exact[typ] = adapter
	return nil
}

// MustRegister panics when Register fails.
func (r *Registry) MustRegister(adapter Adapter, sample any) {
	if err := r.Register(adapter, sample); err != nil {
		panic(err)
	}
}

// Lookup finds the adapter for obj: exact type first, then the pointer or
// element type, then interface registrations.
func (r *Registry) Lookup(obj any) (Adapter, bool) {
	if r == nil || obj == nil {
		return nil, false
	}
	typ := reflect.TypeOf(obj)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if adapter, ok := r.exact[typ]; ok {
		return adapter, true
	}
	if typ.Kind() == reflect.Pointer {
		if adapter, ok := r.exact[typ.Elem()]; ok {
			return adapter, true
		}
	} else if adapter, ok := r.exact[reflect.PointerTo(typ)]; ok {
		return adapter, true
	}
	for _, entry := range r.interfaces {
		if typ.Implements(entry.iface) {
			return entry.adapter, true
		}
	}
	return nil, false
}

// Len reports how many registrations the registry holds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.exact) + len(r.interfaces)
}
