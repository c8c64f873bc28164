package telepath

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-imagechooser/pkg/media"
)

type objectKey struct {
	typ reflect.Type
	ptr uintptr
}

type objectNode struct {
	packed map[string]any
	id     int
	hasID  bool
}

// JSContext packs values for one response. Adaptable objects seen more than
// once are emitted in full the first time (tagged with "_id") and as
// {"_ref": id} afterwards.
type JSContext struct {
	registry *Registry
	media    media.Media
	nodes    map[objectKey]*objectNode
	nextID   int
}

// NewJSContext creates a packing context backed by registry.
func NewJSContext(registry *Registry) *JSContext {
	return &JSContext{
		registry: registry,
		nodes:    make(map[objectKey]*objectNode),
	}
}

// Media returns the merged media of every adapter used so far.
func (c *JSContext) Media() media.Media {
	return c.media.Clone()
}

// Pack converts value into its telepath wire form.
func (c *JSContext) Pack(ctx context.Context, value any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return v, nil
	}

	if adapter, ok := c.registry.Lookup(value); ok {
		return c.packObject(ctx, adapter, value)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return c.Pack(ctx, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}
		out := make([]any, 0, rv.Len())
		for idx := 0; idx < rv.Len(); idx++ {
			packed, err := c.Pack(ctx, rv.Index(idx).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, packed)
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key type %s", ErrNoAdapter, rv.Type().Key())
		}
		return c.packMap(ctx, rv)
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, fmt.Errorf("%w for %T", ErrNoAdapter, value)
}

func (c *JSContext) packObject(ctx context.Context, adapter Adapter, value any) (any, error) {
	key, identifiable := identity(value)
	if identifiable {
		if node, seen := c.nodes[key]; seen {
			if !node.hasID {
				node.id = c.nextID
				node.hasID = true
				node.packed["_id"] = node.id
				c.nextID++
			}
			return map[string]any{"_ref": node.id}, nil
		}
	}

	packed := map[string]any{"_type": adapter.JSConstructor()}
	if identifiable {
		c.nodes[key] = &objectNode{packed: packed}
	}

	args, err := adapter.JSArgs(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("telepath: %s args: %w", adapter.JSConstructor(), err)
	}
	packedArgs := make([]any, 0, len(args))
	for _, arg := range args {
		item, err := c.Pack(ctx, arg)
		if err != nil {
			return nil, err
		}
		packedArgs = append(packedArgs, item)
	}
	packed["_args"] = packedArgs
	c.media = c.media.Merge(adapter.Media())
	return packed, nil
}

// packMap emits a plain object unless a key could be mistaken for a telepath
// marker, in which case the object is wrapped as {"_dict": {...}}.
func (c *JSContext) packMap(ctx context.Context, rv reflect.Value) (any, error) {
	out := make(map[string]any, rv.Len())
	reserved := false
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		if strings.HasPrefix(key, "_") {
			reserved = true
		}
		packed, err := c.Pack(ctx, iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[key] = packed
	}
	if reserved {
		return map[string]any{"_dict": out}, nil
	}
	return out, nil
}

func identity(value any) (objectKey, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return objectKey{}, false
	}
	return objectKey{typ: rv.Type(), ptr: rv.Pointer()}, true
}

// Marshal packs value with a fresh context and encodes it as JSON, returning
// the media the client must load alongside it.
func Marshal(ctx context.Context, registry *Registry, value any) ([]byte, media.Media, error) {
	jsctx := NewJSContext(registry)
	packed, err := jsctx.Pack(ctx, value)
	if err != nil {
		return nil, media.Media{}, err
	}
	payload, err := json.Marshal(packed)
	if err != nil {
		return nil, media.Media{}, fmt.Errorf("telepath: encode: %w", err)
	}
	return payload, jsctx.Media(), nil
}
