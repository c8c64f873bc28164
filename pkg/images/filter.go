package images

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Operation names a resize step inside a filter spec.
type Operation string

const (
	OpOriginal Operation = "original"
	OpMax      Operation = "max"
	OpMin      Operation = "min"
	OpFill     Operation = "fill"
	OpWidth    Operation = "width"
	OpHeight   Operation = "height"
	OpScale    Operation = "scale"
)

// ErrInvalidFilterSpec wraps every ParseFilterSpec failure.
var ErrInvalidFilterSpec = errors.New("images: invalid filter spec")

var outputFormats = map[string]string{
	"jpeg": "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
	"avif": "avif",
}

type step struct {
	op      Operation
	width   int
	height  int
	percent int
}

// FilterSpec is a parsed rendition filter such as "max-165x165" or
// "fill-100x100-c50|format-webp".
type FilterSpec struct {
	raw    string
	steps  []step
	format string
}

// ParseFilterSpec parses a "|" separated list of operations. Modifiers
// (format-*, *quality-*, bgcolor-*) are accepted; only format-* changes the
// rendition, by switching its file extension.
func ParseFilterSpec(spec string) (FilterSpec, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return FilterSpec{}, fmt.Errorf("%w: empty", ErrInvalidFilterSpec)
	}

	out := FilterSpec{raw: spec}
	for _, part := range strings.Split(spec, "|") {
		part = strings.TrimSpace(part)
		if part == string(OpOriginal) {
			out.steps = append(out.steps, step{op: OpOriginal})
			continue
		}
		name, arg, ok := strings.Cut(part, "-")
		if !ok || arg == "" {
			return FilterSpec{}, fmt.Errorf("%w: %q", ErrInvalidFilterSpec, part)
		}

		switch name {
		case string(OpMax), string(OpMin), string(OpFill):
			size := arg
			if name == string(OpFill) {
				size = stripCropCloseness(arg)
			}
			w, h, err := parseSize(size)
			if err != nil {
				return FilterSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidFilterSpec, part, err)
			}
			out.steps = append(out.steps, step{op: Operation(name), width: w, height: h})
		case string(OpWidth), string(OpHeight), string(OpScale):
			n, err := parsePositive(arg)
			if err != nil {
				return FilterSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidFilterSpec, part, err)
			}
			s := step{op: Operation(name)}
			switch Operation(name) {
			case OpWidth:
				s.width = n
			case OpHeight:
				s.height = n
			default:
				s.percent = n
			}
			out.steps = append(out.steps, s)
		case "format":
			if _, ok := outputFormats[arg]; !ok {
				return FilterSpec{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidFilterSpec, arg)
			}
			out.format = arg
		case "jpegquality", "webpquality", "avifquality":
			n, err := parsePositive(arg)
			if err != nil || n > 100 {
				return FilterSpec{}, fmt.Errorf("%w: %q: quality must be 1-100", ErrInvalidFilterSpec, part)
			}
		case "bgcolor":
			if !isHexColor(arg) {
				return FilterSpec{}, fmt.Errorf("%w: %q: bad colour", ErrInvalidFilterSpec, part)
			}
		default:
			return FilterSpec{}, fmt.Errorf("%w: unknown operation %q", ErrInvalidFilterSpec, name)
		}
	}
	return out, nil
}

// MustParseFilterSpec panics when spec is invalid. Intended for constants.
func MustParseFilterSpec(spec string) FilterSpec {
	parsed, err := ParseFilterSpec(spec)
	if err != nil {
		panic(err)
	}
	return parsed
}

// String returns the spec as written.
func (f FilterSpec) String() string {
	return f.raw
}

// IsZero reports whether f was never parsed.
func (f FilterSpec) IsZero() bool {
	return f.raw == ""
}

// Format returns the requested output format, or "" to keep the source format.
func (f FilterSpec) Format() string {
	return f.format
}

// Apply computes the rendition size for a width x height source. Resize
// steps never upscale and never produce a zero dimension from a non-zero
// source.
func (f FilterSpec) Apply(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	for _, s := range f.steps {
		width, height = s.apply(width, height)
	}
	return width, height
}

// W*h against H*w compares the horizontal and vertical scale factors without
// going through floats.
func (s step) apply(w, h int) (int, int) {
	switch s.op {
	case OpMax:
		if w <= s.width && h <= s.height {
			return w, h
		}
		if s.width*h < s.height*w {
			return s.width, clamp(h * s.width / w)
		}
		return clamp(w * s.height / h), s.height
	case OpMin:
		if w <= s.width || h <= s.height {
			return w, h
		}
		if s.width*h > s.height*w {
			return s.width, clamp(h * s.width / w)
		}
		return clamp(w * s.height / h), s.height
	case OpFill:
		// Crop to the target aspect ratio first, then only ever shrink.
		cropW, cropH := w, h
		if w*s.height > s.width*h {
			cropW = clamp(h * s.width / s.height)
		} else {
			cropH = clamp(w * s.height / s.width)
		}
		if cropW > s.width {
			return s.width, s.height
		}
		return cropW, cropH
	case OpWidth:
		if w <= s.width {
			return w, h
		}
		return s.width, clamp(h * s.width / w)
	case OpHeight:
		if h <= s.height {
			return w, h
		}
		return clamp(w * s.height / h), s.height
	case OpScale:
		return clamp(w * s.percent / 100), clamp(h * s.percent / 100)
	}
	return w, h
}

func clamp(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func parseSize(raw string) (int, int, error) {
	ws, hs, ok := strings.Cut(raw, "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q must be WIDTHxHEIGHT", raw)
	}
	w, err := parsePositive(ws)
	if err != nil {
		return 0, 0, err
	}
	h, err := parsePositive(hs)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func parsePositive(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%q is not a positive integer", raw)
	}
	return n, nil
}

func stripCropCloseness(arg string) string {
	size, closeness, ok := strings.Cut(arg, "-")
	if !ok {
		return arg
	}
	if strings.HasPrefix(closeness, "c") {
		if _, err := strconv.Atoi(closeness[1:]); err == nil {
			return size
		}
	}
	return arg
}

func isHexColor(raw string) bool {
	if len(raw) != 3 && len(raw) != 6 {
		return false
	}
	_, err := strconv.ParseUint(raw, 16, 32)
	return err == nil
}
