// Package telepath serialises server-side widgets into the JSON descriptors
// the admin's client-side hydration layer understands.
//
// An adapter registered for a Go type names the JS constructor and the
// constructor arguments; JSContext.Pack walks a value and emits
//
//	{"_type": "wagtail.images.widgets.ImageChooser", "_args": ["<div ...>", "__ID__"]}
//
// for every adaptable object, plain JSON for everything else, and collects
// the JS/CSS media the client needs to load the constructors.
package telepath
