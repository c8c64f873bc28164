// Package imagesearch provides image search helpers and a small net/http
// handler returning JSON options for the image chooser modal.
//
// The handler responds to GET and HEAD requests and supports query, limit and
// collection parameters. Results come from an images.Repository.
package imagesearch
