// Package chooser renders admin chooser widgets: a hidden input carrying the
// selected object's id, a preview of the current selection, and the actions
// that open the chooser modal, edit the object or clear the choice.
//
// BaseChooser holds the behaviour shared by every chooser. AdminImageChooser
// specialises it for images with a rendition preview, and
// ImageChooserAdapter packs it for the telepath client.
package chooser
