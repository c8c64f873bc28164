// Package template defines the template rendering contract used by chooser
// widgets. The gotemplate subpackage provides the default pongo2 engine, which
// understands Django-style templates ({% extends %}, {% block %}, filters).
package template
