// Package styleext is the build plugin that embeds a generated stylesheet
// into the pages of the HTML plugin.
//
// Per compilation the plugin resolves the stylesheet once before the first
// page builds its tags, marks it for deletion, embeds it either in place of
// its link tag (position "plugin") or as a new style block in the rendered
// document (all other positions), and removes the file when the compiler
// emits. The HTML plugin must be applied before this plugin so that its pages
// are rendered before the deletion runs.
package styleext
