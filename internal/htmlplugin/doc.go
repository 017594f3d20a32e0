// Package htmlplugin generates an HTML page for the entrypoints of a
// compilation and exposes the page generation stages as hooks other plugins
// can tap into.
//
// Generation runs during the compiler emit event in three stages:
//
//   - before asset tag generation: the selected CSS and JS files are known
//   - alter asset tag groups: head and body tag descriptors can be rewritten
//   - before emit: the rendered document can be rewritten
//
// On a tap-style compiler the stages are the hooks returned by GetHooks. On
// a legacy compiler they are fired as compilation events named by the
// Event* constants.
package htmlplugin
