// Package server serves the highlighted annotation view over HTTP.
//
// The server renders every loaded record as its paragraph text with entity
// spans wrapped in colored <mark> elements, one section per source file,
// plus a legend mapping labels to their assigned colors. It is a local
// review tool: it binds to loopback by default and blocks the calling
// process while serving.
package server
