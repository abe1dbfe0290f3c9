// Package policy provides optional declarative rules that can be applied on
// top of a running gopher server - for example to hide a private subtree or
// to serve nothing but an allow-listed set of directories.
package policy
