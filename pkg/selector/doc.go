// Package selector parses and evaluates structural device predicates.
//
// A selector names a device kind and optionally constrains its position in
// the tree with at most one clause per axis:
//
//	usb(1a86:7523)[ancestor==usb(05e3:0610)][sibling!=usb(1a86:7523)]
//
// The current term must equal the node id of the candidate path. An
// ancestor clause looks at every parent below the tree root, a child clause
// at direct device children and a sibling clause at the other children of
// the parent. With == a clause passes when some relative has the target
// node id; with != it passes when none does.
package selector
