// Package alias assigns identities to physical device positions.
//
// An alias is keyed by a selector and carries a priority and a label.
// Resolution keeps the aliases whose current term equals the node id,
// orders them by priority (highest first, ties by selector text) and
// returns the first one whose axis clauses pass. The cheap node id filter
// runs before any tree walk.
//
// The alias table lives in aliases.json, an object keyed by selector:
//
//	{
//	  "usb(1a86:7523)[ancestor==usb(05e3:0610)]": {"label": "bench serial", "priority": 50}
//	}
package alias
