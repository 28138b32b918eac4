// Package labelrules turns classification records into display labels.
//
// Rules are scanned in order and the first rule whose checks all pass
// supplies the template; a rule without checks always passes and usually
// comes last. Templates use {field} slots filled from the record and the
// caller's formatting data, with {{ and }} for literal braces. A field that
// is missing renders as "--field missing--" instead of failing.
//
// The rule table lives in rules.json:
//
//	{"rules": [{"id": 1, "checks": [{"field": "ilk", "operator": "equals", "value": "pci"}],
//	            "template": "{vendor} {product_text}"}]}
package labelrules
