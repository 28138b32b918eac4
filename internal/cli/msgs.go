package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Classify and label the hardware devices of this host"
	MsgRootLong  = `astutus reads the sysfs device tree, classifies each USB and PCI node
into an attribute record, and names devices through position aliases and
ordered label rules.`
	MsgVersionShort     = "Print version information"
	MsgVersionLong      = "Print detailed version information including commit hash and build date"
	MsgClassifyShort    = "Print the classification record of a device node"
	MsgLabelShort       = "Print the label of a device node"
	MsgTreeShort        = "Print the device tree with labels"
	MsgAliasShort       = "Manage position aliases"
	MsgAliasListShort   = "List aliases in resolution order"
	MsgAliasSetShort    = "Create or replace the alias of a selector"
	MsgAliasDelShort    = "Delete the alias of a selector"
	MsgAliasResShort    = "Resolve the alias of a device node"
	MsgRulesShort       = "Manage label rules"
	MsgRulesListShort   = "List label rules in evaluation order"
	MsgRulesAddShort    = "Add a label rule at the head of the list"
	MsgRulesUpdShort    = "Replace the checks and template of a rule"
	MsgRulesDelShort    = "Delete a label rule"
	MsgRulesOrdShort    = "Reorder the label rules"
	MsgSelectorShort    = "Work with selectors"
	MsgSelectorChkShort = "Check whether a selector matches a device node"
	MsgConfigShort      = "Inspect configuration"
	MsgConfigShowShort  = "Print the effective settings as TOML"
	MsgCacheShort       = "Manage the record cache"
	MsgCacheClearShort  = "Drop every cached record"
	MsgCompletionShort  = "Generate shell completion script"

	// Status messages
	MsgAliasSaved     = "Alias for %s saved to %s"
	MsgAliasDeleted   = "Alias for %s deleted"
	MsgNoAlias        = "No alias matches %s"
	MsgRuleAdded      = "Rule %d added"
	MsgRuleUpdated    = "Rule %d updated"
	MsgRuleDeleted    = "Rule %d deleted"
	MsgRulesReordered = "Rules reordered"
	MsgSelectorMatch  = "%s matches %s"
	MsgSelectorMiss   = "%s does not match %s"
	MsgCacheCleared   = "Record cache cleared"
	MsgWatching       = "Watching %s and %s for changes"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrOpenCache  = "failed to open record cache: %w"
	MsgErrBadCheck   = "check %q must be field:operator:value"
	MsgErrBadID      = "rule id %q is not a number"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagField    = "Extra field to augment (repeatable)"
	MsgFlagLabel    = "Alias label"
	MsgFlagPriority = "Alias priority, higher wins"
	MsgFlagColor    = "Alias display color, e.g. #00ff00"
	MsgFlagDesc     = "Alias description"
	MsgFlagTemplate = "Rule template with {field} slots"
	MsgFlagCheck    = "Rule check as field:operator:value (repeatable)"
	MsgFlagData     = "Formatting value as key=value, overriding record fields (repeatable)"
	MsgFlagWatch    = "Keep running and redraw when the alias or rule table changes"

	// Version output
	MsgVersionFormat = "astutus version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"
)
