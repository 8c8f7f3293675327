// FILE: ycmdconfig/kind.go
package ycmdconfig

// Kind is the value kind a schema entry accepts.
type Kind int

const (
	KindBoolean Kind = iota
	KindInteger
	KindString
	KindNullableString
	KindTriState
	KindStringList
	KindStringMap
	KindEnumString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindString:
		return "String"
	case KindNullableString:
		return "NullableString"
	case KindTriState:
		return "TriState"
	case KindStringList:
		return "StringList"
	case KindStringMap:
		return "StringToStringMap"
	case KindEnumString:
		return "EnumString"
	default:
		return "Unknown"
	}
}

// MergeStrategy selects how values for one key combine across layers.
type MergeStrategy int

const (
	// MergeReplace takes the value from the highest-precedence layer.
	MergeReplace MergeStrategy = iota
	// MergeListUnion unions list entries across layers. When the entry
	// names a DenyKey, every item of that deny list is removed.
	MergeListUnion
	// MergeMapUnion unions map entries key by key; higher layers win collisions.
	MergeMapUnion
)

// String returns the strategy name.
func (m MergeStrategy) String() string {
	switch m {
	case MergeReplace:
		return "Replace"
	case MergeListUnion:
		return "ListUnionWithPrecedence"
	case MergeMapUnion:
		return "MapUnion"
	default:
		return "Unknown"
	}
}

// Group tags keys by the subsystem that consumes them. Changes within a
// group tell the host which collaborator needs restarting.
type Group int

const (
	GroupNone Group = iota
	// GroupServer keys change how completion servers are launched.
	GroupServer
	// GroupPool keys size the background worker pool.
	GroupPool
	// GroupLogging keys configure server logging.
	GroupLogging
	// GroupLanguage keys decide where completions are active.
	GroupLanguage
	// GroupPlugin keys configure the plugin itself.
	GroupPlugin
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupServer:
		return "server"
	case GroupPool:
		return "pool"
	case GroupLogging:
		return "logging"
	case GroupLanguage:
		return "language"
	case GroupPlugin:
		return "plugin"
	default:
		return "none"
	}
}

// TriState is a value restricted to null, true and false.
// The zero value is TriNull.
type TriState int8

const (
	TriNull TriState = iota
	TriFalse
	TriTrue
)

// String returns "null", "false" or "true".
func (t TriState) String() string {
	switch t {
	case TriFalse:
		return "false"
	case TriTrue:
		return "true"
	default:
		return "null"
	}
}

// LogFileMode is the closed set of server log destinations.
type LogFileMode int

const (
	// LogFileSuppressed spools server output in memory and discards it (raw null).
	LogFileSuppressed LogFileMode = iota
	// LogFileDisabled sends server output nowhere (raw false).
	LogFileDisabled
	// LogFileTemporary writes server output to generated temporary files (raw true).
	LogFileTemporary
	// LogFilePath writes server output to a configured path (raw string).
	LogFilePath
)

// String returns the mode name.
func (m LogFileMode) String() string {
	switch m {
	case LogFileDisabled:
		return "disabled"
	case LogFileTemporary:
		return "temporary"
	case LogFilePath:
		return "path"
	default:
		return "suppressed"
	}
}

// LogFile is the tagged variant resolved from the raw null/false/true/string
// log file setting. Path is set only for LogFilePath.
type LogFile struct {
	Mode LogFileMode
	Path string
}

// String renders the variant.
func (l LogFile) String() string {
	if l.Mode == LogFilePath {
		return "path(" + l.Path + ")"
	}
	return l.Mode.String()
}

// Raw returns the raw settings representation of the variant.
func (l LogFile) Raw() any {
	switch l.Mode {
	case LogFileDisabled:
		return false
	case LogFileTemporary:
		return true
	case LogFilePath:
		return l.Path
	default:
		return nil
	}
}
