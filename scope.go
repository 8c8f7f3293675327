// FILE: ycmdconfig/scope.go
package ycmdconfig

import (
	"strings"
)

const sourceScopePrefix = "source."

// ScopeEnabled reports whether completions are active for a scope stack
// such as "source.python meta.function.python". A scope matches a list
// entry when it equals the entry or starts with the entry followed by a dot.
// Blacklisted scopes are always disabled. An empty whitelist enables every
// other scope unless the blacklist emptied it, in which case nothing is
// enabled.
func (r *Resolved) ScopeEnabled(scope string) bool {
	scopes := strings.Fields(scope)

	blacklist, _ := r.StringList(KeyLanguageBlacklist)
	if matchScopes(scopes, blacklist) {
		return false
	}

	whitelist, _ := r.StringList(KeyLanguageWhitelist)
	if len(whitelist) == 0 {
		return !r.Exhausted(KeyLanguageWhitelist)
	}
	return matchScopes(scopes, whitelist)
}

// FiletypeForScope returns the ycmd file type for the first "source." scope
// in a scope stack. The name after "source." is looked up in the filetype
// map, then its first segment ("js" for "source.js.embedded.html") is
// tried, and finally that segment is used unchanged. The boolean is false
// when the stack has no source scope.
func (r *Resolved) FiletypeForScope(scope string) (string, bool) {
	filetypes, _ := r.StringMap(KeyLanguageFiletype)

	for _, s := range strings.Fields(scope) {
		name, ok := strings.CutPrefix(s, sourceScopePrefix)
		if !ok || name == "" {
			continue
		}
		if ft, mapped := filetypes[name]; mapped {
			return ft, true
		}
		lang, _, _ := strings.Cut(name, ".")
		if ft, mapped := filetypes[lang]; mapped {
			return ft, true
		}
		return lang, true
	}
	return "", false
}

func matchScopes(scopes, entries []string) bool {
	for _, s := range scopes {
		for _, entry := range entries {
			if s == entry || strings.HasPrefix(s, entry+".") {
				return true
			}
		}
	}
	return false
}
