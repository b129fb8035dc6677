package jobs

import (
	"fmt"
	"net/url"
	"strings"
)

// DirectoryLookup is the read-only name→id contract jobs resolve against.
// The directory repository implements it.
type DirectoryLookup interface {
	LookupByName(name string) ([]string, error)
}

// NormalizeTargets canonicalizes raw target URLs and removes duplicates
// while preserving first-seen order. Relative paths are resolved against
// base. Queries and fragments are stripped so the same video page submitted
// two ways counts once. Unparseable entries are dropped.
func NormalizeTargets(base string, raw []string) []string {
	baseURL, err := url.Parse(base)
	if err != nil {
		baseURL = nil
	}

	seen := make(map[string]bool, len(raw))
	var targets []string

	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		u, err := url.Parse(entry)
		if err != nil {
			continue
		}
		if !u.IsAbs() {
			if baseURL == nil {
				continue
			}
			u = baseURL.ResolveReference(u)
		}

		u.Host = strings.ToLower(u.Host)
		u.RawQuery = ""
		u.Fragment = ""
		if u.Path == "" {
			u.Path = "/"
		}

		canonical := u.String()
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		targets = append(targets, canonical)
	}

	return targets
}

// ResolvePlaylists builds the final playlist id set for a job: explicit ids
// pass through, names are resolved case-insensitively against the
// directory, and the union is deduplicated preserving order. Names with no
// directory match come back in missing rather than failing the whole
// submission.
func ResolvePlaylists(dir DirectoryLookup, ids, names []string) (resolved, missing []string, err error) {
	seen := make(map[string]bool, len(ids))

	add := func(id string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		resolved = append(resolved, id)
	}

	for _, id := range ids {
		add(strings.TrimSpace(id))
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		matches, lookupErr := dir.LookupByName(name)
		if lookupErr != nil {
			return nil, nil, fmt.Errorf("failed to resolve playlist %q: %w", name, lookupErr)
		}
		if len(matches) == 0 {
			missing = append(missing, name)
			continue
		}
		for _, id := range matches {
			add(id)
		}
	}

	return resolved, missing, nil
}
