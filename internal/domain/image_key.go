package domain

import "strings"

// ImageKeyFromURL derives the image store key for a public image URL.
// The key is folder + "/" + the last path segment up to its first dot.
// Query strings and fragments are ignored. ok is false when no name can be derived.
func ImageKeyFromURL(folder, rawURL string) (key string, ok bool) {
	s := strings.TrimSpace(rawURL)
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "", false
	}
	// A bare host has no path segment to name the object.
	if _, rest, found := strings.Cut(s, "://"); found && !strings.Contains(rest, "/") {
		return "", false
	}

	seg := s
	if i := strings.LastIndex(s, "/"); i >= 0 {
		seg = s[i+1:]
	}
	name, _, _ := strings.Cut(seg, ".")
	if name == "" {
		return "", false
	}

	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name, true
	}
	return folder + "/" + name, true
}
